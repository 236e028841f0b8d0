package database

import (
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics collects and tracks database performance metrics
type Metrics struct {
	db     *sql.DB
	logger *zap.Logger

	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64

	execCount     int64
	selectCount   int64
	queryRowCount int64

	slowQueryThreshold time.Duration

	mu          sync.RWMutex
	hourlyStats []HourlyMetrics

	stopCh   chan struct{}
	stopOnce sync.Once
}

// HourlyMetrics represents metrics aggregated over one hour
type HourlyMetrics struct {
	Hour        time.Time     `json:"hour"`
	QueryCount  int64         `json:"query_count"`
	ErrorCount  int64         `json:"error_count"`
	AvgDuration time.Duration `json:"avg_duration"`
	SlowQueries int64         `json:"slow_queries"`
}

// MetricsSnapshot provides a point-in-time view of metrics
type MetricsSnapshot struct {
	QueryCount       int64           `json:"query_count"`
	ErrorCount       int64           `json:"error_count"`
	SlowQueryCount   int64           `json:"slow_query_count"`
	AvgQueryDuration time.Duration   `json:"avg_query_duration"`
	DBStats          sql.DBStats     `json:"db_stats"`
	Last24Hours      []HourlyMetrics `json:"last_24_hours"`
	Timestamp        time.Time       `json:"timestamp"`
}

// NewMetrics creates a new metrics collector
func NewMetrics(db *sql.DB, logger *zap.Logger, slowQueryThreshold time.Duration) *Metrics {
	m := &Metrics{
		db:                 db,
		logger:             logger,
		slowQueryThreshold: slowQueryThreshold,
		hourlyStats:        make([]HourlyMetrics, 0, 24),
		stopCh:             make(chan struct{}),
	}

	go m.collectPeriodicMetrics()

	return m
}

// RecordQuery records metrics for a database query
func (m *Metrics) RecordQuery(queryType string, duration time.Duration, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))

	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}

	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}

	switch queryType {
	case "exec":
		atomic.AddInt64(&m.execCount, 1)
	case "query":
		atomic.AddInt64(&m.selectCount, 1)
	case "query_row":
		atomic.AddInt64(&m.queryRowCount, 1)
	}
}

// Snapshot returns current metrics snapshot
func (m *Metrics) Snapshot() *MetricsSnapshot {
	queryCount := atomic.LoadInt64(&m.queryCount)
	errorCount := atomic.LoadInt64(&m.errorCount)
	slowQueryCount := atomic.LoadInt64(&m.slowQueryCount)
	totalDuration := atomic.LoadInt64(&m.queryDuration)

	var avgDuration time.Duration
	if queryCount > 0 {
		avgDuration = time.Duration(totalDuration / queryCount)
	}

	m.mu.RLock()
	last24Hours := make([]HourlyMetrics, len(m.hourlyStats))
	copy(last24Hours, m.hourlyStats)
	m.mu.RUnlock()

	return &MetricsSnapshot{
		QueryCount:       queryCount,
		ErrorCount:       errorCount,
		SlowQueryCount:   slowQueryCount,
		AvgQueryDuration: avgDuration,
		DBStats:          m.db.Stats(),
		Last24Hours:      last24Hours,
		Timestamp:        time.Now(),
	}
}

func (m *Metrics) collectPeriodicMetrics() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.aggregateHourlyMetrics()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Metrics) aggregateHourlyMetrics() {
	now := time.Now()
	currentHour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())

	queryCount := atomic.LoadInt64(&m.queryCount)
	errorCount := atomic.LoadInt64(&m.errorCount)
	slowQueryCount := atomic.LoadInt64(&m.slowQueryCount)
	totalDuration := atomic.LoadInt64(&m.queryDuration)

	var avgDuration time.Duration
	if queryCount > 0 {
		avgDuration = time.Duration(totalDuration / queryCount)
	}

	m.mu.Lock()
	m.hourlyStats = append(m.hourlyStats, HourlyMetrics{
		Hour:        currentHour,
		QueryCount:  queryCount,
		ErrorCount:  errorCount,
		AvgDuration: avgDuration,
		SlowQueries: slowQueryCount,
	})
	if len(m.hourlyStats) > 24 {
		m.hourlyStats = m.hourlyStats[len(m.hourlyStats)-24:]
	}
	m.mu.Unlock()

	m.logger.Info("Hourly database metrics",
		zap.Time("hour", currentHour),
		zap.Int64("queries", queryCount),
		zap.Int64("errors", errorCount),
		zap.Int64("slow_queries", slowQueryCount),
		zap.Duration("avg_duration", avgDuration),
	)
}

// Stop stops the metrics collection. Safe to call more than once; the
// manager is closed both by the service collection shutdown and by the
// deferred close in main.
func (m *Metrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.queryCount, 0)
	atomic.StoreInt64(&m.queryDuration, 0)
	atomic.StoreInt64(&m.errorCount, 0)
	atomic.StoreInt64(&m.slowQueryCount, 0)
	atomic.StoreInt64(&m.execCount, 0)
	atomic.StoreInt64(&m.selectCount, 0)
	atomic.StoreInt64(&m.queryRowCount, 0)

	m.mu.Lock()
	m.hourlyStats = m.hourlyStats[:0]
	m.mu.Unlock()
}
