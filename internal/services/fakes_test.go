package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
	"badgeflow/internal/repositories"

	"github.com/ethereum/go-ethereum/common"
)

// In-memory repository fakes for service tests. Each mirrors the not-found
// and duplicate semantics of the SQLite-backed implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error) {
	return r.page(params)
}

func (r *fakeUserRepo) ListWithBadgeCounts(_ context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.User], error) {
	return r.page(params)
}

func (r *fakeUserRepo) page(params models.PaginationParams) (*models.PaginatedResponse[models.User], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := params.Offset
	if start > len(all) {
		start = len(all)
	}
	end := start + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return models.NewPaginatedResponse(all[start:end], total, params), nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeMissionRepo struct {
	mu       sync.Mutex
	missions map[string]*models.Mission
	badges   *fakeBadgeRepo
}

func newFakeMissionRepo(badges *fakeBadgeRepo) *fakeMissionRepo {
	return &fakeMissionRepo{missions: map[string]*models.Mission{}, badges: badges}
}

func (r *fakeMissionRepo) Create(_ context.Context, mission *models.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *mission
	r.missions[mission.ID] = &clone
	return nil
}

func (r *fakeMissionRepo) GetByID(_ context.Context, id string) (*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mission, ok := r.missions[id]; ok {
		clone := *mission
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeMissionRepo) Update(_ context.Context, mission *models.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.missions[mission.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *mission
	r.missions[mission.ID] = &clone
	return nil
}

func (r *fakeMissionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.missions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.missions, id)
	return nil
}

func (r *fakeMissionRepo) List(context.Context) ([]models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.Mission, 0, len(r.missions))
	for _, mission := range r.missions {
		all = append(all, *mission)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *fakeMissionRepo) ListWithCompletion(ctx context.Context, userID string) ([]models.Mission, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		done, err := r.badges.ExistsForMissionUser(ctx, all[i].ID, userID)
		if err != nil {
			return nil, err
		}
		all[i].Completed = done
	}
	return all, nil
}

func (r *fakeMissionRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.missions)), nil
}

type fakeBadgeRepo struct {
	mu     sync.Mutex
	badges map[string]*models.EarnedBadge
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{badges: map[string]*models.EarnedBadge{}}
}

func (r *fakeBadgeRepo) Create(_ context.Context, badge *models.EarnedBadge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.badges {
		if existing.MissionID == badge.MissionID && existing.UserID == badge.UserID {
			return repositories.ErrDuplicate
		}
	}
	clone := *badge
	r.badges[badge.ID] = &clone
	return nil
}

func (r *fakeBadgeRepo) GetByID(_ context.Context, id string) (*models.EarnedBadge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if badge, ok := r.badges[id]; ok {
		clone := *badge
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeBadgeRepo) ListByUser(_ context.Context, userID string) ([]models.EarnedBadge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EarnedBadge
	for _, badge := range r.badges {
		if badge.UserID == userID {
			out = append(out, *badge)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EarnedAt > out[j].EarnedAt })
	return out, nil
}

func (r *fakeBadgeRepo) ListRecent(_ context.Context, limit int) ([]models.EarnedBadge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.EarnedBadge, 0, len(r.badges))
	for _, badge := range r.badges {
		all = append(all, *badge)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EarnedAt > all[j].EarnedAt })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeBadgeRepo) ExistsForMissionUser(_ context.Context, missionID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, badge := range r.badges {
		if badge.MissionID == missionID && badge.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBadgeRepo) UpdateProvenance(_ context.Context, id, txHash, contractAddress string, blockNumber int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	badge, ok := r.badges[id]
	if !ok {
		return sql.ErrNoRows
	}
	badge.TxHash = &txHash
	badge.ContractAddress = &contractAddress
	badge.BlockNumber = &blockNumber
	return nil
}

func (r *fakeBadgeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.badges[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.badges, id)
	return nil
}

func (r *fakeBadgeRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, b := range r.badges {
		if b.UserID == userID {
			delete(r.badges, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeBadgeRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.badges)), nil
}

func (r *fakeBadgeRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, badge := range r.badges {
		if badge.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBadgeRepo) CountAnchored(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, badge := range r.badges {
		if badge.TxHash != nil {
			n++
		}
	}
	return n, nil
}

func (r *fakeBadgeRepo) CountByMission(context.Context) ([]models.MissionBadgeCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, badge := range r.badges {
		counts[badge.MissionID]++
	}
	out := make([]models.MissionBadgeCount, 0, len(counts))
	for missionID, count := range counts {
		out = append(out, models.MissionBadgeCount{MissionID: missionID, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

var (
	_ repositories.UserRepository    = (*fakeUserRepo)(nil)
	_ repositories.MissionRepository = (*fakeMissionRepo)(nil)
	_ repositories.BadgeRepository   = (*fakeBadgeRepo)(nil)
)

// stubLedger implements blockchain.Ledger with canned behavior.
type stubLedger struct {
	available bool
	records   map[string]*blockchain.LedgerRecord
	network   blockchain.NetworkInfo
	writes    int
}

func newStubLedger(available bool) *stubLedger {
	return &stubLedger{
		available: available,
		records:   map[string]*blockchain.LedgerRecord{},
		network:   blockchain.NetworkInfo{Network: "localhost"},
	}
}

func (l *stubLedger) ProbeAvailability(context.Context) bool { return l.available }

func (l *stubLedger) ReadBadgeRecord(_ context.Context, badgeID string) (*blockchain.LedgerRecord, error) {
	if record, ok := l.records[badgeID]; ok {
		return record, nil
	}
	return &blockchain.LedgerRecord{Exists: false}, nil
}

func (l *stubLedger) WriteBadgeRecord(_ context.Context, badgeID string, dataHash common.Hash) (*blockchain.WriteReceipt, error) {
	l.writes++
	l.records[badgeID] = &blockchain.LedgerRecord{
		DataHash:  dataHash,
		Issuer:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Timestamp: 1736935200,
		Exists:    true,
	}
	return &blockchain.WriteReceipt{
		TxHash:          "0xdeadbeef",
		BlockNumber:     int64(l.writes),
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
	}, nil
}

func (l *stubLedger) NetworkInfo() blockchain.NetworkInfo { return l.network }

var _ blockchain.Ledger = (*stubLedger)(nil)
