package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Blockchain BlockchainConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
}

// DatabaseConfig holds configuration for the single-file SQLite store
type DatabaseConfig struct {
	Path               string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	SlowQueryThreshold time.Duration
	EnableQueryLogging bool
	MigrationsPath     string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string
	JWTExpiry   time.Duration
	BCryptCost  int
	CookieName  string
	AdminEmail  string
	AdminName   string
	AdminSecret string
}

// BlockchainConfig holds ledger client configuration. The RPC endpoint and
// signing key differ per network profile; the contract ABI and hashing logic
// do not. The default signer is Hardhat account #0, a well-known
// deterministic development key rather than a secret, and must be overridden
// for any public network.
type BlockchainConfig struct {
	Network        string
	RPCURL         string
	ChainID        int64
	SignerKey      string
	DeploymentFile string
	RPCTimeout     time.Duration
	ConfirmTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

const hardhatAccount0Key = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Load loads configuration from environment variables with validation
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server:     loadServerConfig(env),
		Database:   loadDatabaseConfig(env),
		Auth:       loadAuthConfig(),
		Blockchain: loadBlockchainConfig(),
		Logging:    loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
	}

	if env == "development" {
		config.GracefulTimeout = 10 * time.Second
	}

	return config
}

func loadDatabaseConfig(env string) DatabaseConfig {
	return DatabaseConfig{
		Path:               getEnv("DATABASE_PATH", "./data/badgeflow.db"),
		MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 1),
		MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 1),
		ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		EnableQueryLogging: getBoolEnv("DB_ENABLE_QUERY_LOGGING", env == "development"),
		MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "./migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:   getEnv("JWT_SECRET", "default-jwt-secret-change-in-production"),
		JWTExpiry:   getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		BCryptCost:  getIntEnv("BCRYPT_COST", 10),
		CookieName:  getEnv("AUTH_COOKIE_NAME", "badgeflow_token"),
		AdminEmail:  getEnv("ADMIN_EMAIL", "admin@badgeflow.com"),
		AdminName:   getEnv("ADMIN_NAME", "Admin User"),
		AdminSecret: getEnv("ADMIN_PASSWORD", "admin1234"),
	}
}

func loadBlockchainConfig() BlockchainConfig {
	network := getEnv("BLOCKCHAIN_NETWORK", "localhost")

	defaultRPC := "http://127.0.0.1:8545"
	defaultChainID := int64(31337) // hardhat
	if network == "sepolia" {
		defaultRPC = getEnv("SEPOLIA_RPC_URL", "")
		defaultChainID = 11155111
	}

	return BlockchainConfig{
		Network:        network,
		RPCURL:         getEnv("BLOCKCHAIN_RPC_URL", defaultRPC),
		ChainID:        getInt64Env("BLOCKCHAIN_CHAIN_ID", defaultChainID),
		SignerKey:      getEnv("BLOCKCHAIN_SIGNER_KEY", hardhatAccount0Key),
		DeploymentFile: getEnv("BLOCKCHAIN_DEPLOYMENT_FILE", "./data/contract-deployment.json"),
		RPCTimeout:     getDurationEnv("BLOCKCHAIN_RPC_TIMEOUT", 10*time.Second),
		ConfirmTimeout: getDurationEnv("BLOCKCHAIN_CONFIRM_TIMEOUT", 60*time.Second),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		Format: getEnv("LOG_FORMAT", getDefaultLogFormat(env)),
	}
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.Auth.Validate(c.Server.Environment); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.Blockchain.Validate(); err != nil {
		return fmt.Errorf("blockchain config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("ReadTimeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("WriteTimeout must be positive")
	}
	return nil
}

// Validate validates database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("MaxOpenConns must be positive")
	}
	if d.SlowQueryThreshold <= 0 {
		return fmt.Errorf("SlowQueryThreshold must be positive")
	}
	return nil
}

// Validate validates auth configuration
func (a *AuthConfig) Validate(env string) error {
	if env == "production" {
		if a.JWTSecret == "" || a.JWTSecret == "default-jwt-secret-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set for production")
		}
		if a.AdminSecret == "admin1234" {
			return fmt.Errorf("ADMIN_PASSWORD must be changed for production")
		}
	}
	if a.BCryptCost < 4 || a.BCryptCost > 31 {
		return fmt.Errorf("BCryptCost must be between 4 and 31")
	}
	if a.JWTExpiry <= 0 {
		return fmt.Errorf("JWTExpiry must be positive")
	}
	return nil
}

// Validate validates blockchain configuration
func (b *BlockchainConfig) Validate() error {
	if b.Network == "" {
		return fmt.Errorf("BLOCKCHAIN_NETWORK is required")
	}
	if b.RPCURL == "" {
		return fmt.Errorf("BLOCKCHAIN_RPC_URL is required for network %q", b.Network)
	}
	if b.Network != "localhost" && b.SignerKey == hardhatAccount0Key {
		return fmt.Errorf("BLOCKCHAIN_SIGNER_KEY must be set for network %q", b.Network)
	}
	if b.RPCTimeout <= 0 || b.ConfirmTimeout <= 0 {
		return fmt.Errorf("blockchain timeouts must be positive")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getDefaultLogLevel(env string) string {
	switch env {
	case "production":
		return "info"
	default:
		return "debug"
	}
}

func getDefaultLogFormat(env string) string {
	switch env {
	case "production":
		return "json"
	default:
		return "console"
	}
}
