package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// EngineConfig holds the issuance engine principals
type EngineConfig struct {
	// AdminAddress is the administrative principal
	AdminAddress string `mapstructure:"admin_address"`
	// IssuerAddress is the trusted voucher signer; defaults to AdminAddress
	IssuerAddress string `mapstructure:"issuer_address"`
	ContractURI   string `mapstructure:"contract_uri"`
}

// PayoutMode selects the withdrawal transfer mechanism
type PayoutMode string

const (
	PayoutModeEthereum PayoutMode = "ethereum"
	PayoutModeLedger   PayoutMode = "ledger"
)

// PayoutConfig holds withdrawal transfer configuration
type PayoutConfig struct {
	Mode       PayoutMode `mapstructure:"mode"`
	RPCURL     string     `mapstructure:"rpc_url"`
	ChainID    int64      `mapstructure:"chain_id"`
	PrivateKey string     `mapstructure:"private_key"` // hex encoded custody key
	GasLimit   uint64     `mapstructure:"gas_limit"`
	// Timeout bounds one payout transfer, including its RPC round-trips
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// RelayConfig holds outbox relay configuration
type RelayConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxRetries   uint64        `mapstructure:"max_retries"`
	// MaxAttempts parks an event after this many failed cycles
	MaxAttempts int          `mapstructure:"max_attempts"`
	Worker      WorkerConfig `mapstructure:"worker"`
}

// WebhookConfig holds webhook delivery configuration
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MetricsConfig holds prometheus configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	// Address is the listen address of services without an API server
	Address string `mapstructure:"address"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Auth       AuthConfig     `mapstructure:"auth"`
	Engine     EngineConfig   `mapstructure:"engine"`
	Payout     PayoutConfig   `mapstructure:"payout"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
}

// EventRelayConfig holds configuration for event-relay
type EventRelayConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Relay      RelayConfig    `mapstructure:"relay"`
	Webhook    WebhookConfig  `mapstructure:"webhook"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("payout.mode", string(PayoutModeLedger))
	v.SetDefault("payout.gas_limit", 21000)
	v.SetDefault("payout.timeout", 30*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := config.Payout.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadEventRelayConfig loads configuration for event-relay
func LoadEventRelayConfig(configFile string, envPath string) (*EventRelayConfig, error) {
	v := configureViper("event-relay", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "ISSUANCE_EVENTS")
	v.SetDefault("nats.subject_prefix", "issuance")
	v.SetDefault("nats.connection_name", "event-relay")
	v.SetDefault("relay.poll_interval", "2s")
	v.SetDefault("relay.batch_size", 100)
	v.SetDefault("relay.max_retries", 5)
	v.SetDefault("relay.max_attempts", 20)
	v.SetDefault("relay.worker.pool_size", 8)
	v.SetDefault("relay.worker.queue_size", 256)
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.address", ":9090")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg EventRelayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}
	if cfg.Webhook.URL != "" && cfg.Webhook.Secret == "" {
		return nil, errors.New("webhook.secret is required when webhook.url is set")
	}

	return &cfg, nil
}

// Validate checks the engine principals
func (c *EngineConfig) Validate() error {
	if !common.IsHexAddress(c.AdminAddress) {
		return fmt.Errorf("engine.admin_address is required and must be a hex address, got %q", c.AdminAddress)
	}
	if c.IssuerAddress != "" && !common.IsHexAddress(c.IssuerAddress) {
		return fmt.Errorf("engine.issuer_address must be a hex address, got %q", c.IssuerAddress)
	}
	return nil
}

// Admin returns the administrative principal address
func (c *EngineConfig) Admin() common.Address {
	return common.HexToAddress(c.AdminAddress)
}

// Issuer returns the voucher issuer address, falling back to the admin
func (c *EngineConfig) Issuer() common.Address {
	if c.IssuerAddress == "" {
		return c.Admin()
	}
	return common.HexToAddress(c.IssuerAddress)
}

// Validate checks the payout settings for the selected mode
func (c *PayoutConfig) Validate() error {
	switch c.Mode {
	case PayoutModeLedger:
		return nil
	case PayoutModeEthereum:
		if c.RPCURL == "" {
			return errors.New("payout.rpc_url is required for ethereum payouts")
		}
		if c.PrivateKey == "" {
			return errors.New("payout.private_key is required for ethereum payouts")
		}
		return nil
	default:
		return fmt.Errorf("unknown payout.mode %q", c.Mode)
	}
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/, cmd/event-relay/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("ISSUANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Engine
		"engine.admin_address",
		"engine.issuer_address",
		"engine.contract_uri",
		// Payout
		"payout.mode",
		"payout.rpc_url",
		"payout.chain_id",
		"payout.private_key",
		"payout.gas_limit",
		"payout.timeout",
		// Relay
		"relay.poll_interval",
		"relay.batch_size",
		"relay.max_retries",
		"relay.max_attempts",
		"relay.worker.pool_size",
		"relay.worker.queue_size",
		// Webhook
		"webhook.url",
		"webhook.secret",
		"webhook.timeout",
		// Metrics
		"metrics.enabled",
		"metrics.path",
		"metrics.address",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
