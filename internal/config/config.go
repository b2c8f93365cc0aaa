package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Snapshot    SnapshotConfig    `yaml:"snapshot"`
	JWT         JWTConfig         `yaml:"jwt"`
	SendGrid    SendGridConfig    `yaml:"sendgrid"`
	Log         LogConfig         `yaml:"log"`
	Circulation CirculationConfig `yaml:"circulation"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

const (
	SnapshotPostgres = "postgres"
	SnapshotFile     = "file"
)

// SnapshotConfig selects where the circulation document lives.
type SnapshotConfig struct {
	Type string `yaml:"type"` // "postgres" or "file"
	Path string `yaml:"path"` // document path for "file"
	Name string `yaml:"name"` // row key for "postgres"
	Seed string `yaml:"seed"` // optional JSON document copied in on first start
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// SendGridConfig contains email delivery settings. An empty APIKey switches
// notifications to the log-only sender.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// CirculationConfig holds the lending policy. Zero values fall back to the
// defaults, except max_renewals where 0 disables renewals and only an absent
// key takes the default.
type CirculationConfig struct {
	MaxLoans        int  `yaml:"max_loans"`
	LoanDays        int  `yaml:"loan_days"`
	MaxRenewals     *int `yaml:"max_renewals"`
	RenewDays       int  `yaml:"renew_days"`
	MaxReservations int  `yaml:"max_reservations"`
	PickupDays      int  `yaml:"pickup_days"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepExpiredReservations string `yaml:"sweep_expired_reservations"`
	SendOverdueReminders     string `yaml:"send_overdue_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applies environment
// overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Snapshot
	if val := os.Getenv("SNAPSHOT_TYPE"); val != "" {
		c.Snapshot.Type = val
	}
	if val := os.Getenv("SNAPSHOT_PATH"); val != "" {
		c.Snapshot.Path = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	c.Snapshot.Type = strings.ToLower(c.Snapshot.Type)
	if c.Snapshot.Type == "" {
		c.Snapshot.Type = SnapshotPostgres
	}
	switch c.Snapshot.Type {
	case SnapshotPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
		if c.Snapshot.Name == "" {
			c.Snapshot.Name = "main"
		}
	case SnapshotFile:
		if c.Snapshot.Path == "" {
			return fmt.Errorf("snapshot path is required for file snapshots")
		}
	default:
		return fmt.Errorf("unknown snapshot type: %q", c.Snapshot.Type)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when api_key is set")
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Library Circulation"
	}

	if c.Circulation.MaxLoans <= 0 {
		c.Circulation.MaxLoans = 5
	}
	if c.Circulation.LoanDays <= 0 {
		c.Circulation.LoanDays = 14
	}
	if c.Circulation.MaxRenewals == nil {
		renewals := 2
		c.Circulation.MaxRenewals = &renewals
	} else if *c.Circulation.MaxRenewals < 0 {
		return fmt.Errorf("max_renewals must not be negative: %d", *c.Circulation.MaxRenewals)
	}
	if c.Circulation.RenewDays <= 0 {
		c.Circulation.RenewDays = 7
	}
	if c.Circulation.MaxReservations <= 0 {
		c.Circulation.MaxReservations = 3
	}
	if c.Circulation.PickupDays <= 0 {
		c.Circulation.PickupDays = 7
	}

	if c.Scheduler.SweepExpiredReservations == "" {
		c.Scheduler.SweepExpiredReservations = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 3 * * *" // 3 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
