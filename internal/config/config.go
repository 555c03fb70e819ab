package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	CORS      CORSConfig      `koanf:"cors"`
	Logging   LoggingConfig   `koanf:"logging"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string `koanf:"driver"` // postgres, sqlite
	URL      string `koanf:"url"`    // Full PostgreSQL URL
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`

	SQLitePath string `koanf:"sqlite_path"`

	MaxOpenConns           int `koanf:"max_open_conns"`
	MaxIdleConns           int `koanf:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `koanf:"conn_max_lifetime_minutes"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
}

// SecurityConfig holds security-related settings. An empty JWTSecret leaves
// write endpoints unguarded.
type SecurityConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

// BootstrapConfig controls what the server does to the database on startup.
type BootstrapConfig struct {
	AutoMigrate  bool `koanf:"auto_migrate"`
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:                 "postgres",
			Host:                   "localhost",
			SSLMode:                "disable",
			SQLitePath:             "catalog.db",
			MaxOpenConns:           25,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Bootstrap: BootstrapConfig{
			AutoMigrate: true,
		},
	}
}

// Load reads configuration from defaults, an optional TOML file, .env files
// and environment variables, in increasing order of priority.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(configPath()); err != nil {
		return nil, err
	}

	for _, envFile := range []string{".env", "config/local.env"} {
		_ = godotenv.Load(envFile)
	}

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if err := cfg.loadBootstrap(); err != nil {
		return nil, fmt.Errorf("load bootstrap config: %w", err)
	}
	cfg.loadSecurity()
	cfg.loadCORS()
	cfg.loadLogging()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func configPath() string {
	if path := os.Getenv("CATALOG_CONFIG"); path != "" {
		return path
	}
	return "config.toml"
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := k.Unmarshal("", c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadDatabase() error {
	db := &c.Database

	setString(&db.Driver, "DB_DRIVER")
	setString(&db.URL, "DATABASE_URL")
	setString(&db.Host, "DB_HOST")
	setString(&db.User, "DB_USER")
	setString(&db.Password, "DB_PASSWORD")
	setString(&db.Name, "DB_NAME")
	setString(&db.SSLMode, "DB_SSLMODE")
	setString(&db.SQLitePath, "SQLITE_PATH")

	if err := setInt(&db.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&db.MaxOpenConns, "DB_MAX_OPEN_CONNS"); err != nil {
		return err
	}
	if err := setInt(&db.MaxIdleConns, "DB_MAX_IDLE_CONNS"); err != nil {
		return err
	}
	if err := setInt(&db.ConnMaxLifetimeMinutes, "DB_CONN_MAX_LIFETIME_MINUTES"); err != nil {
		return err
	}

	if db.Port == 0 {
		db.Port = 5432
	}

	// Construct URL if all components are present
	if db.URL == "" && db.Host != "" && db.User != "" && db.Name != "" {
		db.URL = fmt.Sprintf(
			"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.SSLMode,
		)
	}

	return nil
}

func (c *Config) loadServer() error {
	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	setString(&c.Server.Host, "HOST")
	return nil
}

func (c *Config) loadSecurity() {
	setString(&c.Security.JWTSecret, "JWT_SECRET")
}

func (c *Config) loadCORS() {
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		c.CORS.AllowedOrigins = splitList(originsEnv)
	}
}

func (c *Config) loadLogging() {
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

func (c *Config) loadBootstrap() error {
	if err := setBool(&c.Bootstrap.AutoMigrate, "AUTO_MIGRATE"); err != nil {
		return err
	}
	return setBool(&c.Bootstrap.SeedDemoData, "SEED_DEMO_DATA")
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "postgresql", "pgx":
		if c.Database.URL == "" {
			problems = append(problems, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
		}
	case "sqlite", "sqlite3":
		if c.Database.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH is required for the sqlite driver")
		}
	default:
		problems = append(problems, "DB_DRIVER must be one of: postgres, sqlite")
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 || c.Database.ConnMaxLifetimeMinutes < 0 {
		problems = append(problems, "database pool settings must not be negative")
	}

	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, "LOG_FORMAT must be one of: json, text")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return nil
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	switch strings.ToLower(d.Driver) {
	case "sqlite", "sqlite3":
		return d.SQLitePath
	default:
		return d.URL
	}
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
