package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStoreDriver          = errors.New("unknown store driver")
)

// Store drivers.
const (
	DriverMemory    = "memory"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`   // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`     // Telegram API token loaded from environment, optional
	HTTP             HTTP      `mapstructure:"http"`  // HTTP API configuration section
	Store            Store     `mapstructure:"store"` // document store selection
	DB               DB        `mapstructure:"database"`
	Firebase         Firebase  `mapstructure:"firebase"`
	Reminders        Reminders `mapstructure:"reminders"`
	I18n             I18n      `mapstructure:"i18n"`
	Log              Log       `mapstructure:"log"`
}

// HTTP contains the API server parameters.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	AdminToken      string        `mapstructure:"-"` // shared admin bearer token loaded from environment
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Store selects the document store backend.
type Store struct {
	Driver string `mapstructure:"driver"` // memory, postgres or firestore
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Firebase contains the Firestore project settings.
type Firebase struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"` // empty uses application default credentials
}

// Reminders configures the RSVP reminder job.
type Reminders struct {
	Schedule   string        `mapstructure:"schedule"`    // cron spec
	Interval   time.Duration `mapstructure:"interval"`    // minimum gap between reminders to one guest
	WeddingIDs []string      `mapstructure:"wedding_ids"` // weddings to scan
}

// I18n configures translations.
type I18n struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

// Log configures the application logger.
type Log struct {
	Level string `mapstructure:"level"` // debug, info, warn or error; empty keeps the environment default
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir string) (*Config, error) {
	// A missing .env file is fine: variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("reminders.schedule", "0 * * * *")
	v.SetDefault("reminders.interval", "24h")
	v.SetDefault("reminders.wedding_ids", []string{})
	v.SetDefault("i18n.default_language", "he")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("admin_token", "ADMIN_TOKEN")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("store.driver", "STORE_DRIVER")
	_ = v.BindEnv("firebase.project_id", "FIREBASE_PROJECT_ID")
	_ = v.BindEnv("firebase.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	cfg.HTTP.AdminToken = v.GetString("admin_token")
	if cfg.HTTP.AdminToken == "" {
		return nil, fmt.Errorf("%w: ADMIN_TOKEN", ErrMissingEnvironmentVariables)
	}

	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverFirestore:
		if cfg.Firebase.ProjectID == "" {
			return nil, fmt.Errorf("%w: FIREBASE_PROJECT_ID", ErrMissingEnvironmentVariables)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreDriver, cfg.Store.Driver)
	}

	return &cfg, nil
}
