package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Storage drivers for the memorized-set key-value store.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env" validate:"required"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-" validate:"required"`            // Telegram API token loaded from environment
	CatalogPath      string  `mapstructure:"catalog_path" validate:"required"` // path to JSON file with the country catalog
	Quiz             Quiz    `mapstructure:"quiz"`                             // quiz generation and session section
	Storage          Storage `mapstructure:"storage"`                          // memorized-set persistence section
	DB               DB      `mapstructure:"database"`                         // database configuration section
	Hint             Hint    `mapstructure:"hint"`                             // mnemonic hint generation section
}

// Quiz contains quiz generation and session parameters.
type Quiz struct {
	Length             int           `mapstructure:"length" validate:"gte=1"`               // maximum number of questions per quiz
	OptionsPerQuestion int           `mapstructure:"options_per_question" validate:"gte=1"` // options shown per question
	SessionTTL         time.Duration `mapstructure:"session_ttl" validate:"gt=0"`           // idle time after which a session is dropped
	JanitorSchedule    string        `mapstructure:"janitor_schedule" validate:"required"`  // cron spec of the idle session sweep
}

// Storage selects the key-value store backing the memorized sets.
type Storage struct {
	Driver     string `mapstructure:"driver" validate:"oneof=postgres sqlite memory"`
	SQLitePath string `mapstructure:"sqlite_path"` // DSN of the SQLite database
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Hint contains Gemini parameters. Hints are disabled without an API key.
type Hint struct {
	GeminiAPIKey string        `mapstructure:"-"`                         // API key loaded from environment
	Model        string        `mapstructure:"model" validate:"required"` // Gemini model name
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`   // per-request deadline
}

// Enabled reports whether hint generation is configured.
func (h Hint) Enabled() bool {
	return h.GeminiAPIKey != ""
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Load .env if present; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("catalog_path", "assets/data/countries.json")
	v.SetDefault("quiz.length", 20)
	v.SetDefault("quiz.options_per_question", 6)
	v.SetDefault("quiz.session_ttl", "30m")
	v.SetDefault("quiz.janitor_schedule", "@every 5m")
	v.SetDefault("storage.driver", StorageDriverSQLite)
	v.SetDefault("storage.sqlite_path", "file:geoquiz.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("hint.model", "gemini-2.0-flash")
	v.SetDefault("hint.timeout", "15s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")

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
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.Storage.Driver == StorageDriverPostgres && cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Hint.GeminiAPIKey = v.GetString("gemini_api_key")

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
