package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	CORS   CORSConfig
	Engine EngineConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EngineConfig holds line-item engine tuning knobs.
type EngineConfig struct {
	DebounceMS    int           `mapstructure:"debounce_ms"`
	MinSearchLen  int           `mapstructure:"min_search_len"`
	CacheSize     int           `mapstructure:"cache_size"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
}

// Load reads configuration from environment variables with the CHRONON_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHRONON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "chronon")
	v.SetDefault("db.password", "chronon_secret")
	v.SetDefault("db.name", "chronon_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Engine defaults
	v.SetDefault("engine.debounce_ms", 300)
	v.SetDefault("engine.min_search_len", 3)
	v.SetDefault("engine.cache_size", 512)
	v.SetDefault("engine.search_timeout", "5s")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "CHRONON_SERVER_PORT",
		"server.read_timeout":   "CHRONON_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "CHRONON_SERVER_WRITE_TIMEOUT",
		"server.environment":    "CHRONON_SERVER_ENVIRONMENT",
		"db.host":               "CHRONON_DB_HOST",
		"db.port":               "CHRONON_DB_PORT",
		"db.user":               "CHRONON_DB_USER",
		"db.password":           "CHRONON_DB_PASSWORD",
		"db.name":               "CHRONON_DB_NAME",
		"db.sslmode":            "CHRONON_DB_SSLMODE",
		"db.max_open":           "CHRONON_DB_MAX_OPEN",
		"db.max_idle":           "CHRONON_DB_MAX_IDLE",
		"log.level":             "CHRONON_LOG_LEVEL",
		"log.format":            "CHRONON_LOG_FORMAT",
		"cors.allowed_origins":  "CHRONON_CORS_ALLOWED_ORIGINS",
		"engine.debounce_ms":    "CHRONON_ENGINE_DEBOUNCE_MS",
		"engine.min_search_len": "CHRONON_ENGINE_MIN_SEARCH_LEN",
		"engine.cache_size":     "CHRONON_ENGINE_CACHE_SIZE",
		"engine.search_timeout": "CHRONON_ENGINE_SEARCH_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CHRONON_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CHRONON_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: strings.Split(v.GetString("cors.allowed_origins"), ","),
	}
	cfg.Engine = EngineConfig{
		DebounceMS:    v.GetInt("engine.debounce_ms"),
		MinSearchLen:  v.GetInt("engine.min_search_len"),
		CacheSize:     v.GetInt("engine.cache_size"),
		SearchTimeout: v.GetDuration("engine.search_timeout"),
	}

	if cfg.Engine.DebounceMS < 0 {
		return nil, fmt.Errorf("engine.debounce_ms must not be negative, got %d", cfg.Engine.DebounceMS)
	}
	if cfg.Engine.CacheSize <= 0 {
		return nil, fmt.Errorf("engine.cache_size must be positive, got %d", cfg.Engine.CacheSize)
	}

	return cfg, nil
}
