// Package config layers application configuration from defaults, an optional
// YAML file, a .env file, environment variables, and command-line flags, in
// that order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrDatabaseURLRequired = errors.New("database URL is required")

type Config struct {
	Debug            bool     `yaml:"debug"             env:"DEBUG"`
	Host             string   `yaml:"host"              env:"HOST"`
	Port             string   `yaml:"port"              env:"PORT"`
	DatabaseURL      string   `yaml:"database_url"      env:"DATABASE_URL"`
	MigrationSource  string   `yaml:"migration_source"  env:"MIGRATION_SOURCE"`
	OtelCollectorUrl string   `yaml:"otel_collector_url" env:"OTEL_COLLECTOR_URL"`
	AllowOrigins     []string `yaml:"allow_origins"     env:"ALLOW_ORIGINS"`
	SuggestionAPIKey string   `yaml:"suggestion_api_key" env:"SUGGESTION_API_KEY"`
	SuggestionModel  string   `yaml:"suggestion_model"  env:"SUGGESTION_MODEL"`
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}

// Logger buffers messages emitted while loading configuration, before the real
// logger exists. FlushToZap replays them once logging is up.
type Logger struct {
	entries []entry
}

type entry struct {
	level   string
	message string
	fields  []zap.Field
}

func (l *Logger) info(message string, fields ...zap.Field) {
	l.entries = append(l.entries, entry{level: "info", message: message, fields: fields})
}

func (l *Logger) warn(message string, fields ...zap.Field) {
	l.entries = append(l.entries, entry{level: "warn", message: message, fields: fields})
}

func (l *Logger) FlushToZap(logger *zap.Logger) {
	for _, e := range l.entries {
		switch e.level {
		case "warn":
			logger.Warn(e.message, e.fields...)
		default:
			logger.Info(e.message, e.fields...)
		}
	}
	l.entries = nil
}

// Load assembles the configuration. Later sources override earlier ones:
// defaults, config file, .env file, environment, flags.
func Load() (Config, *Logger) {
	logger := &Logger{}

	cfg := Config{
		Host:            "localhost",
		Port:            "8080",
		MigrationSource: "file://migrations",
	}

	cfg = loadConfigFile(cfg, logger)
	cfg = loadEnvFile(cfg, logger)
	cfg = loadEnv(cfg)
	cfg = loadFlags(cfg)

	return cfg, logger
}

func loadConfigFile(cfg Config, logger *Logger) Config {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.warn("Failed to read config file", zap.String("path", path), zap.Error(err))
		}
		return cfg
	}

	var fileCfg Config
	if err := yaml.Unmarshal(content, &fileCfg); err != nil {
		logger.warn("Failed to parse config file, ignoring it", zap.String("path", path), zap.Error(err))
		return cfg
	}

	logger.info("Loaded config file", zap.String("path", path))
	return merge(cfg, fileCfg)
}

func loadEnvFile(cfg Config, logger *Logger) Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logger.warn("Failed to load .env file", zap.Error(err))
		}
		return cfg
	}

	logger.info("Loaded .env file")
	return cfg
}

func loadEnv(cfg Config) Config {
	envCfg := Config{
		Debug:            os.Getenv("DEBUG") == "true",
		Host:             os.Getenv("HOST"),
		Port:             os.Getenv("PORT"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MigrationSource:  os.Getenv("MIGRATION_SOURCE"),
		OtelCollectorUrl: os.Getenv("OTEL_COLLECTOR_URL"),
		AllowOrigins:     splitOrigins(os.Getenv("ALLOW_ORIGINS")),
		SuggestionAPIKey: os.Getenv("SUGGESTION_API_KEY"),
		SuggestionModel:  os.Getenv("SUGGESTION_MODEL"),
	}
	return merge(cfg, envCfg)
}

func loadFlags(cfg Config) Config {
	var flagCfg Config
	var origins string

	flag.BoolVar(&flagCfg.Debug, "debug", false, "enable debug mode")
	flag.StringVar(&flagCfg.Host, "host", "", "server host")
	flag.StringVar(&flagCfg.Port, "port", "", "server port")
	flag.StringVar(&flagCfg.DatabaseURL, "database-url", "", "database connection URL")
	flag.StringVar(&flagCfg.MigrationSource, "migration-source", "", "database migration source")
	flag.StringVar(&flagCfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")
	flag.StringVar(&origins, "allow-origins", "", "comma-separated list of allowed CORS origins")
	flag.StringVar(&flagCfg.SuggestionAPIKey, "suggestion-api-key", "", "API key for the question suggestion service")
	flag.StringVar(&flagCfg.SuggestionModel, "suggestion-model", "", "model for the question suggestion service")
	flag.Parse()

	flagCfg.AllowOrigins = splitOrigins(origins)
	return merge(cfg, flagCfg)
}

func merge(base, override Config) Config {
	if override.Debug {
		base.Debug = true
	}
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.Port != "" {
		base.Port = override.Port
	}
	if override.DatabaseURL != "" {
		base.DatabaseURL = override.DatabaseURL
	}
	if override.MigrationSource != "" {
		base.MigrationSource = override.MigrationSource
	}
	if override.OtelCollectorUrl != "" {
		base.OtelCollectorUrl = override.OtelCollectorUrl
	}
	if len(override.AllowOrigins) > 0 {
		base.AllowOrigins = override.AllowOrigins
	}
	if override.SuggestionAPIKey != "" {
		base.SuggestionAPIKey = override.SuggestionAPIKey
	}
	if override.SuggestionModel != "" {
		base.SuggestionModel = override.SuggestionModel
	}
	return base
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
