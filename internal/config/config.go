package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the quoting HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxUploadMB int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the request body limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// IngestConfig configures source ingestion and guess-map retrieval.
type IngestConfig struct {
	GuessMap         string `yaml:"guess_map" mapstructure:"guess_map"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	MaxRetries       int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchTimeout returns the per-request timeout for remote documents.
func (c IngestConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// TemplatesConfig points at an optional template catalog overlay.
type TemplatesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RenderConfig configures proposal document conversion.
type RenderConfig struct {
	Converter   string `yaml:"converter" mapstructure:"converter"`
	BinPath     string `yaml:"bin_path" mapstructure:"bin_path"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the conversion timeout.
func (c RenderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// BatchConfig configures multi-file quoting.
type BatchConfig struct {
	MaxConcurrentQuotes int `yaml:"max_concurrent_quotes" mapstructure:"max_concurrent_quotes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RFP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("ingest.guess_map", "")
	v.SetDefault("ingest.fetch_timeout_secs", 30)
	v.SetDefault("ingest.max_retries", 3)
	v.SetDefault("templates.path", "")
	v.SetDefault("render.converter", "wkhtmltopdf")
	v.SetDefault("render.bin_path", "wkhtmltopdf")
	v.SetDefault("render.timeout_secs", 60)
	v.SetDefault("batch.max_concurrent_quotes", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. mode is "quote" or
// "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "quote":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.MaxUploadMB <= 0 {
			problems = append(problems, "server.max_upload_mb must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Batch.MaxConcurrentQuotes < 1 || c.Batch.MaxConcurrentQuotes > 32 {
		problems = append(problems, "batch.max_concurrent_quotes must be between 1 and 32")
	}
	if c.Ingest.MaxRetries < 0 {
		problems = append(problems, "ingest.max_retries must be >= 0")
	}
	if c.Ingest.FetchTimeoutSecs <= 0 {
		problems = append(problems, "ingest.fetch_timeout_secs must be > 0")
	}
	switch c.Render.Converter {
	case "wkhtmltopdf", "none":
	default:
		problems = append(problems, "render.converter must be wkhtmltopdf or none")
	}
	if c.Render.TimeoutSecs <= 0 {
		problems = append(problems, "render.timeout_secs must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
