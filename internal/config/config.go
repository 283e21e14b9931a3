package config

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Match    MatchConfig    `yaml:"match" mapstructure:"match"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// MatchConfig configures normalization and fuzzy matching.
type MatchConfig struct {
	HighThreshold       float64  `yaml:"high_threshold" mapstructure:"high_threshold"`
	LowThreshold        float64  `yaml:"low_threshold" mapstructure:"low_threshold"`
	KnownTLDs           []string `yaml:"known_tlds" mapstructure:"known_tlds"`
	LegalSuffixes       []string `yaml:"legal_suffixes" mapstructure:"legal_suffixes"`
	SubdomainStripToken []string `yaml:"subdomain_strip_tokens" mapstructure:"subdomain_strip_tokens"`
}

// ClassifyConfig configures the classification pass.
type ClassifyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ExportConfig configures the output writer.
type ExportConfig struct {
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
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
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("match.high_threshold", 0.90)
	v.SetDefault("match.low_threshold", 0.75)
	v.SetDefault("match.known_tlds", []string{
		"com", "de", "nl", "org", "net", "co", "io", "eu", "uk", "fr",
		"it", "es", "ch", "at", "be", "us", "ca", "biz", "info",
	})
	v.SetDefault("match.legal_suffixes", []string{
		"gmbh", "ag", "bv", "ltd", "llc", "inc", "co", "corp", "kg",
		"sarl", "sa", "srl", "holding", "group", "ug", "ohg", "plc",
		"limited", "incorporated", "corporation",
	})
	v.SetDefault("match.subdomain_strip_tokens", []string{"www", "mail", "mx"})
	v.SetDefault("classify.workers", 4)
	v.SetDefault("export.delimiter", ";")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	if cfg.Match.LowThreshold > cfg.Match.HighThreshold {
		return nil, eris.New("config: match.low_threshold must not exceed match.high_threshold")
	}
	if n := utf8.RuneCountInString(cfg.Export.Delimiter); n > 1 {
		return nil, eris.Errorf("config: export.delimiter must be a single character, got %q", cfg.Export.Delimiter)
	}

	return &cfg, nil
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
