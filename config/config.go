// Package config loads the analysis configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bcdannyboy/orcgreeks/logging"
	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Tradier  TradierConfig         `mapstructure:"tradier"`
	Analysis AnalysisConfig        `mapstructure:"analysis"`
	Skew     models.SkewParameters `mapstructure:"skew"`
	Log      logging.LogConfig     `mapstructure:"log"`
	Slack    SlackConfig           `mapstructure:"slack"`
}

type TradierConfig struct {
	Token   string        `mapstructure:"token"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	MinDTE  int           `mapstructure:"min_dte"`
	MaxDTE  int           `mapstructure:"max_dte"`
}

type AnalysisConfig struct {
	Symbol string `mapstructure:"symbol"`
	// RiskFreeRate overrides the proxy yield when UseFixedRate is set.
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	UseFixedRate   bool    `mapstructure:"use_fixed_rate"`
	RateProxy      string  `mapstructure:"rate_proxy"`
	DividendYield  float64 `mapstructure:"dividend_yield"`
	ClosestStrikes int     `mapstructure:"closest_strikes"`
	DTETargetsDays []int   `mapstructure:"dte_targets_days"`
	Workers        int     `mapstructure:"workers"`
}

type SlackConfig struct {
	AppToken string `mapstructure:"app_token"`
	BotToken string `mapstructure:"bot_token"`
	Debug    bool   `mapstructure:"debug"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/orcgreeks"
	}
	return filepath.Join(home, ".config", "orcgreeks")
}

func setDefaults(v *viper.Viper) {
	logDefaults := logging.DefaultLogConfig()

	v.SetDefault("tradier.base_url", "https://api.tradier.com")
	v.SetDefault("tradier.timeout", 30*time.Second)
	v.SetDefault("tradier.min_dte", 0)
	v.SetDefault("tradier.max_dte", 0)

	v.SetDefault("analysis.symbol", "SPY")
	v.SetDefault("analysis.risk_free_rate", 0.0)
	v.SetDefault("analysis.use_fixed_rate", false)
	v.SetDefault("analysis.rate_proxy", "SHY")
	v.SetDefault("analysis.dividend_yield", 0.0)
	v.SetDefault("analysis.closest_strikes", 5)
	v.SetDefault("analysis.dte_targets_days", []int{90, 180, 270})
	v.SetDefault("analysis.workers", 0)

	v.SetDefault("skew.vc", 0.2)
	v.SetDefault("skew.sc", -0.1)
	v.SetDefault("skew.pc", 0.05)
	v.SetDefault("skew.cc", 0.03)
	v.SetDefault("skew.dc", -0.2)
	v.SetDefault("skew.uc", 0.2)
	v.SetDefault("skew.dsm", 0.5)
	v.SetDefault("skew.usm", 0.5)

	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.console", logDefaults.Console)
	v.SetDefault("log.file", logDefaults.File)
	v.SetDefault("log.file_path", logDefaults.FilePath)
	v.SetDefault("log.max_size", logDefaults.MaxSize)
	v.SetDefault("log.max_backups", logDefaults.MaxBackups)
	v.SetDefault("log.max_age", logDefaults.MaxAge)
}

// Load reads config.toml from configDir (the default directory when empty),
// loads a .env file from the working directory if present, and applies
// environment overrides. A missing config file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TRADIER_KEY"); v != "" {
		cfg.Tradier.Token = v
	}
	if v := os.Getenv("SLACK_APP_TOKEN"); v != "" {
		cfg.Slack.AppToken = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		cfg.Slack.BotToken = v
	}
	if v := os.Getenv("ORCGREEKS_RISK_FREE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ORCGREEKS_RISK_FREE_RATE: %w", err)
		}
		cfg.Analysis.RiskFreeRate = rate
		cfg.Analysis.UseFixedRate = true
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.Symbol == "" {
		return fmt.Errorf("analysis.symbol must be set")
	}
	if c.Analysis.ClosestStrikes < 0 {
		return fmt.Errorf("analysis.closest_strikes must be non-negative")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be non-negative")
	}
	if c.Tradier.MinDTE < 0 || c.Tradier.MaxDTE < 0 {
		return fmt.Errorf("tradier.min_dte and tradier.max_dte must be non-negative")
	}
	if c.Tradier.MaxDTE > 0 && c.Tradier.MinDTE > c.Tradier.MaxDTE {
		return fmt.Errorf("tradier.min_dte %d exceeds tradier.max_dte %d", c.Tradier.MinDTE, c.Tradier.MaxDTE)
	}
	if err := c.Skew.Validate(); err != nil {
		return fmt.Errorf("skew: %w", err)
	}
	return nil
}

// FixedRate returns the configured rate when the proxy should be bypassed.
func (c *Config) FixedRate() *float64 {
	if !c.Analysis.UseFixedRate {
		return nil
	}
	rate := c.Analysis.RiskFreeRate
	return &rate
}
