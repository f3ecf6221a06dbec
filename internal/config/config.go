package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Scoring ScoringConfig `mapstructure:"scoring" yaml:"scoring"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
	Advisor AdvisorConfig `mapstructure:"advisor" yaml:"advisor"`
	Rules   RulesConfig   `mapstructure:"rules" yaml:"rules"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser used by web scans.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	NoSandbox         bool          `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	Args              []string      `mapstructure:"args" yaml:"args"`
}

// NetworkConfig tunes the plain-HTTP fallback fetcher and the rules updater.
type NetworkConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ScoringConfig selects the web-scan scoring policy.
type ScoringConfig struct {
	// Policy is "strict" (linear deduction with a 60 floor) or "weighted"
	// (impact-and-prevalence, no floor). Document scans always use the
	// document policy regardless of this setting.
	Policy string `mapstructure:"policy" yaml:"policy"`
}

// ReportConfig configures compliance report assembly and output.
type ReportConfig struct {
	// OutputDir is where report file pairs are written. Empty means
	// ~/compliance_reports.
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	Institution string `mapstructure:"institution" yaml:"institution"`
	Auditor     string `mapstructure:"auditor" yaml:"auditor"`
	Department  string `mapstructure:"department" yaml:"department"`
}

// AdvisorConfig configures the optional AI advisory client.
type AdvisorConfig struct {
	Enabled     bool          `mapstructure:"enabled" yaml:"enabled"`
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// RulesConfig configures the rule update checker.
type RulesConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// RateLimit caps outbound update probes, in requests per second.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// Scoring policy names accepted by ScoringConfig.Policy.
const (
	PolicyStrict   = "strict"
	PolicyWeighted = "weighted"
)

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "a11ygrade")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.navigation_timeout", "30s")
	v.SetDefault("browser.post_load_wait", "2s")

	// -- Network --
	v.SetDefault("network.timeout", "10s")
	v.SetDefault("network.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	// -- Scoring --
	v.SetDefault("scoring.policy", PolicyStrict)

	// -- Report --
	v.SetDefault("report.output_dir", "")
	v.SetDefault("report.institution", "University Accessibility Audit")
	v.SetDefault("report.auditor", "A11y Wizard")
	v.SetDefault("report.department", "")

	// -- Advisor --
	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.endpoint", "")
	v.SetDefault("advisor.model", "gemini-2.5-flash")
	v.SetDefault("advisor.api_timeout", "60s")
	v.SetDefault("advisor.temperature", 0.7)
	v.SetDefault("advisor.max_tokens", 1500)

	// -- Rules --
	v.SetDefault("rules.timeout", "10s")
	v.SetDefault("rules.rate_limit", 2.0)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults alone.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration from a viper instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for sensitive data.
	v.BindEnv("advisor.api_key", "A11YGRADE_ADVISOR_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Advisor.APIKey == "" {
		cfg.Advisor.APIKey = os.Getenv("A11YGRADE_ADVISOR_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.Network.Timeout <= 0 {
		return fmt.Errorf("network.timeout must be a positive duration")
	}
	switch c.Scoring.Policy {
	case PolicyStrict, PolicyWeighted:
	default:
		return fmt.Errorf("scoring.policy must be %q or %q, got %q", PolicyStrict, PolicyWeighted, c.Scoring.Policy)
	}
	if err := c.Advisor.Validate(); err != nil {
		return fmt.Errorf("advisor configuration invalid: %w", err)
	}
	if c.Rules.RateLimit <= 0 {
		return fmt.Errorf("rules.rate_limit must be greater than 0")
	}
	return nil
}

// Validate checks the advisor configuration.
func (a *AdvisorConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.Temperature < 0.0 || a.Temperature > 2.0 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}
	if a.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be greater than 0")
	}
	if a.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be a positive duration")
	}
	return nil
}
