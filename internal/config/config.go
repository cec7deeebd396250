package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Exit policies.
const (
	// ExitStrict fails the process when any asset did not succeed.
	ExitStrict = "strict"
	// ExitLenient exits successfully regardless of asset outcomes.
	ExitLenient = "lenient"
)

var (
	// ErrMissingToken is returned when no access token is configured.
	ErrMissingToken = errors.New("config: CIVITAI_TOKEN is required")

	// ErrMissingSession is returned when no session id is configured.
	ErrMissingSession = errors.New("config: SESSION_ID is required")
)

// Config defines configuration for the modelpull CLI.
type Config struct {
	Token           string        `yaml:"token"`
	SessionID       string        `yaml:"session_id"`
	Endpoint        string        `yaml:"endpoint" validate:"required,url"`
	SourceTemplate  string        `yaml:"source_template" validate:"required,contains={id}"`
	Catalog         string        `yaml:"catalog"`
	Concurrency     int           `yaml:"concurrency" validate:"min=1"`
	ProgressStep    int           `yaml:"progress_step" validate:"min=1,max=100"`
	TransferTimeout time.Duration `yaml:"transfer_timeout" validate:"gt=0"`
	ExitPolicy      string        `yaml:"exit_policy" validate:"oneof=strict lenient"`
	StatusInterval  time.Duration `yaml:"status_interval" validate:"min=0"`
	Probe           bool          `yaml:"probe"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout" validate:"gt=0"`
	Report          ReportConfig  `yaml:"report"`
	Log             LogConfig     `yaml:"log"`
}

// ReportConfig defines where run reports are stored.
type ReportConfig struct {
	// Bucket is a gocloud bucket URL. Empty disables reports.
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// LogConfig defines logging behavior.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error off disabled"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Endpoint:        "ws://localhost:7801/API/DoModelDownloadWS",
		SourceTemplate:  "https://civitai.com/api/download/models/{id}?token={token}",
		Concurrency:     2,
		ProgressStep:    20,
		TransferTimeout: 30 * time.Minute,
		ExitPolicy:      ExitStrict,
		ProbeTimeout:    time.Minute,
		Report: ReportConfig{
			Prefix: "runs/",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Token           string       `yaml:"token"`
	SessionID       string       `yaml:"session_id"`
	Endpoint        string       `yaml:"endpoint"`
	SourceTemplate  string       `yaml:"source_template"`
	Catalog         string       `yaml:"catalog"`
	Concurrency     int          `yaml:"concurrency"`
	ProgressStep    int          `yaml:"progress_step"`
	TransferTimeout string       `yaml:"transfer_timeout"`
	ExitPolicy      string       `yaml:"exit_policy"`
	StatusInterval  string       `yaml:"status_interval"`
	Probe           bool         `yaml:"probe"`
	ProbeTimeout    string       `yaml:"probe_timeout"`
	Report          ReportConfig `yaml:"report"`
	Log             LogConfig    `yaml:"log"`
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	override := Config{
		Token:          yc.Token,
		SessionID:      yc.SessionID,
		Endpoint:       yc.Endpoint,
		SourceTemplate: yc.SourceTemplate,
		Catalog:        yc.Catalog,
		Concurrency:    yc.Concurrency,
		ProgressStep:   yc.ProgressStep,
		ExitPolicy:     yc.ExitPolicy,
		Probe:          yc.Probe,
		Report:         yc.Report,
		Log:            yc.Log,
	}
	if yc.TransferTimeout != "" {
		d, err := time.ParseDuration(yc.TransferTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse transfer_timeout: %w", err)
		}
		override.TransferTimeout = d
	}
	if yc.StatusInterval != "" {
		d, err := time.ParseDuration(yc.StatusInterval)
		if err != nil {
			return Config{}, fmt.Errorf("parse status_interval: %w", err)
		}
		override.StatusInterval = d
	}
	if yc.ProbeTimeout != "" {
		d, err := time.ParseDuration(yc.ProbeTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse probe_timeout: %w", err)
		}
		override.ProbeTimeout = d
	}

	return Default().Merge(override), nil
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("CIVITAI_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("SESSION_ID"); v != "" {
		c.SessionID = v
	}
	if v := os.Getenv("MODELPULL_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("MODELPULL_SOURCE_TEMPLATE"); v != "" {
		c.SourceTemplate = v
	}
	if v := os.Getenv("MODELPULL_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("MODELPULL_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MODELPULL_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("MODELPULL_PROGRESS_STEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MODELPULL_PROGRESS_STEP: %w", err)
		}
		c.ProgressStep = n
	}
	if v := os.Getenv("MODELPULL_TRANSFER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MODELPULL_TRANSFER_TIMEOUT: %w", err)
		}
		c.TransferTimeout = d
	}
	if v := os.Getenv("MODELPULL_EXIT_POLICY"); v != "" {
		c.ExitPolicy = strings.ToLower(v)
	}
	if v := os.Getenv("MODELPULL_STATUS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MODELPULL_STATUS_INTERVAL: %w", err)
		}
		c.StatusInterval = d
	}
	if v := os.Getenv("MODELPULL_PROBE"); v != "" {
		c.Probe = v == "true" || v == "1"
	}
	if v := os.Getenv("MODELPULL_PROBE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MODELPULL_PROBE_TIMEOUT: %w", err)
		}
		c.ProbeTimeout = d
	}
	if v := os.Getenv("MODELPULL_REPORT_BUCKET"); v != "" {
		c.Report.Bucket = v
	}
	if v := os.Getenv("MODELPULL_REPORT_PREFIX"); v != "" {
		c.Report.Prefix = v
	}
	if v := os.Getenv("MODELPULL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MODELPULL_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration. A missing token or session id is
// reported with ErrMissingToken or ErrMissingSession.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrMissingSession
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: invalid %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Strict reports whether partial failure should fail the process.
func (c Config) Strict() bool {
	return c.ExitPolicy != ExitLenient
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Token != "" {
		c.Token = override.Token
	}
	if override.SessionID != "" {
		c.SessionID = override.SessionID
	}
	if override.Endpoint != "" {
		c.Endpoint = override.Endpoint
	}
	if override.SourceTemplate != "" {
		c.SourceTemplate = override.SourceTemplate
	}
	if override.Catalog != "" {
		c.Catalog = override.Catalog
	}
	if override.Concurrency != 0 {
		c.Concurrency = override.Concurrency
	}
	if override.ProgressStep != 0 {
		c.ProgressStep = override.ProgressStep
	}
	if override.TransferTimeout != 0 {
		c.TransferTimeout = override.TransferTimeout
	}
	if override.ExitPolicy != "" {
		c.ExitPolicy = override.ExitPolicy
	}
	if override.StatusInterval != 0 {
		c.StatusInterval = override.StatusInterval
	}
	if override.Probe {
		c.Probe = override.Probe
	}
	if override.ProbeTimeout != 0 {
		c.ProbeTimeout = override.ProbeTimeout
	}
	if override.Report.Bucket != "" {
		c.Report.Bucket = override.Report.Bucket
	}
	if override.Report.Prefix != "" {
		c.Report.Prefix = override.Report.Prefix
	}
	if override.Log.Level != "" {
		c.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		c.Log.Format = override.Log.Format
	}
	return c
}
