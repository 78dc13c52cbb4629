package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the top-level provisioning settings.
const (
	// DefaultTargetDir is where assets materialize when no directory is given.
	DefaultTargetDir = "data"
	// ModeInferenceOnly is the exact mode string that restricts provisioning
	// to the inference manifest. The comparison is a strict string equality:
	// any other value, including the empty string, selects full provisioning.
	ModeInferenceOnly = "true"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	TargetDir    string          `json:"target_dir" yaml:"target_dir" toml:"target_dir"`                                         // Directory assets are materialized into
	Mode         string          `json:"mode" yaml:"mode" toml:"mode"`                                                           // Raw inference-only flag, compared verbatim against ModeInferenceOnly
	ManifestPath string          `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty" toml:"manifest_path,omitempty"` // Optional YAML manifest override file
	Transport    TransportConfig `json:"transport" yaml:"transport" toml:"transport"`
	Report       ReportConfig    `json:"report,omitempty" yaml:"report,omitempty" toml:"report,omitempty"`
	Logger       LoggerConfig    `json:"logger" yaml:"logger" toml:"logger"`
}

// Validate validates the entire configuration
func (ac *AppConfig) Validate() error {
	if ac.TargetDir == "" {
		return fmt.Errorf("target directory is required")
	}
	if err := ac.Transport.Validate(); err != nil {
		return fmt.Errorf("transport config error: %w", err)
	}
	if err := ac.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config error: %w", err)
	}
	return nil
}

// ApplyDefaults applies default values to all components.
// Mode is deliberately left untouched: an explicitly empty mode selects full
// provisioning, so only LoadFromEnv and the CLI default it to the
// inference-only sentinel when the value is genuinely absent.
func (ac *AppConfig) ApplyDefaults() {
	if ac.TargetDir == "" {
		ac.TargetDir = DefaultTargetDir
	}
	ac.Transport.ApplyDefaults()
	ac.Logger.ApplyDefaults()
}

// LoadFromEnv loads configuration from environment variables
// This is a helper to populate config from env vars
func LoadFromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	// General configuration
	cfg.TargetDir = getEnv("DATA_DIR", DefaultTargetDir)
	cfg.Mode = getEnv("INFERENCE_ONLY", ModeInferenceOnly)
	cfg.ManifestPath = getEnv("MANIFEST_PATH", "")

	// Logger configuration
	cfg.Logger.Level = LogLevel(getEnv("LOG_LEVEL", string(LogLevelInfo)))

	// Transport configuration
	cfg.Transport.ExecBinary = getEnv("EXEC_BINARY", "")
	cfg.Transport.Common.TimeoutSeconds = getEnvInt("FETCH_TIMEOUT_SECONDS", 0)
	cfg.Transport.Common.LimitBytesPerSec = getEnvInt("FETCH_LIMIT_BYTES_PER_SEC", 0)

	cfg.Transport.S3 = &S3Config{
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
	}

	cfg.Transport.FTP = &FTPConfig{
		Username:       getEnv("FTP_USERNAME", ""),
		Password:       getEnv("FTP_PASSWORD", ""),
		TimeoutSeconds: getEnvInt("FTP_TIMEOUT_SECONDS", 0),
	}

	// Report configuration
	cfg.Report.JSONPath = getEnv("REPORT_JSON_PATH", "")

	// Apply defaults
	cfg.ApplyDefaults()

	return cfg, nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
