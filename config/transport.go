// The transport configuration is designed to allow adding other backends in the future. To do this, add a scheme-specific config struct here, define its validation, and register the backend in the transport chain.
package config

import (
	"fmt"
	"path/filepath"
)

// Shell-out downloader binaries the exec transport knows how to drive.
const (
	ExecBinaryCurl = "curl"
	ExecBinaryWget = "wget"
)

// TransportConfig holds the configuration for the download backends
type TransportConfig struct {
	// ExecBinary selects the shell-out fallback downloader, either a bare
	// name resolved via PATH or an absolute path. Defaults to curl.
	ExecBinary string `json:"exec_binary,omitempty" yaml:"exec_binary,omitempty" toml:"exec_binary,omitempty"`

	// Common options for all backends
	Common CommonTransportConfig `json:"common,omitempty" yaml:"common,omitempty" toml:"common,omitempty"`

	// scheme-specific configurations
	S3  *S3Config  `json:"s3,omitempty" yaml:"s3,omitempty" toml:"s3,omitempty"`
	FTP *FTPConfig `json:"ftp,omitempty" yaml:"ftp,omitempty" toml:"ftp,omitempty"`
}

// CommonTransportConfig contains general settings applicable to all backends
type CommonTransportConfig struct {
	TimeoutSeconds   int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty"`             // optional: per-transfer timeout in seconds, 0 means no timeout
	LimitBytesPerSec int `json:"limit_bytes_per_sec,omitempty" yaml:"limit_bytes_per_sec,omitempty" toml:"limit_bytes_per_sec,omitempty"` // optional: HTTP bandwidth cap in bytes per second, 0 means unlimited
}

// S3Config holds the configuration for s3:// locators
type S3Config struct {
	Region          string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty" toml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty" toml:"secret_access_key,omitempty"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`             // For S3-compatible services
	UsePathStyle    bool   `json:"use_path_style,omitempty" yaml:"use_path_style,omitempty" toml:"use_path_style,omitempty"` // Required by most S3-compatible services
}

// FTPConfig holds the configuration for ftp:// locators
type FTPConfig struct {
	Username       string `json:"username,omitempty" yaml:"username,omitempty" toml:"username,omitempty"`
	Password       string `json:"password,omitempty" yaml:"password,omitempty" toml:"password,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty"` // optional: dial timeout in seconds
}

// Validate ensures the transport configuration is usable
func (tc *TransportConfig) Validate() error {
	if tc.ExecBinary != "" {
		switch filepath.Base(tc.ExecBinary) {
		case ExecBinaryCurl, ExecBinaryWget:
			// Supported downloaders
		default:
			return fmt.Errorf("unsupported exec binary: %s (must be curl or wget)", tc.ExecBinary)
		}
	}
	if err := tc.Common.Validate(); err != nil {
		return err
	}
	if tc.S3 != nil {
		if err := tc.S3.Validate(); err != nil {
			return err
		}
	}
	if tc.FTP != nil {
		if err := tc.FTP.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDefaults sets default values if they are not provided
func (tc *TransportConfig) ApplyDefaults() {
	if tc.ExecBinary == "" {
		tc.ExecBinary = ExecBinaryCurl
	}
	if tc.FTP != nil {
		tc.FTP.ApplyDefaults()
	}
}

func (c *CommonTransportConfig) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative")
	}
	if c.LimitBytesPerSec < 0 {
		return fmt.Errorf("limit_bytes_per_sec cannot be negative")
	}
	return nil
}

// Validate validates S3 configuration. Credentials are optional because the
// release buckets are public; when one half of a key pair is set the other
// is required.
func (s3c *S3Config) Validate() error {
	if (s3c.AccessKeyID == "") != (s3c.SecretAccessKey == "") {
		return fmt.Errorf("s3 access key and secret key must be set together")
	}
	return nil
}

// Validate validates FTP configuration
func (fc *FTPConfig) Validate() error {
	if fc.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative")
	}
	return nil
}

// ApplyDefaults sets default values if they are not provided
func (fc *FTPConfig) ApplyDefaults() {
	if fc.Username == "" {
		fc.Username = "anonymous"
	}
	if fc.Password == "" {
		fc.Password = "anonymous@"
	}
	if fc.TimeoutSeconds <= 0 {
		fc.TimeoutSeconds = 30
	}
}
