package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// clearProvisioningEnv blanks every variable LoadFromEnv reads so tests are
// isolated from the ambient environment. Empty values read as unset.
func clearProvisioningEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATA_DIR", "INFERENCE_ONLY", "MANIFEST_PATH", "LOG_LEVEL",
		"EXEC_BINARY", "FETCH_TIMEOUT_SECONDS", "FETCH_LIMIT_BYTES_PER_SEC",
		"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_ENDPOINT",
		"S3_USE_PATH_STYLE", "FTP_USERNAME", "FTP_PASSWORD",
		"FTP_TIMEOUT_SECONDS", "REPORT_JSON_PATH",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func validConfig() *AppConfig {
	return &AppConfig{
		TargetDir: DefaultTargetDir,
		Mode:      ModeInferenceOnly,
		Transport: TransportConfig{ExecBinary: ExecBinaryCurl},
		Logger:    LoggerConfig{Level: LogLevelInfo},
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearProvisioningEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.Equal(t, DefaultTargetDir, cfg.TargetDir)
	require.Equal(t, ModeInferenceOnly, cfg.Mode)
	require.Empty(t, cfg.ManifestPath)
	require.Equal(t, LogLevelInfo, cfg.Logger.Level)
	require.Equal(t, ExecBinaryCurl, cfg.Transport.ExecBinary)
	require.Zero(t, cfg.Transport.Common.TimeoutSeconds)
	require.Zero(t, cfg.Transport.Common.LimitBytesPerSec)

	require.NotNil(t, cfg.Transport.S3)
	require.Empty(t, cfg.Transport.S3.Region)
	require.False(t, cfg.Transport.S3.UsePathStyle)

	require.NotNil(t, cfg.Transport.FTP)
	require.Equal(t, "anonymous", cfg.Transport.FTP.Username)
	require.Equal(t, "anonymous@", cfg.Transport.FTP.Password)
	require.Equal(t, 30, cfg.Transport.FTP.TimeoutSeconds)

	require.Empty(t, cfg.Report.JSONPath)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearProvisioningEnv(t)
	t.Setenv("DATA_DIR", "/var/lib/odesign/data")
	t.Setenv("INFERENCE_ONLY", "false")
	t.Setenv("MANIFEST_PATH", "assets.yaml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EXEC_BINARY", "wget")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "90")
	t.Setenv("FETCH_LIMIT_BYTES_PER_SEC", "1048576")
	t.Setenv("S3_REGION", "cn-beijing")
	t.Setenv("S3_ACCESS_KEY_ID", "AKID")
	t.Setenv("S3_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("S3_ENDPOINT", "https://tos-s3-cn-beijing.volces.com")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("FTP_USERNAME", "ccd")
	t.Setenv("FTP_PASSWORD", "hunter2")
	t.Setenv("FTP_TIMEOUT_SECONDS", "5")
	t.Setenv("REPORT_JSON_PATH", "report.json")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.Equal(t, "/var/lib/odesign/data", cfg.TargetDir)
	require.Equal(t, "false", cfg.Mode)
	require.Equal(t, "assets.yaml", cfg.ManifestPath)
	require.Equal(t, LogLevelDebug, cfg.Logger.Level)
	require.Equal(t, ExecBinaryWget, cfg.Transport.ExecBinary)
	require.Equal(t, 90, cfg.Transport.Common.TimeoutSeconds)
	require.Equal(t, 1048576, cfg.Transport.Common.LimitBytesPerSec)
	require.Equal(t, "cn-beijing", cfg.Transport.S3.Region)
	require.Equal(t, "AKID", cfg.Transport.S3.AccessKeyID)
	require.Equal(t, "SECRET", cfg.Transport.S3.SecretAccessKey)
	require.Equal(t, "https://tos-s3-cn-beijing.volces.com", cfg.Transport.S3.Endpoint)
	require.True(t, cfg.Transport.S3.UsePathStyle)
	require.Equal(t, "ccd", cfg.Transport.FTP.Username)
	require.Equal(t, "hunter2", cfg.Transport.FTP.Password)
	require.Equal(t, 5, cfg.Transport.FTP.TimeoutSeconds)
	require.Equal(t, "report.json", cfg.Report.JSONPath)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	clearProvisioningEnv(t)
	t.Setenv("FETCH_TIMEOUT_SECONDS", "ninety")
	t.Setenv("S3_USE_PATH_STYLE", "yep")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Zero(t, cfg.Transport.Common.TimeoutSeconds)
	require.False(t, cfg.Transport.S3.UsePathStyle)
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *AppConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *AppConfig) {},
		},
		{
			name:    "missing target dir",
			mutate:  func(cfg *AppConfig) { cfg.TargetDir = "" },
			wantErr: "target directory is required",
		},
		{
			name:   "empty mode is valid full mode",
			mutate: func(cfg *AppConfig) { cfg.Mode = "" },
		},
		{
			name:    "unsupported exec binary",
			mutate:  func(cfg *AppConfig) { cfg.Transport.ExecBinary = "aria2c" },
			wantErr: "unsupported exec binary",
		},
		{
			name:   "exec binary as absolute path",
			mutate: func(cfg *AppConfig) { cfg.Transport.ExecBinary = "/usr/bin/wget" },
		},
		{
			name:   "empty exec binary defaults later",
			mutate: func(cfg *AppConfig) { cfg.Transport.ExecBinary = "" },
		},
		{
			name:    "negative fetch timeout",
			mutate:  func(cfg *AppConfig) { cfg.Transport.Common.TimeoutSeconds = -1 },
			wantErr: "timeout_seconds cannot be negative",
		},
		{
			name:    "negative rate limit",
			mutate:  func(cfg *AppConfig) { cfg.Transport.Common.LimitBytesPerSec = -1 },
			wantErr: "limit_bytes_per_sec cannot be negative",
		},
		{
			name: "s3 access key without secret",
			mutate: func(cfg *AppConfig) {
				cfg.Transport.S3 = &S3Config{AccessKeyID: "AKID"}
			},
			wantErr: "must be set together",
		},
		{
			name: "s3 secret without access key",
			mutate: func(cfg *AppConfig) {
				cfg.Transport.S3 = &S3Config{SecretAccessKey: "SECRET"}
			},
			wantErr: "must be set together",
		},
		{
			name: "negative ftp timeout",
			mutate: func(cfg *AppConfig) {
				cfg.Transport.FTP = &FTPConfig{TimeoutSeconds: -1}
			},
			wantErr: "transport config error",
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *AppConfig) { cfg.Logger.Level = "loud" },
			wantErr: "logger config error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAppConfig_ApplyDefaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()

	require.Equal(t, DefaultTargetDir, cfg.TargetDir)
	require.Equal(t, ExecBinaryCurl, cfg.Transport.ExecBinary)
	require.Equal(t, LogLevelInfo, cfg.Logger.Level)
}

// An empty mode selects full provisioning, so ApplyDefaults must never turn
// it back into the inference-only sentinel.
func TestAppConfig_ApplyDefaults_ModeStaysEmpty(t *testing.T) {
	cfg := &AppConfig{Mode: ""}
	cfg.ApplyDefaults()
	require.Equal(t, "", cfg.Mode)
}

func TestFTPConfig_ApplyDefaults(t *testing.T) {
	fc := &FTPConfig{}
	fc.ApplyDefaults()
	require.Equal(t, "anonymous", fc.Username)
	require.Equal(t, "anonymous@", fc.Password)
	require.Equal(t, 30, fc.TimeoutSeconds)

	custom := &FTPConfig{Username: "ccd", Password: "hunter2", TimeoutSeconds: 5}
	custom.ApplyDefaults()
	require.Equal(t, "ccd", custom.Username)
	require.Equal(t, "hunter2", custom.Password)
	require.Equal(t, 5, custom.TimeoutSeconds)
}
