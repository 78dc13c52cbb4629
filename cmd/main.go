package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AspirinCode/ODesign/config"
	"github.com/AspirinCode/ODesign/logger"
	"github.com/AspirinCode/ODesign/manifest"
	"github.com/AspirinCode/ODesign/model"
	"github.com/AspirinCode/ODesign/processor"
	"github.com/AspirinCode/ODesign/transport"
)

func main() {
	// Define CLI flags
	var (
		// General flags
		manifestPath = flag.String("manifest", "", "Path to a YAML manifest overriding the built-in asset list (env: MANIFEST_PATH)")
		reportJSON   = flag.String("report-json", "", "Write the verification report as JSON to this path (env: REPORT_JSON_PATH)")

		// Logger flags
		logLevel = flag.String("log-level", "", "Log level: silent, error, warn, info, debug, verbose (env: LOG_LEVEL)")

		// Transport flags
		execBinary   = flag.String("exec-binary", "", "Fallback download binary: curl or wget (env: EXEC_BINARY)")
		fetchTimeout = flag.Int("fetch-timeout", 0, "Per-download timeout in seconds (0 = no timeout) (env: FETCH_TIMEOUT_SECONDS)")
		limitRate    = flag.Int("limit-rate", 0, "Download rate limit in bytes per second (0 = unlimited) (env: FETCH_LIMIT_BYTES_PER_SEC)")

		// S3 flags
		s3Region    = flag.String("s3-region", "", "S3 region for s3:// assets (env: S3_REGION)")
		s3AccessKey = flag.String("s3-access-key", "", "S3 access key ID, anonymous access when unset (env: S3_ACCESS_KEY_ID)")
		s3SecretKey = flag.String("s3-secret-key", "", "S3 secret access key (env: S3_SECRET_ACCESS_KEY)")
		s3Endpoint  = flag.String("s3-endpoint", "", "Custom S3 endpoint URL (env: S3_ENDPOINT)")
		s3PathStyle = flag.Bool("s3-path-style", false, "Use path-style S3 addressing (env: S3_USE_PATH_STYLE)")

		// FTP flags
		ftpUsername = flag.String("ftp-username", "", "FTP username for ftp:// assets (env: FTP_USERNAME)")
		ftpPassword = flag.String("ftp-password", "", "FTP password (env: FTP_PASSWORD)")
		ftpTimeout  = flag.Int("ftp-timeout", 0, "FTP dial timeout in seconds (env: FTP_TIMEOUT_SECONDS)")

		// General flags
		showHelp = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// Load base configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config from environment: %v\n", err)
		os.Exit(2)
	}

	// Override with CLI flags if provided
	applyFlags(cfg, flagValues{
		manifestPath: *manifestPath,
		reportJSON:   *reportJSON,
		logLevel:     *logLevel,
		execBinary:   *execBinary,
		fetchTimeout: *fetchTimeout,
		limitRate:    *limitRate,
		s3Region:     *s3Region,
		s3AccessKey:  *s3AccessKey,
		s3SecretKey:  *s3SecretKey,
		s3Endpoint:   *s3Endpoint,
		s3PathStyle:  *s3PathStyle,
		ftpUsername:  *ftpUsername,
		ftpPassword:  *ftpPassword,
		ftpTimeout:   *ftpTimeout,
	})

	// Positional arguments mirror the historical invocation:
	//   odesign-data [options] [target_dir] [inference_only]
	// An empty first argument keeps the default directory. The second
	// argument is taken verbatim: only the exact string "true" restricts the
	// run to inference assets, anything else (an explicitly empty argument
	// included) provisions the full data set.
	if flag.NArg() >= 1 && flag.Arg(0) != "" {
		cfg.TargetDir = flag.Arg(0)
	}
	if flag.NArg() >= 2 {
		cfg.Mode = flag.Arg(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %v\n", err)
		os.Exit(2)
	}

	// Initialize logger
	log := logger.NewLogger(&cfg.Logger)
	log.Info("Starting ODesign data provisioning")
	log.Debug("Configuration loaded and validated")

	// Resolve the asset manifest
	set := manifest.DefaultSet()
	manifestSource := "built-in manifest set"
	if cfg.ManifestPath != "" {
		log.Debug("Loading manifest file %s...", cfg.ManifestPath)
		set, err = manifest.Load(cfg.ManifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Manifest error: %v\n", err)
			os.Exit(2)
		}
		manifestSource = cfg.ManifestPath
	}
	assets := manifest.Resolve(set, cfg.Mode)
	log.Info("Resolved %d asset(s) in %s mode from %s", len(assets), modeName(cfg.Mode), manifestSource)

	// Create processor
	log.Debug("Creating processor...")
	runner := processor.NewRunner(cfg, assets, transport.Chain(&cfg.Transport), log)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run processor in a goroutine
	resultChan := make(chan runResult, 1)
	go func() {
		report, err := runner.Run(ctx)
		resultChan <- runResult{report: report, err: err}
	}()

	// Wait for completion or interruption
	select {
	case res := <-resultChan:
		os.Exit(exitCode(res, log))
	case sig := <-sigChan:
		log.Info("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for the processor to finish
		res := <-resultChan
		if errors.Is(res.err, context.Canceled) {
			log.Info("Shutdown completed, data set left incomplete")
			os.Exit(1)
		}
		os.Exit(exitCode(res, log))
	}
}

type runResult struct {
	report *model.RunReport
	err    error
}

// exitCode maps a finished run onto the process exit status: 0 only when
// every expected asset is present on disk, 1 for anything less.
func exitCode(res runResult, log logger.Logger) int {
	if res.err != nil {
		log.Error("Provisioning failed: %v", res.err)
		return 1
	}
	if res.report == nil || !res.report.AllPresent {
		return 1
	}
	return 0
}

func modeName(mode string) string {
	if mode == config.ModeInferenceOnly {
		return "inference-only"
	}
	return "full"
}

type flagValues struct {
	manifestPath string
	reportJSON   string
	logLevel     string
	execBinary   string
	fetchTimeout int
	limitRate    int
	s3Region     string
	s3AccessKey  string
	s3SecretKey  string
	s3Endpoint   string
	s3PathStyle  bool
	ftpUsername  string
	ftpPassword  string
	ftpTimeout   int
}

func applyFlags(cfg *config.AppConfig, flags flagValues) {
	// General
	if flags.manifestPath != "" {
		cfg.ManifestPath = flags.manifestPath
	}
	if flags.reportJSON != "" {
		cfg.Report.JSONPath = flags.reportJSON
	}

	// Logger
	if flags.logLevel != "" {
		cfg.Logger.Level = config.LogLevel(flags.logLevel)
	}

	// Transport
	if flags.execBinary != "" {
		cfg.Transport.ExecBinary = flags.execBinary
	}
	if flags.fetchTimeout > 0 {
		cfg.Transport.Common.TimeoutSeconds = flags.fetchTimeout
	}
	if flags.limitRate > 0 {
		cfg.Transport.Common.LimitBytesPerSec = flags.limitRate
	}

	// S3
	if flags.s3Region != "" {
		cfg.Transport.S3.Region = flags.s3Region
	}
	if flags.s3AccessKey != "" {
		cfg.Transport.S3.AccessKeyID = flags.s3AccessKey
	}
	if flags.s3SecretKey != "" {
		cfg.Transport.S3.SecretAccessKey = flags.s3SecretKey
	}
	if flags.s3Endpoint != "" {
		cfg.Transport.S3.Endpoint = flags.s3Endpoint
	}
	if flag.Lookup("s3-path-style").Value.String() == "true" {
		cfg.Transport.S3.UsePathStyle = flags.s3PathStyle
	}

	// FTP
	if flags.ftpUsername != "" {
		cfg.Transport.FTP.Username = flags.ftpUsername
	}
	if flags.ftpPassword != "" {
		cfg.Transport.FTP.Password = flags.ftpPassword
	}
	if flags.ftpTimeout > 0 {
		cfg.Transport.FTP.TimeoutSeconds = flags.ftpTimeout
	}
}

func printHelp() {
	fmt.Println("ODesign Data Provisioning Tool")
	fmt.Println()
	fmt.Println("Usage: odesign-data [options] [target_dir] [inference_only]")
	fmt.Println()
	fmt.Println("Downloads the reference data required to run ODesign and verifies that")
	fmt.Println("every expected file is present on disk. Files that already exist are")
	fmt.Println("never downloaded again, so interrupted runs can simply be restarted.")
	fmt.Println()
	fmt.Println("Positional arguments:")
	fmt.Println("  target_dir     - Directory assets are placed in (default: data)")
	fmt.Println("  inference_only - \"true\" provisions inference assets only; any other")
	fmt.Println("                   value provisions the full data set (default: true)")
	fmt.Println()
	fmt.Println("Configuration can be provided via environment variables or command-line flags.")
	fmt.Println("Command-line flags take precedence over environment variables.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println("  odesign-data --log-level=debug /var/lib/odesign/data false")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATA_DIR                  - Directory assets are placed in")
	fmt.Println("  INFERENCE_ONLY            - \"true\" for inference assets only (default: true)")
	fmt.Println("  MANIFEST_PATH             - Path to a YAML manifest overriding the built-in asset list")
	fmt.Println("  LOG_LEVEL                 - Log level (silent, error, warn, info, debug, verbose)")
	fmt.Println("  EXEC_BINARY               - Fallback download binary (curl, wget)")
	fmt.Println("  FETCH_TIMEOUT_SECONDS     - Per-download timeout in seconds (0 = no timeout)")
	fmt.Println("  FETCH_LIMIT_BYTES_PER_SEC - Download rate limit in bytes per second (0 = unlimited)")
	fmt.Println("  S3_REGION                 - S3 region for s3:// assets")
	fmt.Println("  S3_ACCESS_KEY_ID          - S3 access key ID (anonymous access when unset)")
	fmt.Println("  S3_SECRET_ACCESS_KEY      - S3 secret access key")
	fmt.Println("  S3_ENDPOINT               - Custom S3 endpoint URL")
	fmt.Println("  S3_USE_PATH_STYLE         - Use path-style S3 addressing (true/false)")
	fmt.Println("  FTP_USERNAME              - FTP username for ftp:// assets")
	fmt.Println("  FTP_PASSWORD              - FTP password")
	fmt.Println("  FTP_TIMEOUT_SECONDS       - FTP dial timeout in seconds")
	fmt.Println("  REPORT_JSON_PATH          - Write the verification report as JSON to this path")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0 - every expected asset is present on disk")
	fmt.Println("  1 - at least one asset is missing or the run failed")
	fmt.Println("  2 - invalid configuration or arguments")
}
