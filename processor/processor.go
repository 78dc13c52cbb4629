package processor

import (
	"context"

	"github.com/AspirinCode/ODesign/config"
	"github.com/AspirinCode/ODesign/logger"
	"github.com/AspirinCode/ODesign/model"
	"github.com/AspirinCode/ODesign/transport"
)

type Runner struct {
	cfg        *config.AppConfig
	assets     []model.Asset
	transports []transport.Transport
	logger     logger.Logger
}

// NewRunner creates a new Runner with the provided dependencies
func NewRunner(cfg *config.AppConfig, assets []model.Asset, transports []transport.Transport, log logger.Logger) *Runner {
	// Use NoOpLogger if none provided
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{
		cfg:        cfg,
		assets:     assets,
		transports: transports,
		logger:     log,
	}
}

// Run executes one provisioning pass: fetch every active asset, then verify
// the on-disk inventory from scratch. The returned report is the source of
// truth for the process exit status; err is non-nil only when the run itself
// could not proceed (unwritable target directory, cancellation, or a failed
// report export).
func (r *Runner) Run(ctx context.Context) (*model.RunReport, error) {
	r.logger.Info("Starting provisioning run: %d asset(s) into %s", len(r.assets), r.cfg.TargetDir)

	// 1. Fetch assets
	r.logger.Debug("Step 1: Fetching assets")
	fetchStats, err := r.fetchAssets(ctx)
	if err != nil {
		r.logger.Error("Failed to fetch assets: %v", err)
		return nil, err
	}
	r.logger.Info(fetchStats.String())

	// 2. Verify on-disk inventory
	r.logger.Debug("Step 2: Verifying on-disk inventory")
	report := r.verifyAssets()
	r.renderReport(report)

	// 3. Export machine-readable report if configured
	if r.cfg.Report.JSONPath != "" {
		r.logger.Debug("Step 3: Writing JSON report to %s", r.cfg.Report.JSONPath)
		if err := writeJSONReport(report, r.cfg.Report.JSONPath); err != nil {
			r.logger.Error("Failed to write JSON report: %v", err)
			return report, err
		}
	}

	if report.AllPresent {
		r.logger.Info("Provisioning run completed successfully")
	}
	return report, nil
}
