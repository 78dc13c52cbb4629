package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AspirinCode/ODesign/model"
	"github.com/AspirinCode/ODesign/transport"
)

// ErrMissingAfterFetch marks a transport that reported success without
// producing the file.
var ErrMissingAfterFetch = errors.New("transport reported success but the file is missing")

// FetchStats contains statistics from the fetchAssets operation
type FetchStats struct {
	Total   int64 // Total assets processed
	Skipped int64 // Assets already present on disk
	Fetched int64 // Assets downloaded in this run
	Failed  int64 // Assets that could not be materialized
	Bytes   int64 // Bytes downloaded in this run (skipped assets excluded)
}

func (s *FetchStats) String() string {
	return fmt.Sprintf("Fetch completed: total=%d, skipped=%d, fetched=%d, failed=%d, downloaded=%s",
		s.Total, s.Skipped, s.Fetched, s.Failed, humanize.IBytes(uint64(s.Bytes)))
}

// fetchAssets walks the active assets in manifest order, sequentially. A
// failed asset is logged and counted but never stops the walk.
func (r *Runner) fetchAssets(ctx context.Context) (*FetchStats, error) {
	stats := &FetchStats{}

	if err := os.MkdirAll(r.cfg.TargetDir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create target directory %s: %w", r.cfg.TargetDir, err)
	}

	total := len(r.assets)
	for i, asset := range r.assets {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		stats.Total++
		outcome := r.fetchOne(ctx, i, asset)

		switch outcome.Status {
		case model.StatusSkipped:
			stats.Skipped++
			r.logger.Info("[%d/%d] %s already present, skipping", i+1, total, asset.Name)
		case model.StatusFetched:
			stats.Fetched++
			stats.Bytes += outcome.Bytes
			r.logger.Info("[%d/%d] %s downloaded (%s)", i+1, total, asset.Name, humanize.IBytes(uint64(outcome.Bytes)))
		case model.StatusFailed:
			stats.Failed++
			r.logger.Error("[%d/%d] %s: %s: %v", i+1, total, asset.Name, failureCategory(outcome.Err), outcome.Err)
		}
	}

	return stats, nil
}

// fetchOne materializes a single asset. A file already at the destination is
// trusted as complete and skipped without touching any transport.
func (r *Runner) fetchOne(ctx context.Context, idx int, asset model.Asset) model.FetchOutcome {
	dest := filepath.Join(r.cfg.TargetDir, asset.Name)

	if fi, err := os.Stat(dest); err == nil && fi.Mode().IsRegular() {
		return model.FetchOutcome{Asset: asset, Status: model.StatusSkipped, Bytes: fi.Size()}
	}

	t, err := transport.Select(ctx, r.transports, asset.URL)
	if err != nil {
		return model.FetchOutcome{Asset: asset, Status: model.StatusFailed, Err: err}
	}

	r.logger.Info("[%d/%d] Downloading %s via %s", idx+1, len(r.assets), asset.URL, t.Name())

	// Heartbeat while the transfer blocks; transfers carry no internal
	// timeout, so this is what keeps long runs visibly alive
	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go r.logFetchProgress(heartbeatCtx, asset.Name)

	fetchErr := t.Fetch(ctx, asset.URL, dest)
	stopHeartbeat()

	fi, statErr := os.Stat(dest)
	switch {
	case fetchErr == nil && statErr == nil && fi.Mode().IsRegular():
		return model.FetchOutcome{Asset: asset, Status: model.StatusFetched, Bytes: fi.Size()}
	case fetchErr == nil:
		return model.FetchOutcome{Asset: asset, Status: model.StatusFailed, Err: ErrMissingAfterFetch}
	default:
		return model.FetchOutcome{Asset: asset, Status: model.StatusFailed, Err: fetchErr}
	}
}

// logFetchProgress emits a periodic elapsed-time line for a running transfer
func (r *Runner) logFetchProgress(ctx context.Context, name string) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.logger.Debug("Still downloading %s (%s elapsed)", name, time.Since(start).Round(time.Second))
		}
	}
}

// failureCategory names the class of a fetch failure for the log line
func failureCategory(err error) string {
	switch {
	case errors.Is(err, transport.ErrNoTransport):
		return "no transport available"
	case errors.Is(err, ErrMissingAfterFetch):
		return "postcondition failed"
	default:
		return "transfer failed"
	}
}
