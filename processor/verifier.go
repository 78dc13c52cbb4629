package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AspirinCode/ODesign/model"
)

// MissingMarker is the literal printed in the size column for absent assets.
const MissingMarker = "MISSING"

// verifyAssets re-derives presence from the filesystem for every active
// asset. Fetch outcomes are deliberately not consulted: a file that vanished
// after its fetch is reported missing, a file placed by hand is reported
// present.
func (r *Runner) verifyAssets() *model.RunReport {
	report := &model.RunReport{
		TargetDir:   r.cfg.TargetDir,
		Mode:        r.cfg.Mode,
		GeneratedAt: time.Now().UTC(),
		Entries:     make([]model.VerifyEntry, 0, len(r.assets)),
		AllPresent:  true,
	}

	for _, asset := range r.assets {
		entry := model.VerifyEntry{Name: asset.Name}

		fi, err := os.Stat(filepath.Join(r.cfg.TargetDir, asset.Name))
		if err == nil && fi.Mode().IsRegular() {
			entry.Present = true
			entry.Size = fi.Size()
		} else {
			report.AllPresent = false
		}

		report.Entries = append(report.Entries, entry)
	}

	return report
}

// renderReport logs the verification table and the closing banner.
func (r *Runner) renderReport(report *model.RunReport) {
	r.logger.Info("Verification report for %s:", report.TargetDir)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, e := range report.Entries {
		size := MissingMarker
		if e.Present {
			size = humanize.IBytes(uint64(e.Size))
		}
		fmt.Fprintf(tw, "  %s\t%s\n", e.Name, size)
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if line != "" {
			r.logger.Info("%s", line)
		}
	}

	if report.AllPresent {
		r.logger.Info("All %d asset(s) present (%s on disk)",
			len(report.Entries), humanize.IBytes(uint64(report.TotalSize())))
	} else {
		missing := report.Missing()
		r.logger.Warn("%d of %d asset(s) missing: %s",
			len(missing), len(report.Entries), strings.Join(missing, ", "))
	}
}

// writeJSONReport exports the report as indented JSON for automation hooks.
func writeJSONReport(report *model.RunReport, path string) error {
	blob, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	blob = append(blob, '\n')

	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
