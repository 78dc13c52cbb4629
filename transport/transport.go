package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/AspirinCode/ODesign/config"
)

// ErrNoTransport is returned when no backend in the chain both supports a
// locator's scheme and probes available.
var ErrNoTransport = errors.New("no transport available")

// Transport materializes a remote locator as a local file.
type Transport interface {
	// Name identifies the backend in logs
	Name() string
	// Supports reports whether the backend understands the locator's scheme
	Supports(rawurl string) bool
	// Available reports whether the backend can run in this environment
	Available(ctx context.Context) bool
	// Fetch downloads the locator to dest. Implementations must not leave a
	// file at dest when they return an error.
	Fetch(ctx context.Context, rawurl, dest string) error
}

// Chain assembles the production transport chain in fixed priority order:
// the native HTTP client first, then the scheme-specific object store and
// FTP backends, with the shell-out downloader probed last as the fallback
// for web locators.
func Chain(cfg *config.TransportConfig) []Transport {
	return []Transport{
		NewHTTPTransport(&cfg.Common),
		NewS3Transport(cfg.S3),
		NewFTPTransport(cfg.FTP),
		NewExecTransport(cfg.ExecBinary),
	}
}

// Select returns the first transport in chain order that supports the
// locator and is available. Availability is probed per asset, so a backend
// installed mid-run is picked up by later assets.
func Select(ctx context.Context, chain []Transport, rawurl string) (Transport, error) {
	for _, t := range chain {
		if !t.Supports(rawurl) {
			continue
		}
		if !t.Available(ctx) {
			continue
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrNoTransport, rawurl)
}

// scheme extracts the lowercased URL scheme, or "" when the locator does not
// parse.
func scheme(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// writeFileAtomic streams r into a temporary file next to dest and renames it
// into place, so dest only ever exists as a complete file.
func writeFileAtomic(dest string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".partial-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file for %s: %w", dest, err)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to close temp file for %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to move %s into place: %w", dest, err)
	}
	return n, nil
}
