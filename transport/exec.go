package transport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AspirinCode/ODesign/config"
)

var _ Transport = (*ExecTransport)(nil)

// ExecTransport shells out to curl or wget. It is the fallback for
// environments where the native client cannot be used, and is only selected
// when the configured binary is actually on PATH.
type ExecTransport struct {
	binary string
}

// NewExecTransport creates the shell-out backend. binary may be a bare name
// resolved via PATH or an absolute path; empty selects curl.
func NewExecTransport(binary string) *ExecTransport {
	if binary == "" {
		binary = config.ExecBinaryCurl
	}
	return &ExecTransport{binary: binary}
}

func (t *ExecTransport) Name() string { return filepath.Base(t.binary) }

func (t *ExecTransport) Supports(rawurl string) bool {
	switch scheme(rawurl) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// Available probes PATH for the configured binary.
func (t *ExecTransport) Available(ctx context.Context) bool {
	_, err := exec.LookPath(t.binary)
	return err == nil
}

func (t *ExecTransport) Fetch(ctx context.Context, rawurl, dest string) error {
	cmd := exec.CommandContext(ctx, t.binary, t.args(rawurl, dest)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Both downloaders can leave a partial file at the output path
		os.Remove(dest)

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed for %s: %w: %s", t.Name(), rawurl, err, msg)
		}
		return fmt.Errorf("%s failed for %s: %w", t.Name(), rawurl, err)
	}
	return nil
}

// args builds the downloader invocation. curl needs -f so HTTP errors become
// nonzero exit codes instead of saved error pages.
func (t *ExecTransport) args(rawurl, dest string) []string {
	if filepath.Base(t.binary) == config.ExecBinaryWget {
		return []string{"-q", "-O", dest, rawurl}
	}
	return []string{"-f", "-s", "-S", "-L", "-o", dest, rawurl}
}
