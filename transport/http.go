package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AspirinCode/ODesign/config"
	"golang.org/x/time/rate"
)

var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport is the primary backend for http:// and https:// locators. It
// streams the response body to disk and never buffers whole assets in
// memory.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPTransport creates the native HTTP backend. A zero timeout means the
// transfer may run for as long as the server keeps sending.
func NewHTTPTransport(cfg *config.CommonTransportConfig) *HTTPTransport {
	if cfg == nil {
		cfg = &config.CommonTransportConfig{}
	}

	// default 0
	var limiter *rate.Limiter
	if cfg.LimitBytesPerSec > 0 {
		// burst = one second worth of bytes
		limiter = rate.NewLimiter(rate.Limit(cfg.LimitBytesPerSec), cfg.LimitBytesPerSec)
	}

	return &HTTPTransport{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter: limiter,
	}
}

func (t *HTTPTransport) Name() string { return "http" }

func (t *HTTPTransport) Supports(rawurl string) bool {
	switch scheme(rawurl) {
	case "http", "https":
		return true
	}
	return false
}

// Available always reports true: the client is pure Go and needs nothing
// from the environment.
func (t *HTTPTransport) Available(ctx context.Context) bool { return true }

func (t *HTTPTransport) Fetch(ctx context.Context, rawurl, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", rawurl, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to get %s: unexpected status %s", rawurl, resp.Status)
	}

	var body io.Reader = resp.Body
	if t.limiter != nil {
		body = &throttledReader{r: resp.Body, limiter: t.limiter, ctx: ctx}
	}

	_, err = writeFileAtomic(dest, body)
	return err
}

// throttledReader paces reads through a shared byte-rate limiter.
type throttledReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (tr *throttledReader) Read(p []byte) (int, error) {
	// Never ask for more than the limiter can grant in one reservation
	if burst := tr.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := tr.r.Read(p)
	if n > 0 {
		if werr := tr.limiter.WaitN(tr.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
