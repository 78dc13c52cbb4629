// Package testutils holds scriptable fakes shared by tests across packages.
package testutils

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/AspirinCode/ODesign/transport"
)

var _ transport.Transport = (*FakeTransport)(nil)

// FakeTransport is a scriptable download backend. On success it writes
// Payload to the destination; failures are scripted per locator or for the
// whole backend. Every fetch attempt is recorded so tests can assert which
// locators were actually contacted.
type FakeTransport struct {
	TransportName string
	Schemes       []string         // supported schemes, e.g. {"http", "https"}
	Unavailable   bool             // probe result
	Payload       []byte           // body written on success
	Err           error            // when set, every fetch fails with it
	FailFor       map[string]error // per-locator failures, checked first
	SkipWrite     bool             // report success without creating the file

	mu      sync.Mutex
	fetched []string
}

func (f *FakeTransport) Name() string {
	if f.TransportName == "" {
		return "fake"
	}
	return f.TransportName
}

func (f *FakeTransport) Supports(rawurl string) bool {
	u, err := url.Parse(rawurl)
	if err != nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	for _, want := range f.Schemes {
		if s == want {
			return true
		}
	}
	return false
}

func (f *FakeTransport) Available(ctx context.Context) bool { return !f.Unavailable }

func (f *FakeTransport) Fetch(ctx context.Context, rawurl, dest string) error {
	f.mu.Lock()
	f.fetched = append(f.fetched, rawurl)
	f.mu.Unlock()

	if err, ok := f.FailFor[rawurl]; ok {
		return err
	}
	if f.Err != nil {
		return f.Err
	}
	if f.SkipWrite {
		return nil
	}
	return os.WriteFile(dest, f.Payload, 0o644)
}

// FetchCalls returns the locators passed to Fetch, in order.
func (f *FakeTransport) FetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}
