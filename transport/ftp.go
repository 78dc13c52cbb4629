package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/AspirinCode/ODesign/config"
)

var _ Transport = (*FTPTransport)(nil)

// FTPTransport handles ftp:// locators. Provisioning runs touch at most a
// handful of FTP assets, so each fetch dials a fresh connection instead of
// keeping a pool.
type FTPTransport struct {
	config *config.FTPConfig
}

// NewFTPTransport creates the FTP backend. A nil config means anonymous
// login with a 30 second dial timeout.
func NewFTPTransport(cfg *config.FTPConfig) *FTPTransport {
	if cfg == nil {
		cfg = &config.FTPConfig{}
	}
	ftpCfg := *cfg
	ftpCfg.ApplyDefaults()
	return &FTPTransport{config: &ftpCfg}
}

func (t *FTPTransport) Name() string { return "ftp" }

func (t *FTPTransport) Supports(rawurl string) bool {
	return scheme(rawurl) == "ftp"
}

// Available always reports true; connectivity problems surface as fetch
// errors where they carry the server address.
func (t *FTPTransport) Available(ctx context.Context) bool { return true }

func (t *FTPTransport) Fetch(ctx context.Context, rawurl, dest string) error {
	addr, remotePath, err := splitFTPURL(rawurl)
	if err != nil {
		return err
	}

	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(time.Duration(t.config.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	defer conn.Quit()

	if err := conn.Login(t.config.Username, t.config.Password); err != nil {
		return fmt.Errorf("failed to login to %s: %w", addr, err)
	}

	resp, err := conn.Retr(remotePath)
	if err != nil {
		return fmt.Errorf("failed to retrieve %s from %s: %w", remotePath, addr, err)
	}
	defer resp.Close()

	_, err = writeFileAtomic(dest, resp)
	return err
}

// splitFTPURL splits ftp://host[:port]/path into a dial address and the
// server-relative file path. The port defaults to 21.
func splitFTPURL(rawurl string) (addr, remotePath string, err error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse locator %q: %w", rawurl, err)
	}

	host := u.Hostname()
	if host == "" {
		return "", "", fmt.Errorf("locator %q has no host", rawurl)
	}
	port := u.Port()
	if port == "" {
		port = "21"
	}

	remotePath = strings.TrimPrefix(u.Path, "/")
	if remotePath == "" {
		return "", "", fmt.Errorf("locator %q has no file path", rawurl)
	}

	return net.JoinHostPort(host, port), remotePath, nil
}
