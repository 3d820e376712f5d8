// Package mikrotikfeed reads the latest RouterOS release from MikroTik's
// upgrade server. Each channel file holds "<version> <unix-seconds>".
package mikrotikfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/check"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 4096

type Client struct {
	BaseURL string
	Paths   map[domain.ReleaseChannel]string
	HTTP    *http.Client
	Log     *logrus.Entry
}

func New(cfg domain.FeedConfig, log *logrus.Entry) *Client {
	return &Client{
		BaseURL: cfg.BaseURL,
		Paths:   cfg.Paths,
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Log:     log,
	}
}

// URL resolves the feed file for a channel. Absolute paths are used as is.
func (c *Client) URL(channel domain.ReleaseChannel) (string, error) {
	p, ok := c.Paths[channel]
	if !ok || p == "" {
		return "", domain.E("feed url", fmt.Sprintf("unknown MikroTik release channel %q", channel), domain.ErrUsage)
	}
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p, nil
	}
	u, err := url.JoinPath(c.BaseURL, p)
	if err != nil {
		return "", domain.E("feed url", fmt.Sprintf("bad base url %q", c.BaseURL), err)
	}
	return u, nil
}

func (c *Client) Latest(ctx context.Context, channel domain.ReleaseChannel) (domain.Release, error) {
	u, err := c.URL(channel)
	if err != nil {
		return domain.Release{}, err
	}
	log := c.logger().WithFields(logrus.Fields{"channel": channel, "url": u})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Release{}, unavailable("build request", err)
	}
	req.Header.Set("User-Agent", "check_mikrotik_os")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return domain.Release{}, unavailable("fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Release{}, unavailable("fetch", fmt.Errorf("unexpected status %s", resp.Status))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Release{}, unavailable("read body", err)
	}

	rel, err := ParseRelease(string(body))
	if err != nil {
		return domain.Release{}, err
	}
	rel.Channel = channel
	log.WithFields(logrus.Fields{"version": rel.Version, "published": rel.Published}).Debug("Fetched latest release")
	return rel, nil
}

// ParseRelease decodes the body of a channel file.
func ParseRelease(body string) (domain.Release, error) {
	fields := strings.Fields(body)
	if len(fields) < 2 {
		return domain.Release{}, unavailable("parse", fmt.Errorf("expected \"<version> <timestamp>\", got %q", strings.TrimSpace(body)))
	}
	published, err := check.ParseReleaseTimestamp(fields[1])
	if err != nil {
		return domain.Release{}, err
	}
	return domain.Release{Version: fields[0], Published: published}, nil
}

func (c *Client) logger() *logrus.Entry {
	if c.Log != nil {
		return c.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func unavailable(op string, err error) error {
	return domain.E("feed "+op, "could not retrieve latest RouterOS version from MikroTik website", fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err))
}
