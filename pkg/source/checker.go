package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Checker performs HEAD requests against all tracked source URLs and
// records their availability. Japan Post moves these files around every
// few years; a failed check is the early warning.
type Checker struct {
	sources  *DB
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker creates a Checker that verifies source URLs every interval
// when run via Start.
func NewChecker(sources *DB, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		sources:  sources,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is
// cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll performs a HEAD request on every source URL and persists the
// result.
func (c *Checker) CheckAll(ctx context.Context) {
	entries, err := c.sources.List()
	if err != nil {
		c.logger.Error("source check: cannot list sources", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	var ok, failed int
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}

		status, checkErr := c.checkOne(ctx, e.SourceURL)
		errMsg := ""
		if checkErr != nil {
			errMsg = checkErr.Error()
		}

		if err := c.sources.UpdateCheck(e.SourceID, status, errMsg); err != nil {
			c.logger.Error("source check: update failed", "source", e.SourceID, "error", err)
		}

		if status >= 200 && status < 400 {
			ok++
		} else {
			failed++
			c.logger.Warn("source unreachable",
				"source", e.SourceID,
				"url", e.SourceURL,
				"status", status,
				"error", errMsg,
			)
		}
	}

	c.logger.Info("source check complete", "total", ok+failed, "ok", ok, "failed", failed)
}

// checkOne performs a single HEAD request and returns the HTTP status code.
// On network error, status is 0.
func (c *Checker) checkOne(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
