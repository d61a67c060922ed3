// Package httpx provides get(url) for fetching JSON documents.
package httpx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
)

// maxBodyBytes caps how much of a response body is decoded.
const maxBodyBytes = 10 << 20

func init() {
	extensions.Register("http", "get", func(opts extensions.Options) (interp.Extension, error) {
		return New(&http.Client{Timeout: opts.HTTPTimeout}, opts.Logger), nil
	})
}

// Extension implements interp.Extension.
type Extension struct {
	client *http.Client
	logger *slog.Logger
}

// New creates an http extension using client. A nil client gets a 10s
// timeout.
func New(client *http.Client, logger *slog.Logger) *Extension {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extension{client: client, logger: logger}
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "http" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return globals.DefineNative("get", e.get)
}

// get blocks until the body is decoded, so scripts see a plain value.
func (e *Extension) get(ctx context.Context, args []interp.Value) (interp.Value, error) {
	url, err := interp.StringArg("get", args, 0)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	e.logger.Debug("http get",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	v, err := interp.DecodeJSON(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return v, nil
}
