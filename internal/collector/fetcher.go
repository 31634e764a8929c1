package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"SignalSentinel/internal/model"
)

// ErrNoData is returned by a Fetcher when the provider has no bars for the request.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching price history.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, period Period, interval model.Interval) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient returns a client with a 30s timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
