package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	_maxImageSize   = 10 * 1024 * 1024 // 10 MB
	_defaultTimeout = 10 * time.Second
	_userAgent      = "spotui/1.0"
)

var (
	// ErrStatus is returned for non-200 responses
	ErrStatus = errors.New("unexpected status code")
	// ErrNotImage is returned when the response is not an image
	ErrNotImage = errors.New("url is not an image")
	// ErrUnsupportedScheme is returned for URLs that are not http(s)
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

// HTTPFetcher downloads album artwork over HTTP/HTTPS
type HTTPFetcher struct {
	logger *zap.Logger
	client *http.Client
	// timeout applies only to calls whose context has no deadline
	timeout time.Duration
}

// NewHTTPFetcher creates a new HTTP-based fetcher instance.
// The caller's context deadline bounds each request; timeout is used when
// the context has none. Zero selects a default.
func NewHTTPFetcher(logger *zap.Logger, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = _defaultTimeout
	}
	return &HTTPFetcher{
		logger:  logger,
		client:  &http.Client{},
		timeout: timeout,
	}
}

// Fetch downloads image data from the given URL.
// Bodies larger than 10 MB are truncated; the decoder reports those as corrupt.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, url)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", _userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}

	limitReader := io.LimitReader(resp.Body, _maxImageSize)

	data, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	f.logger.Debug("Image fetched successfully", zap.Int("bytes", len(data)), zap.String("url", url))
	return data, nil
}
