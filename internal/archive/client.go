package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ice-extent/internal/logger"
	"ice-extent/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the National Ice Center host serving the IMS archive
	DefaultBaseURL = "http://www.natice.noaa.gov"

	// northern hemisphere daily GIFs: <base>/.../NHem/<year>/ims<year><ddd>.gif
	nhemPath = "/pub/ims/ims_v3/ims_gif/ARCHIVE/NHem/%d/%s"

	UserAgent = "ice-extent/1.0 (+https://www.natice.noaa.gov)"

	tracerName = "ice-extent/archive"
)

// StatusError reports a non-200 archive response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("archive returned %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Option configures a Client
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

func WithTracer(tracer oteltrace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithClock sets the time source used to bound the newest valid year
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// Client retrieves ice-extent frames from the archive. It never caches
// and never retries; each Fetch is one GET.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
	tracer     oteltrace.Tracer
	clock      func() time.Time
}

// NewClient creates an archive client with system proxy support.
// A zero timeout leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.NoOpLogger{},
		tracer:  otel.Tracer(tracerName),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL builds the archive location for a request
func (c *Client) URL(req models.ImageRequest) string {
	return c.baseURL + fmt.Sprintf(nhemPath, req.Year, req.FileName())
}

// Fetch downloads the raw GIF bytes for req
func (c *Client) Fetch(ctx context.Context, req models.ImageRequest) ([]byte, error) {
	if err := req.Validate(c.clock()); err != nil {
		return nil, err
	}

	url := c.URL(req)
	ctx, span := c.tracer.Start(ctx, "archive.fetch", oteltrace.WithAttributes(
		attribute.Int("archive.year", req.Year),
		attribute.Int("archive.day", req.Day),
		attribute.String("http.url", url),
	))
	defer span.End()

	data, err := c.get(ctx, url, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("archive.bytes", len(data)))
	return data, nil
}

func (c *Client) get(ctx context.Context, url string, span oteltrace.Span) ([]byte, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", UserAgent)

	c.logger.Debug("ArchiveClient", "fetching frame", map[string]interface{}{
		"url": url,
	})

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	c.logger.Debug("ArchiveClient", "frame fetched", map[string]interface{}{
		"url":         url,
		"size_bytes":  len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return data, nil
}

// IsNotFound reports whether err is an archive 404, which usually means the
// frame for that day has not been published yet
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
