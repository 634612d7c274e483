package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/metrics"
)

// Sentinel errors shared by every provider.
var (
	ErrUnavailable    = errors.New(config.ErrProviderUnavailable)
	ErrStatus         = errors.New(config.ErrProviderStatus)
	ErrMalformed      = errors.New(config.ErrProviderMalformed)
	ErrBadCoordinates = errors.New(config.ErrBadCoordinates)
	ErrBadSurah       = errors.New(config.ErrBadSurah)
	ErrBadBook        = errors.New(config.ErrBadBook)
)

var validate = validator.New()

// StatusError carries the HTTP status of a rejected provider response.
// It matches ErrStatus with errors.Is.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", config.ErrProviderStatus, e.Code, http.StatusText(e.Code))
}

// Is reports whether target is ErrStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Client performs JSON GET requests against a provider base URL.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Name    string
}

// NewClient creates a Client with configured timeouts.
func NewClient(name, baseURL string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: config.HTTPTimeout},
		BaseURL: baseURL,
		Name:    name,
	}
}

// GetJSON fetches path with the given query, decodes the body into out and
// validates it. operation labels the request in logs and metrics.
func (c *Client) GetJSON(ctx context.Context, operation, path string, query url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderRequest(c.Name, operation, start, err) }()

	target := c.BaseURL + path
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	// Query parameters are left out of logs.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompProvider),
		slog.String(config.LogKeyProvider, c.Name),
		slog.String(config.LogKeyOperation, operation),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrRequestBuild, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn(config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return &StatusError{Code: resp.StatusCode}
	}

	body := io.LimitReader(resp.Body, config.MaxHTTPResponseSize)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := validate.StructCtx(ctx, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	log.Debug(config.MsgFetchDone, config.LogKeyDuration, time.Since(start).Milliseconds())
	return nil
}
