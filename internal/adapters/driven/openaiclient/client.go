// Package openaiclient builds configured go-openai clients and provides
// the retry policy shared by the OpenAI embedding and chat adapters.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Default configuration values.
const (
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond

	// maxBackoff caps a single retry wait.
	maxBackoff = 30 * time.Second
)

// Config holds connection settings shared by the OpenAI adapters.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API endpoint for compatible servers or proxies.
	BaseURL string

	// Timeout bounds each HTTP request (default: 60s).
	Timeout time.Duration
}

// New creates a go-openai client from cfg.
func New(cfg Config) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrMissingConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return openai.NewClientWithConfig(oc), nil
}

// Backoff returns the wait before retry attempt (1-based): the base delay
// doubled per attempt, capped at 30s, with +/-25% jitter.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := base * time.Duration(1<<uint(attempt))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}

// Retry runs fn until it succeeds, fails with a non-retryable error, the
// context ends, or maxRetries retries have been spent.
func Retry(ctx context.Context, op string, maxRetries int, base time.Duration, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := Backoff(base, attempt)
			logger.Debug("%s: retry %d/%d in %s: %v", op, attempt, maxRetries, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
	}
	return Classify(lastErr)
}

// statusCode extracts the HTTP status from go-openai errors.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Retryable reports whether err is worth another attempt: rate limits,
// server errors and transport failures. Client errors are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch code := statusCode(err); {
	case code == 0:
		return true
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	case code >= 500:
		return true
	default:
		return false
	}
}

// Classify wraps rate-limit failures with domain.ErrRateLimited.
func Classify(err error) error {
	if err != nil && statusCode(err) == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return err
}
