// Package reflection calls the journal backend to obtain a reflection for
// an entry's text.
package reflection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/config"
	"github.com/pbaille/journal/internal/domain"
)

// ServiceError reports a failed reflection call: transport failure,
// non-2xx status or an unparseable payload.
type ServiceError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reflection service (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("reflection service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// retryable reports whether another attempt could succeed.
func (e *ServiceError) retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// Request is the body posted to the reflection endpoint.
type Request struct {
	Prompt string `json:"prompt"`
}

// Response is the success body of the reflection endpoint.
type Response struct {
	Result string `json:"result"`
}

// Client posts prompts to the reflection endpoint
type Client struct {
	endpoint    string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger
}

// New creates a Client from cfg. A nil logger disables logging.
func New(cfg config.ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := min(max(cfg.MaxAttempts, 1), config.MaxClientAttempts)
	return &Client{
		endpoint:    cfg.ReflectURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxAttempts: attempts,
		backoff:     cfg.Backoff,
		logger:      logger,
	}
}

// Reflect returns the reflection generated for prompt. Failures are
// reported as *ServiceError. With max_attempts > 1, transport errors and
// 5xx responses are retried with exponential backoff.
func (c *Client) Reflect(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{Prompt: prompt})
	if err != nil {
		return "", &ServiceError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	var lastErr *ServiceError
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying reflection",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", &ServiceError{Err: ctx.Err()}
			}
		}

		result, err := c.do(ctx, body)
		if err == nil {
			return result, nil
		}

		if !errors.As(err, &lastErr) || !lastErr.retryable() || ctx.Err() != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ServiceError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	if out.Result == "" {
		return domain.NoReflection, nil
	}
	return out.Result, nil
}
