package deviceconfig

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/logging"
)

const (
	// DefaultUsername is the default HTTP Basic Auth username for Smartap devices
	DefaultUsername = "SmarTap"

	// DefaultPassword is the default HTTP Basic Auth password for Smartap devices
	DefaultPassword = "yeswecan"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the delay before the first retry. It doubles on
	// each attempt up to DefaultMaxRetryDelay.
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second
)

// Client represents an HTTP client for communicating with a Smartap device
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.4.16:80")
	BaseURL string

	Username string
	Password string

	HTTPClient *http.Client

	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// NewClient creates a client for the device at baseURL with the factory
// credentials.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Username:      DefaultUsername,
		Password:      DefaultPassword,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetAuth sets custom HTTP Basic Auth credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// GetConfiguration retrieves the current device configuration.
func (c *Client) GetConfiguration(ctx context.Context) (*DeviceConfig, error) {
	var config *DeviceConfig
	err := c.retry(ctx, "get configuration", func() error {
		body, err := c.do(ctx, http.MethodGet, nil)
		if err != nil {
			return err
		}
		config, err = ParseDeviceConfig(body)
		if err != nil {
			return NewParseError("failed to parse configuration", err)
		}
		return nil
	})
	return config, err
}

// UpdateConfiguration posts the non-nil sections of update.
func (c *Client) UpdateConfiguration(ctx context.Context, update *ConfigUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	if errs := ValidateConfigUpdate(update); len(errs) > 0 {
		return errs[0]
	}

	form := update.ToFormData().Encode()
	return c.retry(ctx, "update configuration", func() error {
		_, err := c.do(ctx, http.MethodPost, strings.NewReader(form))
		return err
	})
}

// Apply validates a draft, sends it and marks it applied.
func (c *Client) Apply(ctx context.Context, draft *Draft) error {
	update, err := draft.Build()
	if err != nil {
		return err
	}
	if err := c.UpdateConfiguration(ctx, update); err != nil {
		return err
	}
	draft.Applied()
	return nil
}

// retry runs attempt until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx ends.
func (c *Client) retry(ctx context.Context, op string, attempt func() error) error {
	delay := c.RetryDelay
	var err error

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			logging.Debug("Retrying device request",
				zap.String("op", op),
				zap.Int("attempt", i),
				zap.Duration("delay", delay),
				zap.Error(err))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", op, ctx.Err())
			}
			delay *= 2
			if delay > c.MaxRetryDelay {
				delay = c.MaxRetryDelay
			}
		}

		if err = attempt(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/", body)
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}
	req.SetBasicAuth(c.Username, c.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(method+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewAuthError("authentication failed (check credentials)")
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent:
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}
	return data, nil
}
