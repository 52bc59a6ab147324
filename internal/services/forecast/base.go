package forecast

import (
	"context"
	"fmt"
	"time"

	"RentRate/pkg/config"
	xhttp "RentRate/pkg/http"
)

// HTTPServiceBase centralizes client construction and JSON POST handling for
// the demand model clients.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
}

// NewHTTPServiceBase builds an HTTP client with timeout and base URL from config.
func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
	timeout := cfg.Models.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPServiceBase{
		baseURL: cfg.Models.ServiceURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("model service client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry posts JSON with up to `attempts` retries for transient errors.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil {
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
