package circuitbreaker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient is an http.Client front for one provider API. Transport
// errors and 5xx responses count against the breaker; a 5xx response
// is still handed back so the caller can decode the provider's error
// body.
type HTTPClient struct {
	client  *http.Client
	breaker *Breaker
	log     *zap.Logger
}

// NewHTTPClient builds a breaker-guarded client. A zero timeout means
// 30 seconds.
func NewHTTPClient(cfg Config, timeout time.Duration, log *zap.Logger) *HTTPClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		breaker: New(cfg, log),
		log:     log,
	}
}

// Do executes the request unless the circuit is open.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Call(req.Context(), func(ctx context.Context) (interface{}, error) {
		resp, err := c.client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if IsOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
			return nil, err
		}
		if resp, ok := result.(*http.Response); ok {
			// 5xx counted as a failure above; the caller still gets
			// the response to report the provider's message.
			return resp, nil
		}
		return nil, err
	}
	return result.(*http.Response), nil
}
