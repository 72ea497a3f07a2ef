package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewLimiter builds a token-bucket limiter shared by the provider clients.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// httpDoer is the rate-limited transport both clients use.
type httpDoer struct {
	provider   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newHTTPDoer(provider string, limiter *rate.Limiter) httpDoer {
	if limiter == nil {
		limiter = NewLimiter(0, 0)
	}
	return httpDoer{
		provider:   provider,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
	}
}

// do waits for a rate token, sends req and returns the body of a 2xx response.
func (d httpDoer) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limiter: %w", d.provider, err)
	}

	resp, err := d.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", d.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s failed to read response: %w", d.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s api error: status=%d body=%s", d.provider, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
