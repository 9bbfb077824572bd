package newsapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// LimitedTransport is an http.RoundTripper that waits on a token bucket
// before each request. The wait honours the request context.
type LimitedTransport struct {
	inner   http.RoundTripper
	limiter *rate.Limiter
}

// NewLimitedTransport wraps inner with limiter. If inner is nil,
// http.DefaultTransport is used.
func NewLimitedTransport(limiter *rate.Limiter, inner http.RoundTripper) *LimitedTransport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &LimitedTransport{inner: inner, limiter: limiter}
}

// RoundTrip implements http.RoundTripper.
func (t *LimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.inner.RoundTrip(req)
}
