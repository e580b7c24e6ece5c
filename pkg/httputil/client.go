// Package httputil provides the HTTP client used for registry lookups.
//
// The client carries the policy every outgoing registry request shares: a
// hard timeout, no retries, a stable User-Agent, and JSON content
// negotiation. Request and response events are emitted through
// [observability.HTTP] so callers can instrument traffic without touching
// the sources.
package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/depviz/pkg/observability"
)

// NewClient creates an HTTP client with the given timeout. A call that
// exceeds the timeout fails rather than hangs; failed calls are not retried.
// Every request is stamped with userAgent and an application/json Accept
// header.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &headerTransport{
			base:      http.DefaultTransport,
			userAgent: userAgent,
		},
	}
}

// headerTransport stamps shared headers on each request and reports the
// round trip to the registered HTTP hooks.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per the RoundTripper contract the request must not be mutated.
	r := req.Clone(req.Context())
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	ctx := r.Context()
	observability.HTTP().OnRequest(ctx, r.Method, r.URL.Host, r.URL.Path)

	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	if err != nil {
		observability.HTTP().OnError(ctx, r.Method, r.URL.Host, r.URL.Path, err)
		return nil, err
	}
	observability.HTTP().OnResponse(ctx, r.Method, r.URL.Host, r.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}
