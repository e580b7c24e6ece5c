package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/depviz/pkg/observability"
)

func TestClientStampsHeaders(t *testing.T) {
	var gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewClient(time.Second, "depviz/test")
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if gotUA != "depviz/test" {
		t.Errorf("User-Agent = %q, want depviz/test", gotUA)
	}
}

func TestClientKeepsCallerHeaders(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
	}))
	defer srv.Close()

	client := NewClient(time.Second, "depviz/test")
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	if gotAccept != "text/plain" {
		t.Errorf("Accept = %q, want caller value text/plain", gotAccept)
	}
}

// recordingHTTPHooks counts request and response events.
type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  int
	responses int
	status    int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses++
	h.status = status
}

func TestClientEmitsHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := NewClient(time.Second, "depviz/test")
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 || hooks.responses != 1 {
		t.Errorf("requests/responses = %d/%d, want 1/1", hooks.requests, hooks.responses)
	}
	if hooks.status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", hooks.status, http.StatusTeapot)
	}
}
