package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/errors"
)

func newTestRegistry(handler http.HandlerFunc) (*Registry, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewRegistry(srv.URL, log.New(io.Discard)), srv
}

func TestRegistryFetchDirect(t *testing.T) {
	reg, srv := newTestRegistry(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/express" {
			t.Errorf("path = %q, want /express", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("User-Agent header missing")
		}
		io.WriteString(w, `{
			"name": "express",
			"dist-tags": {"latest": "4.18.2"},
			"versions": {
				"4.18.2": {"dependencies": {"accepts": "~1.3.8", "body-parser": "1.20.1"}}
			}
		}`)
	})
	defer srv.Close()

	deps, err := reg.FetchDirect(context.Background(), "express")
	if err != nil {
		t.Fatalf("FetchDirect() error = %v", err)
	}
	if len(deps) != 2 {
		t.Errorf("len(deps) = %d, want 2", len(deps))
	}
	if got, want := deps["accepts"], "~1.3.8"; got != want {
		t.Errorf("deps[accepts] = %q, want %q", got, want)
	}
}

func TestRegistryFallsBackToOlderVersion(t *testing.T) {
	// latest declares no dependencies; the scan walks versions in
	// descending lexicographic order and takes the first that does.
	reg, srv := newTestRegistry(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"name": "pkg",
			"dist-tags": {"latest": "3.0.0"},
			"versions": {
				"1.0.0": {"dependencies": {"old": "^1.0"}},
				"2.0.0": {"dependencies": {"mid": "^2.0"}},
				"3.0.0": {}
			}
		}`)
	})
	defer srv.Close()

	deps, err := reg.FetchDirect(context.Background(), "pkg")
	if err != nil {
		t.Fatalf("FetchDirect() error = %v", err)
	}
	if _, ok := deps["mid"]; !ok {
		t.Errorf("deps = %v, want dependencies of version 2.0.0", deps)
	}
}

func TestRegistryNoVersionHasDependencies(t *testing.T) {
	reg, srv := newTestRegistry(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"name": "leaf",
			"dist-tags": {"latest": "1.0.0"},
			"versions": {"1.0.0": {}}
		}`)
	})
	defer srv.Close()

	deps, err := reg.FetchDirect(context.Background(), "leaf")
	if err != nil {
		t.Fatalf("FetchDirect() error = %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("deps = %v, want empty", deps)
	}
}

func TestRegistryNotFound(t *testing.T) {
	reg, srv := newTestRegistry(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	defer srv.Close()

	_, err := reg.FetchDirect(context.Background(), "nope")
	if err == nil {
		t.Fatal("FetchDirect() returned nil error for 404")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeLookup {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeLookup)
	}
}

func TestRegistryServerError(t *testing.T) {
	reg, srv := newTestRegistry(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := reg.FetchDirect(context.Background(), "pkg")
	if err == nil {
		t.Fatal("FetchDirect() returned nil error for 500")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeLookup {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeLookup)
	}
}

func TestRegistryMalformedResponse(t *testing.T) {
	reg, srv := newTestRegistry(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"name": "pkg", "versions":`)
	})
	defer srv.Close()

	_, err := reg.FetchDirect(context.Background(), "pkg")
	if err == nil {
		t.Fatal("FetchDirect() returned nil error for malformed body")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeLookup {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeLookup)
	}
}

func TestSelectVersion(t *testing.T) {
	reg := NewRegistry("", log.New(io.Discard))

	tests := []struct {
		name     string
		data     registryResponse
		wantVer  string
		wantDeps int
	}{
		{
			name: "latest with deps wins",
			data: registryResponse{
				DistTags: distTags{Latest: "2.0.0"},
				Versions: map[string]versionDetails{
					"1.0.0": {Dependencies: map[string]string{"a": "*"}},
					"2.0.0": {Dependencies: map[string]string{"b": "*", "c": "*"}},
				},
			},
			wantVer:  "2.0.0",
			wantDeps: 2,
		},
		{
			name: "descending scan on empty latest",
			data: registryResponse{
				DistTags: distTags{Latest: "3.0.0"},
				Versions: map[string]versionDetails{
					"1.0.0": {Dependencies: map[string]string{"a": "*"}},
					"2.0.0": {Dependencies: map[string]string{"b": "*"}},
					"3.0.0": {},
				},
			},
			wantVer:  "2.0.0",
			wantDeps: 1,
		},
		{
			name: "no deps anywhere falls back to latest",
			data: registryResponse{
				DistTags: distTags{Latest: "1.5.0"},
				Versions: map[string]versionDetails{"1.0.0": {}, "1.5.0": {}},
			},
			wantVer:  "1.5.0",
			wantDeps: 0,
		},
		{
			name: "unknown latest falls back to first version",
			data: registryResponse{
				DistTags: distTags{Latest: "9.9.9"},
				Versions: map[string]versionDetails{"1.0.0": {}, "2.0.0": {}},
			},
			wantVer:  "1.0.0",
			wantDeps: 0,
		},
		{
			name:     "no versions at all",
			data:     registryResponse{},
			wantVer:  "",
			wantDeps: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ver, deps := reg.selectVersion("pkg", &tt.data)
			if ver != tt.wantVer {
				t.Errorf("version = %q, want %q", ver, tt.wantVer)
			}
			if len(deps) != tt.wantDeps {
				t.Errorf("len(deps) = %d, want %d", len(deps), tt.wantDeps)
			}
		})
	}
}
