package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/export"
	"github.com/matzehuels/depviz/pkg/graph"
)

// serveOpts holds the flags specific to the serve command.
type serveOpts struct {
	buildOpts
	addr string // listen address
}

// newServeCmd creates the serve command: build a graph once and expose the
// result over HTTP.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [package]",
		Short: "Build a dependency graph and serve it over HTTP",
		Long: `Build the dependency graph of a package once at startup and serve the
result over HTTP.

Endpoints:
  GET /api/graph          full build result as JSON
  GET /api/cycles         detected cycles as JSON
  GET /api/reverse/{pkg}  packages that directly depend on {pkg}
  GET /graph.dot          annotated Graphviz DOT export
  GET /graph.svg          rendered SVG image`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(&opts.buildOpts, args)
			if err != nil {
				return err
			}
			res, err := runBuild(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), res, opts.addr)
		},
	}

	addBuildFlags(cmd, &opts.buildOpts)
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", ":8080", "listen address")

	return cmd
}

// newRouter wires the HTTP routes for a build result. Split from runServe so
// the handlers are testable with httptest.
func newRouter(res *graph.Result, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/graph", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(res, w); err != nil {
			logger.Errorf("write graph response: %v", err)
		}
	})

	r.Get("/api/cycles", func(w http.ResponseWriter, req *http.Request) {
		cycles := make([][]string, 0, len(res.Cycles))
		for _, c := range res.Cycles {
			cycles = append(cycles, c)
		}
		writeJSON(w, logger, map[string]any{"id": res.ID, "cycles": cycles})
	})

	r.Get("/api/reverse/{pkg}", func(w http.ResponseWriter, req *http.Request) {
		pkg := chi.URLParam(req, "pkg")
		if !res.Graph.Has(pkg) {
			http.Error(w, fmt.Sprintf("unknown package: %s", pkg), http.StatusNotFound)
			return
		}
		dependents := res.Reverse.Dependents(pkg)
		if dependents == nil {
			dependents = []string{}
		}
		writeJSON(w, logger, map[string]any{"package": pkg, "dependents": dependents})
	})

	r.Get("/graph.dot", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		fmt.Fprint(w, export.ToDOT(res.Graph, res.Root))
	})

	r.Get("/graph.svg", func(w http.ResponseWriter, req *http.Request) {
		svg, err := export.RenderSVG(req.Context(), export.ToDOT(res.Graph, res.Root))
		if err != nil {
			logger.Errorf("render svg: %v", err)
			http.Error(w, "rendering failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	})

	return r
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Errorf("write response: %v", err)
	}
}

// runServe serves res on addr until ctx is cancelled, then shuts down
// gracefully.
func runServe(ctx context.Context, res *graph.Result, addr string) error {
	logger := loggerFromContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(res, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving dependency graph for %s on %s (build %s)", res.Root, addr, res.ID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
