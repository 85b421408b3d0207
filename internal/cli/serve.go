package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/flowmap/flowmap/internal/metrics"
	"github.com/flowmap/flowmap/pkg/layout"
	"github.com/flowmap/flowmap/pkg/observability"
	"github.com/flowmap/flowmap/pkg/pipeline"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  POST /v1/layout   compute a layout for a diagram sent in the request body
  GET  /healthz     liveness probe
  GET  /metrics     Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :8080)")

	return cmd
}

// runServe starts the HTTP server and blocks until interrupted.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	registry := prometheus.NewRegistry()
	metrics.New(registry).Install()
	defer observability.Reset()

	server := &http.Server{
		Addr:              addr,
		Handler:           c.newRouter(runner, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newRouter builds the HTTP routes.
func (c *CLI) newRouter(runner *pipeline.Runner, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(observeRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Post("/v1/layout", c.handleLayout(runner))

	return r
}

// observeRequests reports request timing through the observability hooks.
func observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		obs := observability.Serve()
		obs.OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		obs.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// layoutRequest is the POST /v1/layout request body. Diagram carries the
// diagram JSON document; Options uses the same field names as the CLI flags.
type layoutRequest struct {
	Diagram json.RawMessage  `json:"diagram"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the POST /v1/layout response body. Layout holds the
// geometry in the same format as a layout.json file; binary artifacts such
// as png are base64 encoded by the JSON marshaller.
type layoutResponse struct {
	RunID       string              `json:"run_id"`
	DiagramHash string              `json:"diagram_hash"`
	NodeCount   int                 `json:"node_count"`
	EdgeCount   int                 `json:"edge_count"`
	Diagnostics []layout.Diagnostic `json:"diagnostics,omitempty"`
	Layout      json.RawMessage     `json:"layout"`
	Artifacts   map[string][]byte   `json:"artifacts,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleLayout computes a layout for the posted diagram.
func (c *CLI) handleLayout(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req layoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request: " + err.Error()})
			return
		}
		if len(req.Diagram) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "diagram is required"})
			return
		}

		opts := req.Options
		c.Config.Apply(&opts)
		opts.Path = ""
		opts.Source = []byte(req.Diagram)
		opts.Logger = c.Logger

		// The json artifact doubles as the response layout field.
		if !containsFormat(opts.Formats, pipeline.FormatJSON) {
			opts.Formats = append(opts.Formats, pipeline.FormatJSON)
		}

		result, err := runner.Execute(r.Context(), opts)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}

		resp := layoutResponse{
			RunID:       result.RunID,
			DiagramHash: result.DiagramHash,
			NodeCount:   result.Stats.NodeCount,
			EdgeCount:   result.Stats.EdgeCount,
			Diagnostics: result.Layout.Diagnostics,
			Layout:      json.RawMessage(result.Artifacts[pipeline.FormatJSON]),
		}
		for format, data := range result.Artifacts {
			if format == pipeline.FormatJSON {
				continue
			}
			if resp.Artifacts == nil {
				resp.Artifacts = make(map[string][]byte)
			}
			resp.Artifacts[format] = data
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func containsFormat(formats []string, format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
