package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/inkforge/inkforge/pkg/buildinfo"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
	inkerrors "github.com/inkforge/inkforge/pkg/errors"
	"github.com/inkforge/inkforge/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	theme    string
	noCache  bool
	redisURL string
}

// serveCommand creates the serve command: a small preview server that
// renders diagram sources posted by an editor plugin or the docs author's
// browser, using the same pipeline as the build.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8416"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme TOML file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for a shared render cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	th, err := loadTheme(opts.theme)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cmd, opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
		})
	})
	r.Post("/render", renderHandler(runner, th))

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shut down when the command context is cancelled (Ctrl-C).
	go func() {
		<-cmd.Context().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	printInfo("Preview server listening on %s", opts.addr)
	printDetail("POST /render with {\"type\": ..., \"content\": ...}")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return cmd.Context().Err()
}

// renderHandler renders one posted diagram through the shared pipeline.
func renderHandler(runner *pipeline.Runner, th *theme.Theme) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger := loggerFromContext(req.Context())

		var opts pipeline.Options
		if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		opts.Theme = th
		opts.Logger = logger

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			status := http.StatusInternalServerError
			if inkerrors.GetCode(err) == inkerrors.ErrCodeUnsupportedDiagramType {
				status = http.StatusUnprocessableEntity
			}
			logger.Error("render failed", "type", opts.Type, "error", err)
			writeJSON(w, status, map[string]string{"error": inkerrors.UserMessage(err)})
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
