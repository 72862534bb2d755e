package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-pricer/internal/config"
	"github.com/sells-group/rfp-pricer/internal/ingest"
	"github.com/sells-group/rfp-pricer/internal/quote"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for quoting requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		svc, err := quote.NewServiceFromConfig(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(svc, cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildRouter wires the quoting routes. svc handles the quotes; server
// settings bound uploads and CORS.
func buildRouter(svc *quote.Service, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := sc.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Quote-Id", "X-Document-Fallback", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/templates", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, newCatalogView(svc.Library()))
		})
		r.Post("/quotes", quoteHandler(svc, sc.MaxUploadBytes()))
	})

	return r
}

func quoteHandler(svc *quote.Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "json"
		}
		if format != "json" && format != "html" && format != "pdf" {
			writeError(w, http.StatusBadRequest, "invalid_format", fmt.Sprintf("unknown format %q", format))
			return
		}

		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		src, err := readUpload(r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "upload_too_large", err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, "invalid_upload", err.Error())
			return
		}

		q, err := svc.Quote(r.Context(), quote.Request{Source: src, SkipRender: format == "json"})
		if err != nil {
			if ingest.IsIngestionError(err) {
				writeError(w, http.StatusUnprocessableEntity, "ingestion_failed", err.Error())
				return
			}
			zap.L().Error("quote request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "quote_failed", "internal error")
			return
		}

		w.Header().Set("X-Quote-Id", q.ID.String())
		switch format {
		case "json":
			writeJSON(w, http.StatusOK, q)
		case "html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, q.HTML)
		case "pdf":
			doc, err := q.Document(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, "render_failed", err.Error())
				return
			}
			w.Header().Set("Content-Type", doc.ContentType)
			if doc.Fallback() {
				w.Header().Set("X-Document-Fallback", "true")
			}
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote-%s.%s"`, q.ID, doc.Ext))
			w.WriteHeader(http.StatusOK)
			w.Write(doc.Data)
		}
	}
}

// readUpload accepts either a multipart form with a "file" field or the raw
// document as the request body.
func readUpload(r *http.Request) (ingest.Source, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return ingest.Source{}, eris.Wrap(err, "read multipart file")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return ingest.Source{}, eris.Wrap(err, "read multipart file")
		}
		return ingest.Source{Name: header.Filename, Data: data}, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return ingest.Source{}, eris.Wrap(err, "read body")
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}
	return ingest.Source{Name: name, Data: data}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
