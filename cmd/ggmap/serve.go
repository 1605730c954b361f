package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/internal/config"
	"github.com/gogpu/ggmap/scene"
)

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

func runServe(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	sf := newSceneFlags(fs, cfg)
	addr := fs.String("addr", cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := sf.load()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      newRouter(m, rate.NewLimiter(rate.Limit(cfg.RenderRate), cfg.RenderBurst)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newRouter serves m. Rendering and hit requests share limiter; a nil
// limiter does not throttle.
func newRouter(m *scene.Map, limiter *rate.Limiter) *mux.Router {
	h := &handler{m: m}
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.NewRoute().Subrouter()
	if limiter != nil {
		api.Use(limit(limiter))
	}
	api.HandleFunc("/render.{format}", h.render).Methods("GET")
	api.HandleFunc("/hit", h.hit).Methods("GET").Queries("x", "{x}", "y", "{y}")
	return r
}

type handler struct {
	m *scene.Map
}

func (h *handler) render(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	if format == "jpg" {
		format = "jpeg"
	}

	var buf bytes.Buffer
	if err := h.m.Encode(&buf, format); err != nil {
		if errors.Is(err, canvas.ErrUnknownFormat) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error(), "formats": canvas.Encoders()})
			return
		}
		slog.Error("render map", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}

	ct, ok := contentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (h *handler) hit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	x, errX := strconv.ParseFloat(vars["x"], 64)
	y, errY := strconv.ParseFloat(vars["y"], 64)
	if err := errors.Join(errX, errY); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	writeJSON(w, http.StatusOK, hitAt(h.m, x, y, all))
}

// limit rejects requests with 429 once limiter runs out of tokens.
func limit(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
