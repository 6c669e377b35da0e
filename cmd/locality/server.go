package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nevindra/locality"
	"github.com/nevindra/locality/panel"
)

// chatInputRequest is the parsed body of POST /v1/chat-input.
type chatInputRequest struct {
	Text        string         `json:"text"`
	VisibleText string         `json:"visible_text"`
	State       map[string]any `json:"state,omitempty"`
}

// chatInputResponse is the JSON body returned by POST /v1/chat-input.
type chatInputResponse struct {
	Text        string `json:"text"`
	VisibleText string `json:"visible_text"`
}

const maxRequestBodyBytes = 1 << 20 // 1MB

// newServer routes the chat-input hook, the health probe and the settings
// panel onto one mux.
func newServer(chain *locality.ProcessorChain, settings panel.Applier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat-input", func(w http.ResponseWriter, r *http.Request) {
		handleChatInput(chain, logger, w, r)
	})
	mux.HandleFunc("GET /health", handleHealth)

	p := panel.NewHandler(settings, panel.WithLogger(logger))
	mux.Handle("/settings", p)
	mux.Handle("/settings.json", p)
	mux.Handle("GET /{$}", http.RedirectHandler("/settings", http.StatusFound))
	return mux
}

func handleChatInput(chain *locality.ProcessorChain, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req chatInputRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	t := locality.Turn{
		ID:          locality.NewID(),
		Text:        req.Text,
		VisibleText: req.VisibleText,
		State:       req.State,
	}
	if err := chain.Run(r.Context(), &t); err != nil {
		// The turn still goes out; an annotation is never worth blocking it.
		logger.Error("chat-input: processing failed", "turn", t.ID, "error", err)
		t.Text = req.Text
	}

	writeJSON(w, http.StatusOK, chatInputResponse{Text: t.Text, VisibleText: req.VisibleText})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func runServe(a *app) error {
	var handler http.Handler = newServer(a.chain, a.settings, a.logger)
	if a.inst != nil {
		handler = otelhttp.NewHandler(handler, "locality")
	}

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*a.cfg.Lookup.Timeout.Duration + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Println("shutting down...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("stopped")
	return nil
}
