package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"jellywatch/internal/config"
	"jellywatch/internal/detect"
	"jellywatch/internal/notify"
	"jellywatch/internal/store"
)

const maxPayloadBytes = 10 << 20

// Server exposes the webhook ingest endpoint plus health and stats
// routes.
type Server struct {
	bind       string
	token      string
	posterBase string
	processor  *Processor
	notifier   notify.Service
	store      *store.Store
	logger     *slog.Logger

	listener net.Listener
	server   *http.Server
}

// NewServer wires the HTTP surface. The bind address comes from
// configuration; an empty address disables the server.
func NewServer(cfg *config.Config, processor *Processor, notifier notify.Service, st *store.Store, logger *slog.Logger) *Server {
	bind := strings.TrimSpace(cfg.Paths.Bind)
	if bind == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		bind:       bind,
		token:      strings.TrimSpace(cfg.Paths.Token),
		posterBase: strings.TrimSpace(cfg.Jellyfin.URL),
		processor:  processor,
		notifier:   notifier,
		store:      st,
		logger:     logger.With(slog.String("component", "webhook-server")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", srv.handleWebhook)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/stats", srv.handleStats)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Start begins serving and arranges shutdown when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("webhook listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("webhook server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("webhook server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts down the server, draining in-flight requests briefly.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once started.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload Payload
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err := decoder.Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	event, err := ParseEvent(payload.Event)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unknown event: "+payload.Event)
		return
	}

	switch event {
	case EventItemDeleted:
		s.handleDelete(w, r, &payload)
	default:
		s.handleChange(w, r, &payload)
	}
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request, payload *Payload) {
	full, err := payload.fullRecord(s.posterBase)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := s.processor.Process(r.Context(), full)
	if outcome.Decision != detect.DecisionUnchanged {
		if err := s.notifier.NotifyChange(r.Context(), full, outcome.Decision, outcome.Summary, outcome.Changes); err != nil {
			// The event is already persisted; a notification failure must
			// not make Jellyfin retry the webhook.
			s.logger.Error("notification failed",
				slog.String("event_id", outcome.EventID),
				slog.String("item_id", full.ItemID),
				slog.Any("error", err))
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"event_id": outcome.EventID,
		"decision": string(outcome.Decision),
		"summary":  outcome.Summary,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, payload *Payload) {
	itemID := payload.itemID()
	if itemID == "" {
		s.writeError(w, http.StatusBadRequest, "payload missing item id")
		return
	}

	prev, deleted := s.processor.ProcessDelete(r.Context(), itemID)
	if deleted && prev != nil {
		if err := s.notifier.NotifyDeleted(r.Context(), prev); err != nil {
			s.logger.Error("delete notification failed",
				slog.String("item_id", itemID),
				slog.Any("error", err))
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"deleted": deleted,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	health, err := s.store.CheckHealth(r.Context())
	status := http.StatusOK
	if err != nil || !health.DatabaseReadable || !health.IntegrityCheck {
		status = http.StatusServiceUnavailable
	}
	if err != nil && health.Error == "" {
		health.Error = err.Error()
	}
	s.writeJSON(w, status, health)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// authorized checks the bearer token when one is configured. Health
// checks bypass auth so load balancers stay simple.
func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	header := r.Header.Get("Authorization")
	presented, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), []byte(s.token)) == 1
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
