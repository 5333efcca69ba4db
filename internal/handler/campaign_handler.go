// internal/handler/campaign_handler.go
package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/protocol"
)

const maxPayloadBytes = 1 << 20

// Dispatcher is the server side of the protocol.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel string, payload json.RawMessage) protocol.Envelope
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// CampaignHandler binds the protocol to loopback HTTP. Envelopes are always returned with 200 so
// callers branch on success rather than on transport status.
type CampaignHandler struct {
	Dispatcher Dispatcher
	Health     Pinger
	Log        *zap.Logger
}

func NewCampaignHandler(d Dispatcher, health Pinger, log *zap.Logger) *CampaignHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CampaignHandler{Dispatcher: d, Health: health, Log: log}
}

func (h *CampaignHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthHandler)
	r.Get("/ipc", h.ListChannelsHandler)
	r.Post("/ipc/{channel}", h.InvokeHandler)
	return r
}

// InvokeHandler handles POST /ipc/{channel}.
func (h *CampaignHandler) InvokeHandler(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	if v := r.Header.Get(protocol.VersionHeader); v != "" && v != strconv.Itoa(protocol.Version) {
		h.Log.Warn("⚠️ Protocol version mismatch", zap.String("channel", channel), zap.String("version", v))
		writeJSON(w, http.StatusOK, protocol.FailureWith(appErrors.CodeValidation, "Unsupported protocol version",
			map[string]any{"expected": protocol.Version, "received": v}))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusOK, protocol.FailureWith(appErrors.CodeValidation, "Invalid request payload", nil))
		return
	}

	env := h.Dispatcher.Dispatch(r.Context(), channel, body)
	writeJSON(w, http.StatusOK, env)
}

// ListChannelsHandler handles GET /ipc.
func (h *CampaignHandler) ListChannelsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"protocolVersion": protocol.Version,
		"channels":        protocol.Channels(),
	})
}

// HealthHandler handles GET /health.
func (h *CampaignHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.Ping(r.Context()); err != nil {
		h.Log.Error("❌ Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
