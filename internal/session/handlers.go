package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"crush-calc/internal/events"
	"crush-calc/internal/handlers"
	"crush-calc/internal/observability"
)

// tracer is the session domain's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("session")

// maxKeysPerRequest bounds one POST /keys body.
const maxKeysPerRequest = 256

// Handler serves the calculator session API.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// startSpan opens the per-handler span and returns the trace-aware logger.
func startSpan(r *http.Request, opName string) (*http.Request, trace.Span, *zap.Logger) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "session."+opName,
		trace.WithAttributes(
			attribute.String("session.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return r.WithContext(ctx), span, logger
}

// lookup resolves {sessionID} or writes a 404.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName string) (*Session, bool) {
	id := chi.URLParam(r, "sessionID")
	span.SetAttributes(attribute.String("session.id", id))

	s, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(r.Context(), span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	return s, true
}

// Create handles POST /sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r, span, logger := startSpan(r, "create")
	defer span.End()

	s, err := h.store.Create()
	if errors.Is(err, ErrTooManySessions) {
		observability.RecordError(r.Context(), span, logger, errorCounter, "create", "too many sessions", err, http.StatusTooManyRequests, w)
		return
	}
	if err != nil {
		observability.RecordError(r.Context(), span, logger, errorCounter, "create", "could not create session", err, http.StatusInternalServerError, w)
		return
	}

	span.SetAttributes(attribute.String("session.id", s.ID()))
	span.SetStatus(codes.Ok, "")

	logger.Info("session created",
		zap.String("session_id", s.ID()),
		zap.String("request_id", observability.RequestIDFromContext(r.Context())),
	)

	handlers.WriteJSON(w, http.StatusCreated, s.Snapshot())
}

// Get handles GET /sessions/{sessionID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	r, span, logger := startSpan(r, "get")
	defer span.End()

	s, ok := h.lookup(w, r, span, logger, "get")
	if !ok {
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, s.Snapshot())
}

// Delete handles DELETE /sessions/{sessionID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	r, span, logger := startSpan(r, "delete")
	defer span.End()

	id := chi.URLParam(r, "sessionID")
	span.SetAttributes(attribute.String("session.id", id))

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(r.Context(), span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(r.Context())),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Press handles POST /sessions/{sessionID}/keys
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	r, span, logger := startSpan(r, "press")
	defer span.End()
	ctx := r.Context()

	s, ok := h.lookup(w, r, span, logger, "press")
	if !ok {
		return
	}

	var req KeyRequest
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	keys := req.Keys
	if req.Key != "" {
		keys = append([]string{req.Key}, keys...)
	}
	if len(keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "no keys provided", fmt.Errorf("key and keys are both empty"), http.StatusBadRequest, w)
		return
	}
	if len(keys) > maxKeysPerRequest {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "too many keys", fmt.Errorf("%d keys, limit %d", len(keys), maxKeysPerRequest), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("session.keys_count", len(keys)))

	snap, err := s.PressAll(ctx, keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.AddEvent("keys.applied", trace.WithAttributes(
		attribute.String("current_operand", snap.State.CurrentOperand),
		attribute.String("previous_operand", snap.State.PreviousOperand),
		attribute.String("operation", string(snap.State.Operation)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("keys applied",
		zap.String("session_id", s.ID()),
		zap.Strings("keys", keys),
		zap.String("current_operand", snap.State.CurrentOperand),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, snap)
}

// PickupLine handles POST /sessions/{sessionID}/pickup-line
func (h *Handler) PickupLine(w http.ResponseWriter, r *http.Request) {
	r, span, logger := startSpan(r, "pickup_line")
	defer span.End()

	s, ok := h.lookup(w, r, span, logger, "pickup_line")
	if !ok {
		return
	}

	snap := s.PickupLine(r.Context())
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusAccepted, snap)
}

// Events handles GET /sessions/{sessionID}/events as a Server-Sent Events
// stream: one "snapshot" event, then "state" and "comment" events until the
// client disconnects or the session is closed.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	r, span, logger := startSpan(r, "events")
	defer span.End()
	ctx := r.Context()

	s, ok := h.lookup(w, r, span, logger, "events")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, "events", "streaming unsupported", fmt.Errorf("%T is not an http.Flusher", w), http.StatusInternalServerError, w)
		return
	}

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snap, err := json.Marshal(s.Snapshot())
	if err != nil {
		return
	}
	writeEvent(w, events.Event{Name: events.Snapshot, Data: snap})
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev events.Event) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
}
