// Package session is the interaction layer between a keypad and the
// calculator: it owns one calculator state and one display record per user,
// applies key presses synchronously, and fetches comments in the background.
package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"crush-calc/internal/calculator"
	"crush-calc/internal/commentary"
	"crush-calc/internal/events"
)

// Commentator supplies display comments and never fails.
// *commentary.Service satisfies it.
type Commentator interface {
	EquationComment(ctx context.Context, equation, result string) commentary.Comment
	PickupLine(ctx context.Context) commentary.Comment
}

// Options configures a Session.
type Options struct {
	// CommentaryTimeout bounds each background comment request.
	CommentaryTimeout time.Duration
	Logger            *zap.Logger
	// Now is the clock used for activity timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Session holds one calculator and its display.
//
// Key presses are applied under the session lock and never block on the
// commentary provider. Each comment request carries a token; only the most
// recently issued request may write the display, and clearing the display
// invalidates every outstanding token. Late responses are dropped.
type Session struct {
	id          string
	commentator Commentator
	timeout     time.Duration
	logger      *zap.Logger
	now         func() time.Time
	hub         *events.Hub

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	mu        sync.Mutex
	state     calculator.State
	display   Display
	token     uint64
	updatedAt time.Time
	closed    bool
}

// New returns a session in the zero calculator state.
func New(id string, c Commentator, opts Options) *Session {
	if opts.CommentaryTimeout <= 0 {
		opts.CommentaryTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:          id,
		commentator: c,
		timeout:     opts.CommentaryTimeout,
		logger:      opts.Logger.With(zap.String("session_id", id)),
		now:         opts.Now,
		hub:         events.NewHub(),
		ctx:         ctx,
		cancel:      cancel,
		updatedAt:   opts.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// Snapshot returns the current state and display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LastActive is the time of the last key press or pick-up line request.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Press applies one keypad label.
func (s *Session) Press(ctx context.Context, key string) (Snapshot, error) {
	return s.PressAll(ctx, []string{key})
}

// PressAll applies keys in order. Every key is validated first; on an
// unknown key nothing is applied.
func (s *Session) PressAll(ctx context.Context, keys []string) (Snapshot, error) {
	actions := make([]calculator.Action, 0, len(keys))
	for _, k := range keys {
		a, err := calculator.ParseKey(k)
		if err != nil {
			return s.Snapshot(), err
		}
		actions = append(actions, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.dispatchLocked(ctx, a)
	}
	return s.snapshotLocked(), nil
}

// Dispatch applies a single action.
func (s *Session) Dispatch(ctx context.Context, a calculator.Action) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchLocked(ctx, a)
	return s.snapshotLocked()
}

func (s *Session) dispatchLocked(ctx context.Context, a calculator.Action) {
	prev := s.state
	next := calculator.Apply(prev, a)

	s.state = next
	s.updatedAt = s.now()
	recordTransition(ctx, a, prev, next)

	s.hub.Publish(events.State, StateEvent{ID: s.id, Action: calculator.Name(a), State: next})

	_, isClear := a.(calculator.Clear)
	if isClear || (prev.Overwrite && !next.Overwrite) {
		// A new entry has started; the old comment no longer applies.
		s.clearDisplayLocked()
	}

	if _, isEval := a.(calculator.Evaluate); isEval && prev.Pending() {
		// The result handed to the provider is computed from the state the
		// user saw when pressing "=", independently of the transition.
		equation := prev.Equation()
		result := calculator.Compute(prev)
		if result == "" {
			return
		}
		s.requestLocked(ctx, "equation", func(ctx context.Context) commentary.Comment {
			return s.commentator.EquationComment(ctx, equation, result)
		})
	}
}

// PickupLine requests a pick-up line for the display. Calculator state is
// untouched.
func (s *Session) PickupLine(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updatedAt = s.now()
	s.requestLocked(ctx, "pickup_line", func(ctx context.Context) commentary.Comment {
		return s.commentator.PickupLine(ctx)
	})
	return s.snapshotLocked()
}

// requestLocked starts fetch on its own goroutine. ctx only links the
// background span to the caller's trace; the request itself lives on the
// session's context so it outlives the HTTP request that triggered it.
func (s *Session) requestLocked(ctx context.Context, kind string, fetch func(context.Context) commentary.Comment) {
	if s.closed || s.commentator == nil {
		return
	}

	s.token++
	token := s.token
	s.display.Thinking = true
	s.publishDisplayLocked()

	link := trace.LinkFromContext(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, span := tracer.Start(s.ctx, "session.commentary."+kind,
			trace.WithLinks(link),
			trace.WithAttributes(
				attribute.String("session.id", s.id),
				attribute.String("commentary.kind", kind),
			),
		)
		defer span.End()

		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		comment := fetch(reqCtx)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		cancel()

		s.mu.Lock()
		defer s.mu.Unlock()

		if token != s.token || s.closed {
			recordCommentary(ctx, kind, "stale", comment.Fallback, elapsed)
			span.SetAttributes(attribute.Bool("commentary.stale", true))
			s.logger.Debug("dropping superseded comment",
				zap.String("kind", kind),
				zap.Uint64("token", token),
				zap.Uint64("latest_token", s.token),
			)
			return
		}

		recordCommentary(ctx, kind, "applied", comment.Fallback, elapsed)
		span.SetAttributes(attribute.Bool("commentary.fallback", comment.Fallback))
		span.SetStatus(codes.Ok, "")

		s.display = Display{Comment: &comment}
		s.publishDisplayLocked()

		s.logger.Info("comment ready",
			zap.String("kind", kind),
			zap.Bool("fallback", comment.Fallback),
			zap.Float64("duration_ms", elapsed),
		)
	}()
}

func (s *Session) clearDisplayLocked() {
	if s.display == (Display{}) {
		return
	}
	s.token++
	s.display = Display{}
	s.publishDisplayLocked()
}

func (s *Session) publishDisplayLocked() {
	s.hub.Publish(events.Comment, CommentEvent{ID: s.id, Display: s.display})
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.id,
		State:     s.state,
		Display:   s.display,
		UpdatedAt: s.updatedAt,
	}
}

// Subscribe returns a channel of state and comment events.
func (s *Session) Subscribe() chan events.Event { return s.hub.Subscribe() }

func (s *Session) Unsubscribe(ch chan events.Event) { s.hub.Unsubscribe(ch) }

// Wait blocks until every outstanding comment request has finished.
func (s *Session) Wait() { s.inflight.Wait() }

// Close cancels outstanding comment requests, waits for them, and closes all
// subscriber channels. Further key presses still apply but start no requests.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.inflight.Wait()
	s.hub.Close()
}
