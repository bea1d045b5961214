package routing

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"metroview.org/internal/logging"
	"metroview.org/internal/models"
)

// ErrIncompleteSelection is returned when a shortest path is requested without
// two distinct stations.
var ErrIncompleteSelection = errors.New("departure and destination must both be selected and differ")

// Kind tells which query produced an Outcome.
type Kind int

const (
	ShortestPath Kind = iota
	SpanningForest
)

func (k Kind) String() string {
	if k == SpanningForest {
		return "spanning_forest"
	}
	return "shortest_path"
}

// Outcome is a settled route query.
type Outcome struct {
	Kind  Kind
	Token uint64
	Data  *models.RouteData
}

// Poster schedules a function on the owner's event loop. It reports false when
// the loop no longer accepts work.
type Poster interface {
	Post(fn func()) bool
}

// Orchestrator issues route queries in the background and hands the latest
// successful outcome to apply on the poster's loop.
type Orchestrator struct {
	service Service
	poster  Poster
	apply   func(Outcome)
	logger  *slog.Logger
	timeout time.Duration

	latest   atomic.Uint64
	inFlight sync.WaitGroup
}

type Option func(*Orchestrator)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewOrchestrator(service Service, poster Poster, apply func(Outcome), opts ...Option) *Orchestrator {
	o := &Orchestrator{
		service: service,
		poster:  poster,
		apply:   apply,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(slog.String("component", "route_orchestrator"))
	return o
}

// RequestShortestPath starts a shortest path query between two distinct
// stations and returns without waiting for it.
func (o *Orchestrator) RequestShortestPath(ctx context.Context, departure, destination models.StationID) error {
	if departure == "" || destination == "" || departure == destination {
		logging.LogError(o.logger, "shortest path request rejected", ErrIncompleteSelection,
			slog.String("departure", string(departure)),
			slog.String("destination", string(destination)))
		return ErrIncompleteSelection
	}

	o.start(ctx, ShortestPath, func(ctx context.Context) (*models.RouteData, error) {
		return o.service.ShortestPath(ctx, departure, destination)
	})
	return nil
}

// RequestSpanningForest starts a spanning forest query and returns without
// waiting for it.
func (o *Orchestrator) RequestSpanningForest(ctx context.Context) {
	o.start(ctx, SpanningForest, o.service.SpanningForest)
}

// Latest returns the token of the most recently issued request.
func (o *Orchestrator) Latest() uint64 {
	return o.latest.Load()
}

// Wait blocks until every issued request has been applied or discarded.
func (o *Orchestrator) Wait() {
	o.inFlight.Wait()
}

func (o *Orchestrator) start(ctx context.Context, kind Kind, call func(context.Context) (*models.RouteData, error)) {
	token := o.latest.Add(1)
	o.inFlight.Add(1)

	// The caller's context usually belongs to an HTTP request that ends
	// before the route service answers.
	ctx = context.WithoutCancel(ctx)

	go func() {
		reqCtx := ctx
		if o.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}

		started := time.Now()
		data, err := call(reqCtx)
		logger := o.logger.With(
			slog.String("kind", kind.String()),
			slog.Uint64("token", token),
			slog.Duration("duration", time.Since(started)))

		if err != nil {
			logging.LogError(logger, "route query failed", err)
			o.inFlight.Done()
			return
		}

		settle := func() {
			defer o.inFlight.Done()
			if current := o.latest.Load(); current != token {
				logger.Info("discarding stale route response", slog.Uint64("latest", current))
				return
			}
			logging.LogOperation(logger, "route_query_applied",
				slog.Int("pairs", len(data.Pairs)))
			if o.apply != nil {
				o.apply(Outcome{Kind: kind, Token: token, Data: data})
			}
		}

		if !o.poster.Post(settle) {
			logger.Warn("event loop closed, dropping route response")
			o.inFlight.Done()
		}
	}()
}
