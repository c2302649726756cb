// Package session keeps the live state of one package-detail view.
//
// A Session funnels three asynchronous inputs through a single goroutine:
// device location fixes, package snapshots, and transit record or movement
// changes. Every input is applied in arrival order and followed by a fresh
// evaluation of the caller's ActionEligibility and the package RouteProgress.
// Pickup and dropoff requests are validated against that state before the
// gateway is called, and at most one of them is outstanding at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"
	"relay/internal/core/ports"
)

var (
	// ErrPreconditionFailed rejects a request locally; the gateway is never called.
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrRequestInFlight    = errors.New("a request for this package is already in flight")
	ErrNotRunning         = errors.New("session is not running")
)

const inboxSize = 64

const (
	stateNew int32 = iota
	stateRunning
	stateStopped
)

// View is an immutable picture of the session after the last applied input.
type View struct {
	Package     *parcel.Package
	Records     []*transit.Record
	Location    *kernel.GeoPoint
	Eligibility services.ActionEligibility
	Progress    *services.RouteProgress
	InFlight    bool
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithUpdateHandler registers fn to receive every new View. fn runs on the
// session goroutine and must not call back into the session synchronously.
func WithUpdateHandler(fn func(View)) Option {
	return func(s *Session) { s.onUpdate = fn }
}

// Session owns the derived state of one package for one user.
type Session struct {
	packageID kernel.UUID
	userID    kernel.UUID
	source    ports.LocationSource
	gateway   ports.RelayGateway
	sync      services.TransitRecordSynchronizer
	logger    *slog.Logger
	now       func() time.Time
	onUpdate  func(View)

	status atomic.Int32
	inbox  chan func(*state)
	done   chan struct{}
	wg     sync.WaitGroup
}

// state is only touched by the session goroutine.
type state struct {
	pkg      *parcel.Package
	records  []*transit.Record
	location *kernel.GeoPoint
	inFlight bool
	view     View

	// version is the highest package version applied so far. It survives a
	// malformed snapshot so a late older one cannot roll the view back.
	version int64
}

func New(
	packageID, userID kernel.UUID,
	source ports.LocationSource,
	gateway ports.RelayGateway,
	opts ...Option,
) *Session {
	s := &Session{
		packageID: packageID,
		userID:    userID,
		source:    source,
		gateway:   gateway,
		sync:      services.NewTransitRecordSynchronizer(),
		logger:    slog.Default(),
		now:       time.Now,
		inbox:     make(chan func(*state), inboxSize),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session", "package_id", packageID.String())
	return s
}

func (s *Session) PackageID() kernel.UUID {
	return s.packageID
}

// Start runs the session goroutine and starts the location source.
func (s *Session) Start(ctx context.Context) error {
	if !s.status.CompareAndSwap(stateNew, stateRunning) {
		return fmt.Errorf("%w: session can only be started once", ErrNotRunning)
	}

	s.wg.Add(1)
	go s.run()

	if err := s.source.Start(ctx, s.applyFix); err != nil {
		s.Stop()
		return fmt.Errorf("failed to start location source: %w", err)
	}

	s.logger.Info("session started")
	return nil
}

// Stop stops the location source and the session goroutine. Inputs arriving
// afterwards are dropped. Stop is idempotent.
func (s *Session) Stop() {
	if !s.status.CompareAndSwap(stateRunning, stateStopped) {
		return
	}
	s.source.Stop()
	close(s.done)
	s.wg.Wait()
	s.logger.Info("session stopped")
}

func (s *Session) run() {
	defer s.wg.Done()

	st := &state{}
	s.recompute(st)

	for {
		select {
		case <-s.done:
			return
		case op := <-s.inbox:
			op(st)
		}
	}
}

func (s *Session) post(op func(*state)) error {
	if s.status.Load() != stateRunning {
		return ErrNotRunning
	}
	select {
	case s.inbox <- op:
		return nil
	case <-s.done:
		return ErrNotRunning
	}
}

// call runs op on the session goroutine and waits for its result.
func call[T any](s *Session, op func(*state) T) (T, error) {
	reply := make(chan T, 1)
	if err := s.post(func(st *state) { reply <- op(st) }); err != nil {
		var zero T
		return zero, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		var zero T
		return zero, ErrNotRunning
	}
}

// View returns the latest view.
func (s *Session) View() (View, error) {
	return call(s, func(st *state) View { return st.view })
}

func (s *Session) recompute(st *state) {
	view := View{
		Package:     st.pkg,
		Records:     st.records,
		Location:    st.location,
		Eligibility: services.EligibilityFor(st.pkg, st.records, s.userID, st.location),
		InFlight:    st.inFlight,
	}
	if st.pkg != nil {
		progress := services.CalculateRouteProgress(st.pkg, s.now())
		view.Progress = &progress
	}

	st.view = view
	if s.onUpdate != nil {
		s.onUpdate(view)
	}
}
