package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront-labs/storefront-cli/internal/logging"
)

// DefaultRenewalTimeout bounds one renewal call when no timeout is configured
const DefaultRenewalTimeout = 10 * time.Second

// Outcome is what a caller learns when a renewal episode ends
type Outcome int

const (
	// OutcomeRetry means a new credential is in place; replay the request
	OutcomeRetry Outcome = iota + 1
	// OutcomeFail means renewal failed; the session is over
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRetry:
		return "retry"
	case OutcomeFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Renewer exchanges the refresh credential for a new access credential
type Renewer interface {
	Renew(ctx context.Context) error
}

// RenewFunc adapts a function to the Renewer interface
type RenewFunc func(ctx context.Context) error

// Renew calls f(ctx)
func (f RenewFunc) Renew(ctx context.Context) error {
	return f(ctx)
}

// SessionStore is the part of the session the coordinator may touch.
// ForceLogout must be idempotent.
type SessionStore interface {
	ForceLogout()
}

// ReplayFunc re-issues the original request after a successful renewal
type ReplayFunc func(ctx context.Context) ([]byte, error)

// Hooks lets callers observe renewal episodes. All fields are optional.
type Hooks struct {
	// OnRenewalStart fires in the triggering caller before the renewal call
	OnRenewalStart func(trigger *Request)
	// OnRenewalDone fires once per episode with the renewal result
	OnRenewalDone func(err error)
	// OnWaiterReleased fires for each queued caller, in queue order
	OnWaiterReleased func(req *Request, outcome Outcome)
}

type waiter struct {
	req  *Request
	done chan Outcome
}

// Coordinator makes sure at most one renewal call is in flight and fans its
// outcome out to every caller that hit an expired credential meanwhile.
//
// renewing and waiters form one critical section: waiters is empty whenever
// renewing is false.
type Coordinator struct {
	renewer Renewer
	session SessionStore
	timeout time.Duration
	logger  *slog.Logger
	metrics *Metrics
	hooks   Hooks

	mu       sync.Mutex
	renewing bool
	waiters  []*waiter
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithRenewalTimeout bounds each renewal call. A timed-out renewal counts as failed.
func WithRenewalTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCoordinatorLogger sets the logger
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCoordinatorMetrics sets the metrics sink
func WithCoordinatorMetrics(m *Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithHooks installs episode observers
func WithHooks(h Hooks) CoordinatorOption {
	return func(c *Coordinator) {
		c.hooks = h
	}
}

// NewCoordinator creates a coordinator in the idle state
func NewCoordinator(renewer Renewer, session SessionStore, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		renewer: renewer,
		session: session,
		timeout: DefaultRenewalTimeout,
		logger:  logging.NewNop(),
		metrics: NewMetrics(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleUnauthorized is called by the dispatcher when req came back 401 and
// has not been replayed yet. It either starts a renewal or joins the one in
// flight, then replays req once on success. On failure it returns
// ErrAuthExpired.
func (c *Coordinator) HandleUnauthorized(ctx context.Context, req *Request, replay ReplayFunc) ([]byte, error) {
	outcome, err := c.await(ctx, req)
	if err != nil {
		return nil, &RequestFailedError{Err: err}
	}
	if outcome != OutcomeRetry {
		return nil, ErrAuthExpired
	}
	return replay(ctx)
}

// Renewing reports whether an episode is in flight
func (c *Coordinator) Renewing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renewing
}

// Pending returns the number of callers queued on the in-flight renewal
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *Coordinator) await(ctx context.Context, req *Request) (Outcome, error) {
	c.mu.Lock()
	req.markRetried()

	if c.renewing {
		w := &waiter{req: req, done: make(chan Outcome, 1)}
		c.waiters = append(c.waiters, w)
		queued := len(c.waiters)
		c.mu.Unlock()

		c.metrics.Waiters.Inc()
		c.logger.Debug("waiting on credential renewal", "request_id", req.ID, "path", req.Path, "queued", queued)

		select {
		case outcome := <-w.done:
			return outcome, nil
		case <-ctx.Done():
			// done is buffered, so the release loop never blocks on us.
			return 0, ctx.Err()
		}
	}

	c.renewing = true
	c.waiters = nil
	c.mu.Unlock()

	return c.renew(ctx, req), nil
}

func (c *Coordinator) renew(ctx context.Context, trigger *Request) Outcome {
	if c.hooks.OnRenewalStart != nil {
		c.hooks.OnRenewalStart(trigger)
	}
	c.logger.Debug("renewing access credential", "request_id", trigger.ID, "path", trigger.Path)

	// The renewal serves every queued caller, so the trigger's cancellation
	// must not abort it.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	err := c.renewer.Renew(rctx)
	cancel()

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.renewing = false
	c.mu.Unlock()

	outcome := OutcomeRetry
	if err != nil {
		outcome = OutcomeFail
		c.metrics.Renewals.WithLabelValues(renewalFailed).Inc()
		c.logger.Warn("credential renewal failed, logging out", "error", err, "waiters", len(waiters))
		c.session.ForceLogout()
	} else {
		c.metrics.Renewals.WithLabelValues(renewalSucceeded).Inc()
		c.logger.Info("access credential renewed", "waiters", len(waiters))
	}

	if c.hooks.OnRenewalDone != nil {
		c.hooks.OnRenewalDone(err)
	}

	for _, w := range waiters {
		w.done <- outcome
		if c.hooks.OnWaiterReleased != nil {
			c.hooks.OnWaiterReleased(w.req, outcome)
		}
	}

	return outcome
}
