package auth

import (
	"context"
	"errors"
	"log"
	"sync"

	"lemonspace/internal/model"
)

// ErrNoSession is returned by session checks when the caller has no session at all.
var ErrNoSession = errors.New("no session")

type GateState int

const (
	GateLoading GateState = iota
	GateAuthenticated
	GateUnauthenticated
)

func (s GateState) String() string {
	switch s {
	case GateAuthenticated:
		return "authenticated"
	case GateUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// SessionCheck asks the account API for the principal of the current session.
type SessionCheck func(ctx context.Context) (*model.Principal, error)

// Gate decides once per mount whether its content may be shown. It starts in GateLoading
// and settles on GateAuthenticated or GateUnauthenticated when the session check returns.
// A result that arrives after Unmount is dropped.
type Gate struct {
	check  SessionCheck
	logger *log.Logger

	mu        sync.Mutex
	state     GateState
	principal *model.Principal
	mounted   bool
	cancel    context.CancelFunc
	done      chan struct{}
	closeDone sync.Once
}

func NewGate(check SessionCheck, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.Default()
	}
	return &Gate{
		check:  check,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Mount starts the session check. Calling it again on the same gate does nothing.
func (g *Gate) Mount(ctx context.Context) {
	g.mu.Lock()
	if g.mounted || g.cancel != nil {
		g.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	g.mounted = true
	g.cancel = cancel
	g.mu.Unlock()

	go func() {
		p, err := g.check(ctx)
		g.resolve(p, err)
	}()
}

func (g *Gate) resolve(p *model.Principal, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.mounted {
		return
	}
	if err != nil || p == nil {
		if err != nil && !errors.Is(err, ErrNoSession) {
			g.logger.Printf("⚠️  session check failed: %v", err)
		}
		g.state = GateUnauthenticated
	} else {
		g.state = GateAuthenticated
		g.principal = p
	}
	g.closeDone.Do(func() { close(g.done) })
}

// Unmount cancels a pending check and discards its result.
func (g *Gate) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.mounted = false
	if g.cancel != nil {
		g.cancel()
	}
	g.closeDone.Do(func() { close(g.done) })
}

// Done is closed once the gate leaves GateLoading or is unmounted.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

func (g *Gate) State() (GateState, *model.Principal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.principal
}
