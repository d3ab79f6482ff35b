package handlers

import (
	"context"
	"time"

	"github.com/nfrund/launchpad/internal/flow"
	"github.com/nfrund/launchpad/internal/mounts"
	"golang.org/x/sync/errgroup"
)

type loginMount struct {
	ctrl *flow.LoginController
	nav  *pageNavigator
}

func (m *loginMount) Dispose() { m.ctrl.Dispose() }

type signupMount struct {
	ctrl *flow.SignupController
	nav  *pageNavigator
}

func (m *signupMount) Dispose() { m.ctrl.Dispose() }

// Mounts holds the live screen instances of every browser tab currently showing a form or a
// verification.
type Mounts struct {
	login  *mounts.Store[*loginMount]
	signup *mounts.Store[*signupMount]
	verify *mounts.Store[*flow.Verification]
}

// NewMounts creates the stores; instances idle for longer than ttl are disposed.
func NewMounts(ttl time.Duration, opts ...mounts.Option) *Mounts {
	return &Mounts{
		login:  mounts.New[*loginMount]("login", ttl, opts...),
		signup: mounts.New[*signupMount]("signup", ttl, opts...),
		verify: mounts.New[*flow.Verification]("verify", ttl, opts...),
	}
}

// Run sweeps all stores every interval until ctx is cancelled.
func (m *Mounts) Run(ctx context.Context, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.login.Run(ctx, interval) })
	g.Go(func() error { return m.signup.Run(ctx, interval) })
	g.Go(func() error { return m.verify.Run(ctx, interval) })
	return g.Wait()
}

// Len returns the number of live instances across all stores.
func (m *Mounts) Len() int {
	return m.login.Len() + m.signup.Len() + m.verify.Len()
}

// Close disposes every instance: pending redirects are stopped and in-flight requests cancelled.
func (m *Mounts) Close() {
	m.login.Close()
	m.signup.Close()
	m.verify.Close()
}
