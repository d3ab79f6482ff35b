package flow

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/nfrund/launchpad/internal/authapi"
)

// SignupAPI is the part of the remote service the signup form needs.
type SignupAPI interface {
	Signup(ctx context.Context, email, password string) (*authapi.SignupResponse, error)
}

// SignupController drives one signup form instance.
type SignupController struct {
	api  SignupAPI
	nav  Navigator
	opts options
	life lifecycle

	mu       sync.Mutex
	state    FormState
	disposed bool
	redirect clockwork.Timer
	gen      uint64 // identifies the scheduled redirect
}

// NewSignupController returns a controller with empty fields.
func NewSignupController(api SignupAPI, nav Navigator, opts ...Option) *SignupController {
	return &SignupController{
		api:   api,
		nav:   nav,
		opts:  buildOptions(opts),
		life:  newLifecycle(),
		state: newFormState(),
	}
}

// UpdateField sets a field value. No validation happens here.
func (c *SignupController) UpdateField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.state.Fields[name] = value
}

// State returns a copy of the current form state.
func (c *SignupController) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// RedirectPending reports whether a delayed navigation to the login screen is scheduled.
func (c *SignupController) RedirectPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect != nil
}

// Submit creates the account. Mismatched passwords fail locally without a request. On success the
// server message becomes the success banner and navigation to the login screen is scheduled after
// the signup delay. A new submission cancels a redirect still pending from an earlier one.
// confirmPassword is compared here and never sent.
func (c *SignupController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.state.Submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.state.Error, c.state.Success = "", ""
	c.stopRedirectLocked()

	email := c.state.Fields[FieldEmail]
	password := c.state.Fields[FieldPassword]
	if password != c.state.Fields[FieldConfirmPassword] {
		c.state.Error = MsgPasswordMismatch
		c.mu.Unlock()
		return nil
	}
	c.state.Submitting = true
	c.mu.Unlock()

	defer c.release()

	reqCtx, done := c.life.bind(ctx)
	resp, err := c.api.Signup(reqCtx, email, password)
	done()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}

	if err != nil {
		msg := authapi.MessageOf(err, authapi.OpSignup)
		c.state.Error = msg
		c.mu.Unlock()
		c.opts.logFailure(ctx, "Signup failed", err, "email", email)
		c.opts.record(ctx, Outcome{Flow: "signup", Email: email, Message: msg})
		return nil
	}

	c.state.Success = resp.Message
	redirect := AfterSignup(c.opts.signupDelay)
	c.gen++
	gen := c.gen
	c.redirect = c.opts.clock.AfterFunc(redirect.Delay, func() { c.fireRedirect(gen, redirect.To) })
	c.mu.Unlock()

	c.opts.record(ctx, Outcome{Flow: "signup", Succeeded: true, Email: email, Message: resp.Message})
	return nil
}

func (c *SignupController) fireRedirect(gen uint64, route string) {
	c.mu.Lock()
	if c.disposed || c.redirect == nil || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.redirect = nil
	c.nav.Navigate(route)
	c.mu.Unlock()
}

func (c *SignupController) stopRedirectLocked() {
	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
}

func (c *SignupController) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.state.Submitting = false
	}
}

// Dispose cancels the pending redirect and any in-flight request. No state changes or
// navigation happen afterwards. It is safe to call more than once.
func (c *SignupController) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.stopRedirectLocked()
	c.mu.Unlock()
	c.life.cancel()
}
