package flow

import (
	"context"
	"sync"

	"github.com/nfrund/launchpad/internal/authapi"
)

// LoginAPI is the part of the remote service the login form needs.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (*authapi.LoginResponse, error)
}

// LoginController drives one login form instance.
type LoginController struct {
	api  LoginAPI
	nav  Navigator
	opts options
	life lifecycle

	mu       sync.Mutex
	state    FormState
	disposed bool
}

// NewLoginController returns a controller with empty fields.
func NewLoginController(api LoginAPI, nav Navigator, opts ...Option) *LoginController {
	return &LoginController{
		api:   api,
		nav:   nav,
		opts:  buildOptions(opts),
		life:  newLifecycle(),
		state: newFormState(),
	}
}

// UpdateField sets a field value. No validation happens here.
func (c *LoginController) UpdateField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.state.Fields[name] = value
}

// State returns a copy of the current form state.
func (c *LoginController) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Submit sends the credentials. An acknowledged login navigates home; any failure becomes the
// error banner and the fields are kept for a retry. The returned error is only non-nil when the
// submission was rejected (ErrSubmitInFlight, ErrDisposed), never for an API failure.
func (c *LoginController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.state.Submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.state.Submitting = true
	c.state.Error, c.state.Success = "", ""
	email, password := c.state.Fields[FieldEmail], c.state.Fields[FieldPassword]
	c.mu.Unlock()

	defer c.release()

	reqCtx, done := c.life.bind(ctx)
	resp, err := c.api.Login(reqCtx, email, password)
	done()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if err != nil {
		msg := authapi.MessageOf(err, authapi.OpLogin)
		c.state.Error = msg
		c.mu.Unlock()
		c.opts.logFailure(ctx, "Login failed", err, "email", email)
		c.opts.record(ctx, Outcome{Flow: "login", Email: email, Message: msg})
		return nil
	}
	if !resp.Acknowledged() {
		c.mu.Unlock()
		c.opts.logger.Warn("Login response carried no user, staying on the form", "email", email)
		return nil
	}
	// Navigate under the lock: nothing navigates once Dispose has returned.
	c.nav.Navigate(AfterLogin().To)
	c.mu.Unlock()

	c.opts.record(ctx, Outcome{Flow: "login", Succeeded: true, Email: email, Message: resp.Message})
	return nil
}

// release clears the submitting gate once the request has settled.
func (c *LoginController) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.state.Submitting = false
	}
}

// Dispose detaches the controller: an in-flight request is cancelled and its result dropped.
// It is safe to call more than once.
func (c *LoginController) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()
	c.life.cancel()
}
