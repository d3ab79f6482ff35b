package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/launchpad/internal/authapi"
	"github.com/nfrund/launchpad/internal/flow"
	"github.com/nfrund/launchpad/internal/middleware"
	"github.com/nfrund/launchpad/internal/rendering"
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/internal/view"
	"github.com/nfrund/launchpad/internal/view/dto/auth"
	"github.com/nfrund/launchpad/web/src/templates/pages"
	g "maragu.dev/gomponents"
)

// How long a poll waits before answering. Verification polls re-arm themselves on timeout.
const (
	verifyPollTimeout = 25 * time.Second
	signupPollSlack   = 10 * time.Second
)

// AuthAPI is the remote account service as the web layer uses it.
type AuthAPI interface {
	flow.LoginAPI
	flow.SignupAPI
	flow.VerifyAPI
	Logout(ctx context.Context) (*authapi.LogoutResponse, error)
}

// AuthHandler serves the login, signup, verify-email and logout screens. Each rendered form is
// backed by a controller kept in Mounts until the browser navigates away or it goes idle.
type AuthHandler struct {
	api         AuthAPI
	mounts      *Mounts
	renderer    rendering.Renderer
	signupDelay time.Duration
	flowOpts    []flow.Option
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(api AuthAPI, m *Mounts, r rendering.Renderer, signupDelay time.Duration, opts ...flow.Option) *AuthHandler {
	if signupDelay <= 0 {
		signupDelay = flow.DefaultSignupRedirectDelay
	}
	return &AuthHandler{
		api:         api,
		mounts:      m,
		renderer:    r,
		signupDelay: signupDelay,
		flowOpts:    append(slices.Clone(opts), flow.WithSignupRedirectDelay(signupDelay)),
	}
}

// --- Login ---

func (h *AuthHandler) newLoginMount() (*loginMount, string) {
	nav := newPageNavigator()
	m := &loginMount{ctrl: flow.NewLoginController(h.api, nav, h.flowOpts...), nav: nav}
	return m, h.mounts.login.Put(m)
}

// mountLogin returns the mount for formID, or a fresh one when it has expired.
func (h *AuthHandler) mountLogin(formID string) (m *loginMount, id string, fresh bool) {
	if m, ok := h.mounts.login.Get(formID); ok {
		return m, formID, false
	}
	m, id = h.newLoginMount()
	return m, id, true
}

// LoginGet renders the login page (GET /login) with a fresh form instance.
func (h *AuthHandler) LoginGet(c echo.Context) error {
	_, id := h.newLoginMount()
	return renderPage(h.renderer, c, http.StatusOK, "Login", func(st theme.Styles) g.Node {
		return pages.Login(auth.LoginData{FormID: id}, st)
	})
}

// LoginPost handles the login form submission (POST /login).
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	m, id, fresh := h.mountLogin(req.FormID)
	m.ctrl.UpdateField(flow.FieldEmail, req.Email)
	m.ctrl.UpdateField(flow.FieldPassword, req.Password)

	if err := c.Validate(&req); err != nil {
		return h.loginResult(c, id, fresh, req.Email, validationMessage(err))
	}

	if err := m.ctrl.Submit(c.Request().Context()); err != nil {
		return h.rejected(c, err)
	}
	if route, ok := m.nav.Pending(); ok {
		h.mounts.login.Delete(id)
		return navigate(c, route)
	}
	st := m.ctrl.State()
	return h.loginResult(c, id, fresh, st.Field(flow.FieldEmail), st.Error)
}

// loginResult shows the outcome of a submission that stayed on the login screen. htmx requests
// only get the banner, so the browser keeps what the user typed.
func (h *AuthHandler) loginResult(c echo.Context, id string, fresh bool, email, errMsg string) error {
	if isHTMX(c) {
		return renderFragment(h.renderer, c, func(st theme.Styles) g.Node {
			return g.Group{
				pages.LoginBanner(errMsg, st),
				g.If(fresh, pages.FormIDInput(pages.LoginFormIDID, id, true)),
			}
		})
	}
	return renderPage(h.renderer, c, http.StatusOK, "Login", func(st theme.Styles) g.Node {
		return pages.Login(auth.LoginData{FormID: id, Email: email, Error: errMsg}, st)
	})
}

// --- Signup ---

func (h *AuthHandler) newSignupMount() (*signupMount, string) {
	nav := newPageNavigator()
	m := &signupMount{ctrl: flow.NewSignupController(h.api, nav, h.flowOpts...), nav: nav}
	return m, h.mounts.signup.Put(m)
}

func (h *AuthHandler) mountSignup(formID string) (m *signupMount, id string, fresh bool) {
	if m, ok := h.mounts.signup.Get(formID); ok {
		return m, formID, false
	}
	m, id = h.newSignupMount()
	return m, id, true
}

// SignupGet renders the signup page (GET /signup) with a fresh form instance.
func (h *AuthHandler) SignupGet(c echo.Context) error {
	_, id := h.newSignupMount()
	return renderPage(h.renderer, c, http.StatusOK, "Sign up", func(st theme.Styles) g.Node {
		return pages.Signup(auth.SignupData{FormID: id}, st)
	})
}

// SignupPost handles the signup form submission (POST /signup). On success the banner carries a
// poll to SignupNext, which answers once the delayed redirect fires.
func (h *AuthHandler) SignupPost(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	m, id, fresh := h.mountSignup(req.FormID)
	m.ctrl.UpdateField(flow.FieldEmail, req.Email)
	m.ctrl.UpdateField(flow.FieldPassword, req.Password)
	m.ctrl.UpdateField(flow.FieldConfirmPassword, req.ConfirmPassword)

	if err := c.Validate(&req); err != nil {
		return h.signupResult(c, fresh, auth.SignupData{FormID: id, Email: req.Email, Error: validationMessage(err)})
	}

	if err := m.ctrl.Submit(c.Request().Context()); err != nil {
		return h.rejected(c, err)
	}
	st := m.ctrl.State()
	data := auth.SignupData{
		FormID:  id,
		Email:   st.Field(flow.FieldEmail),
		Error:   st.Error,
		Success: st.Success,
	}
	if m.ctrl.RedirectPending() {
		if isHTMX(c) {
			data.NextURL = "/signup/next?" + url.Values{"form_id": {id}}.Encode()
		} else {
			redirect := flow.AfterSignup(h.signupDelay)
			secs := int(math.Ceil(redirect.Delay.Seconds()))
			c.Response().Header().Set("Refresh", fmt.Sprintf("%d; url=%s", secs, redirect.To))
		}
	}
	return h.signupResult(c, fresh, data)
}

func (h *AuthHandler) signupResult(c echo.Context, fresh bool, data auth.SignupData) error {
	if isHTMX(c) {
		return renderFragment(h.renderer, c, func(st theme.Styles) g.Node {
			return g.Group{
				pages.SignupBanner(data, st),
				g.If(fresh, pages.FormIDInput(pages.SignupFormIDID, data.FormID, true)),
			}
		})
	}
	return renderPage(h.renderer, c, http.StatusOK, "Sign up", func(st theme.Styles) g.Node {
		return pages.Signup(data, st)
	})
}

// SignupNext waits for the signup controller's delayed navigation (GET /signup/next).
// It answers 204 without a redirect when the wait ends first, e.g. because a later submission
// cancelled the redirect.
func (h *AuthHandler) SignupNext(c echo.Context) error {
	id := c.QueryParam("form_id")
	m, ok := h.mounts.signup.Get(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Signup form expired")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.signupDelay+signupPollSlack)
	defer cancel()
	route, err := m.nav.Wait(ctx)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Debug("Signup redirect wait ended", "form_id", id, "error", err)
		return c.NoContent(http.StatusNoContent)
	}
	h.mounts.signup.Delete(id)
	return navigate(c, route)
}

// --- Verify email ---

// VerifyGet mounts a verification for the token in the URL (GET /verify-email) and renders its
// current state. Every visit starts a fresh machine.
func (h *AuthHandler) VerifyGet(c echo.Context) error {
	v := flow.NewVerification(h.api, c.Request().URL, h.flowOpts...)
	if flow.TokenFromLocation(c.Request().URL) == "" {
		// No request to wait for: render the error directly.
		defer v.Dispose()
		v.Run(c.Request().Context())
		return renderPage(h.renderer, c, http.StatusOK, "Verify email", func(st theme.Styles) g.Node {
			return pages.Verify(verifyData(v), st)
		})
	}

	id := h.mounts.verify.Put(v)
	go v.Run(context.WithoutCancel(c.Request().Context()))

	data := auth.VerifyData{Status: flow.StatusVerifying.String()}
	select {
	case <-v.Done():
		h.mounts.verify.Delete(id)
		data = verifyData(v)
	default:
		data.StatusURL = verifyStatusURL(id)
	}
	return renderPage(h.renderer, c, http.StatusOK, "Verify email", func(st theme.Styles) g.Node {
		return pages.Verify(data, st)
	})
}

// VerifyStatus waits for the verification to settle (GET /verify-email/status) and renders the
// terminal state. A wait that times out renders Verifying again, which polls once more.
func (h *AuthHandler) VerifyStatus(c echo.Context) error {
	id := c.QueryParam("id")
	v, ok := h.mounts.verify.Get(id)
	if !ok {
		return h.verifyExpired(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), verifyPollTimeout)
	defer cancel()
	res, err := v.Wait(ctx)
	if err != nil {
		return renderFragment(h.renderer, c, func(st theme.Styles) g.Node {
			return pages.VerifyStatus(auth.VerifyData{Status: flow.StatusVerifying.String(), StatusURL: verifyStatusURL(id)}, st)
		})
	}
	h.mounts.verify.Delete(id)
	if !res.Status.Terminal() {
		// Disposed before settling, e.g. evicted while idle.
		return h.verifyExpired(c)
	}
	return renderFragment(h.renderer, c, func(st theme.Styles) g.Node {
		return pages.VerifyStatus(verifyData(v), st)
	})
}

// verifyExpired answers a poll whose verification no longer exists. htmx only swaps 2xx
// responses, so those get a 200.
func (h *AuthHandler) verifyExpired(c echo.Context) error {
	status := http.StatusNotFound
	if isHTMX(c) {
		status = http.StatusOK
	}
	st := theme.FromContext(c.Request().Context()).Styles()
	return h.renderer.RenderPage(c, status,
		pages.NotFoundFragment(pages.VerifyStatusID, "This verification session has expired.", flow.RouteSignup, st))
}

func verifyStatusURL(id string) string {
	return "/verify-email/status?" + url.Values{"id": {id}}.Encode()
}

// verifyData maps a settled verification onto the view, including its call to action.
func verifyData(v *flow.Verification) auth.VerifyData {
	res := v.Result()
	data := auth.VerifyData{Status: res.Status.String(), Message: res.Message}
	if action, ok := v.Action(); ok {
		data.ActionHref = action.To
		data.ActionLabel = "Go to Login"
		if action.To == flow.RouteSignup {
			data.ActionLabel = "Back to Sign Up"
		}
	}
	return data
}

// --- Logout ---

// LogoutPost ends the remote session (POST /logout) and returns to the login screen with the
// outcome flashed.
func (h *AuthHandler) LogoutPost(c echo.Context) error {
	resp, err := h.api.Logout(c.Request().Context())
	if err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Logout failed", "error", err)
		view.SetFlashError(c, authapi.MessageOf(err, authapi.OpLogout))
	} else {
		msg := resp.Message
		if msg == "" {
			msg = "You have been logged out."
		}
		view.SetFlashSuccess(c, msg)
	}
	return navigate(c, flow.RouteLogin)
}

// rejected maps a submission the controller refused to an HTTP error.
func (h *AuthHandler) rejected(c echo.Context, err error) error {
	switch {
	case errors.Is(err, flow.ErrSubmitInFlight):
		return echo.NewHTTPError(http.StatusConflict, "A submission is already in progress")
	case errors.Is(err, flow.ErrDisposed):
		return echo.NewHTTPError(http.StatusGone, "This form has expired, please reload the page")
	default:
		return fmt.Errorf("submit: %w", err)
	}
}
