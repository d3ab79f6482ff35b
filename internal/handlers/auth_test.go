package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/launchpad/internal/authapi"
	"github.com/nfrund/launchpad/internal/flow"
	"github.com/nfrund/launchpad/internal/rendering"
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// fakeAuthAPI answers like the remote service. A non-nil gate holds VerifyEmail until closed.
type fakeAuthAPI struct {
	calls atomic.Int32
	gate  chan struct{}

	loginErr   error
	signupErr  error
	verifyErr  error
	logoutErr  error
	lastSignup url.Values

	mu sync.Mutex
}

func (f *fakeAuthAPI) Login(_ context.Context, email, _ string) (*authapi.LoginResponse, error) {
	f.calls.Add(1)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authapi.LoginResponse{Message: "Login successful", User: &authapi.User{ID: 1, Email: email}}, nil
}

func (f *fakeAuthAPI) Signup(_ context.Context, email, password string) (*authapi.SignupResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastSignup = url.Values{"email": {email}, "password": {password}}
	f.mu.Unlock()
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &authapi.SignupResponse{Message: "User created successfully. Please check your email to verify your account."}, nil
}

func (f *fakeAuthAPI) VerifyEmail(ctx context.Context, _ string) (*authapi.VerifyResponse, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &authapi.VerifyResponse{Message: "Email verified successfully."}, nil
}

func (f *fakeAuthAPI) Logout(context.Context) (*authapi.LogoutResponse, error) {
	f.calls.Add(1)
	if f.logoutErr != nil {
		return nil, f.logoutErr
	}
	return &authapi.LogoutResponse{Message: "Logged out successfully"}, nil
}

type testEnv struct {
	e      *echo.Echo
	api    *fakeAuthAPI
	mounts *Mounts
	clock  *clockwork.FakeClock
}

func setupAuthTest(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		e:      echo.New(),
		api:    &fakeAuthAPI{},
		mounts: NewMounts(time.Minute),
		clock:  clockwork.NewFakeClock(),
	}
	t.Cleanup(env.mounts.Close)

	h := NewAuthHandler(env.api, env.mounts, rendering.NewNodeRenderer(), flow.DefaultSignupRedirectDelay,
		flow.WithClock(env.clock))

	e := env.e
	e.Validator = NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(theme.Middleware(theme.Light))
	e.GET("/login", h.LoginGet)
	e.POST("/login", h.LoginPost)
	e.GET("/signup", h.SignupGet)
	e.POST("/signup", h.SignupPost)
	e.GET("/signup/next", h.SignupNext)
	e.GET("/verify-email", h.VerifyGet)
	e.GET("/verify-email/status", h.VerifyStatus)
	e.POST("/logout", h.LogoutPost)
	return env
}

func (env *testEnv) do(method, target string, form url.Values, htmx bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set(headerHXRequest, "true")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

var (
	formIDPattern    = regexp.MustCompile(`name="form_id" value="([^"]+)"`)
	statusURLPattern = regexp.MustCompile(`hx-get="/verify-email/status\?id=([^"]+)"`)
)

func formID(t *testing.T, body string) string {
	t.Helper()
	m := formIDPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "page must carry a form_id")
	return m[1]
}

func (env *testEnv) openForm(t *testing.T, path string) string {
	t.Helper()
	rec := env.do(http.MethodGet, path, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	return formID(t, rec.Body.String())
}

func loginForm(id, email, password string) url.Values {
	return url.Values{"form_id": {id}, "email": {email}, "password": {password}}
}

func signupForm(id, email, password, confirm string) url.Values {
	return url.Values{"form_id": {id}, "email": {email}, "password": {password}, "confirmPassword": {confirm}}
}

func TestLoginGet(t *testing.T) {
	env := setupAuthTest(t)

	rec := env.do(http.MethodGet, "/login", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `hx-post="/login"`)
	assert.Contains(t, body, `id="login-banner"`)
	assert.NotEmpty(t, formID(t, body))
	assert.Equal(t, 1, env.mounts.Len())
}

func TestLoginPost(t *testing.T) {
	t.Run("htmx success redirects home", func(t *testing.T) {
		env := setupAuthTest(t)
		id := env.openForm(t, "/login")

		rec := env.do(http.MethodPost, "/login", loginForm(id, "ada@example.com", "secret"), true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(headerHXRedirect))
		assert.Zero(t, env.mounts.Len(), "the form instance is released after navigating away")
	})

	t.Run("plain success redirects home", func(t *testing.T) {
		env := setupAuthTest(t)
		id := env.openForm(t, "/login")

		rec := env.do(http.MethodPost, "/login", loginForm(id, "ada@example.com", "secret"), false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("htmx failure swaps only the banner", func(t *testing.T) {
		env := setupAuthTest(t)
		env.api.loginErr = &authapi.Error{Op: authapi.OpLogin, Status: 400, Message: "Invalid credentials"}
		id := env.openForm(t, "/login")

		rec := env.do(http.MethodPost, "/login", loginForm(id, "ada@example.com", "wrong"), true)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="login-banner"`)
		assert.Contains(t, body, "Invalid credentials")
		assert.NotContains(t, body, "<form")
		assert.NotContains(t, body, "hx-swap-oob")
		assert.Empty(t, rec.Header().Get(headerHXRedirect))
	})

	t.Run("plain failure keeps the email but not the password", func(t *testing.T) {
		env := setupAuthTest(t)
		env.api.loginErr = &authapi.Error{Op: authapi.OpLogin, Status: 500}
		id := env.openForm(t, "/login")

		rec := env.do(http.MethodPost, "/login", loginForm(id, "ada@example.com", "hunter2"), false)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "An error occurred during login")
		assert.Contains(t, body, `value="ada@example.com"`)
		assert.NotContains(t, body, "hunter2")
		assert.Equal(t, id, formID(t, body))
	})

	t.Run("expired form is remounted out of band", func(t *testing.T) {
		env := setupAuthTest(t)
		env.api.loginErr = &authapi.Error{Op: authapi.OpLogin, Status: 400, Message: "Invalid credentials"}

		rec := env.do(http.MethodPost, "/login", loginForm("gone", "ada@example.com", "wrong"), true)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `hx-swap-oob="true"`)
		assert.NotEqual(t, "gone", formID(t, body))
		assert.Equal(t, 1, env.mounts.Len())
	})

	t.Run("validation stops before the network", func(t *testing.T) {
		env := setupAuthTest(t)
		id := env.openForm(t, "/login")

		rec := env.do(http.MethodPost, "/login", loginForm(id, "ada@example.com", ""), true)
		assert.Contains(t, rec.Body.String(), "Please fill in all required fields")

		rec = env.do(http.MethodPost, "/login", loginForm(id, "not-an-email", "secret"), true)
		assert.Contains(t, rec.Body.String(), "Please enter a valid email address")

		assert.Zero(t, env.api.calls.Load())
	})
}

func TestSignupPost(t *testing.T) {
	t.Run("password mismatch", func(t *testing.T) {
		env := setupAuthTest(t)
		id := env.openForm(t, "/signup")

		rec := env.do(http.MethodPost, "/signup", signupForm(id, "ada@example.com", "secret", "secreT"), true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), flow.MsgPasswordMismatch)
		assert.Zero(t, env.api.calls.Load())
	})

	t.Run("server error", func(t *testing.T) {
		env := setupAuthTest(t)
		env.api.signupErr = &authapi.Error{Op: authapi.OpSignup, Status: 400, Message: "Email already registered"}
		id := env.openForm(t, "/signup")

		rec := env.do(http.MethodPost, "/signup", signupForm(id, "ada@example.com", "secret", "secret"), true)

		body := rec.Body.String()
		assert.Contains(t, body, "Email already registered")
		assert.NotContains(t, body, "/signup/next")
	})

	t.Run("htmx success polls for the delayed redirect", func(t *testing.T) {
		env := setupAuthTest(t)
		id := env.openForm(t, "/signup")

		rec := env.do(http.MethodPost, "/signup", signupForm(id, "ada@example.com", "secret", "secret"), true)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "User created successfully.")
		assert.Contains(t, body, `hx-get="/signup/next?form_id=`+id+`"`)
		assert.Equal(t, url.Values{"email": {"ada@example.com"}, "password": {"secret"}}, env.api.lastSignup,
			"confirmPassword is never forwarded")

		env.clock.Advance(flow.DefaultSignupRedirectDelay)

		next := env.do(http.MethodGet, "/signup/next?form_id="+id, nil, true)
		assert.Equal(t, http.StatusNoContent, next.Code)
		assert.Equal(t, "/login", next.Header().Get(headerHXRedirect))
		assert.Zero(t, env.mounts.Len())
	})

	t.Run("plain success refreshes to login", func(t *testing.T) {
		env := setupAuthTest(t)
		id := env.openForm(t, "/signup")

		rec := env.do(http.MethodPost, "/signup", signupForm(id, "ada@example.com", "secret", "secret"), false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3; url=/login", rec.Header().Get("Refresh"))
		assert.Contains(t, rec.Body.String(), "User created successfully.")
	})

	t.Run("next for an unknown form", func(t *testing.T) {
		env := setupAuthTest(t)
		rec := env.do(http.MethodGet, "/signup/next?form_id=missing", nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// settleVerification follows the page's status poll until a terminal state is rendered.
func (env *testEnv) settleVerification(t *testing.T, body string) string {
	t.Helper()
	for i := 0; i < 3; i++ {
		m := statusURLPattern.FindStringSubmatch(body)
		if m == nil {
			return body
		}
		rec := env.do(http.MethodGet, "/verify-email/status?id="+m[1], nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		body = rec.Body.String()
	}
	t.Fatal("verification did not settle")
	return ""
}

func TestVerify(t *testing.T) {
	t.Run("success offers login", func(t *testing.T) {
		env := setupAuthTest(t)
		env.api.gate = make(chan struct{})

		rec := env.do(http.MethodGet, "/verify-email?token=abc123", nil, false)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Verifying your email...")
		require.Regexp(t, statusURLPattern, body)

		close(env.api.gate)
		body = env.settleVerification(t, body)
		assert.Contains(t, body, "Email verified successfully.")
		assert.Contains(t, body, `href="/login"`)
		assert.Contains(t, body, "Go to Login")
		assert.Zero(t, env.mounts.Len())
	})

	t.Run("failure offers signup", func(t *testing.T) {
		env := setupAuthTest(t)
		env.api.verifyErr = &authapi.Error{Op: authapi.OpVerify, Status: 400, Message: "Invalid verification token."}

		rec := env.do(http.MethodGet, "/verify-email?token=bad", nil, false)

		body := env.settleVerification(t, rec.Body.String())
		assert.Contains(t, body, "Invalid verification token.")
		assert.Contains(t, body, `href="/signup"`)
		assert.Contains(t, body, "Back to Sign Up")
	})

	t.Run("missing token never calls the service", func(t *testing.T) {
		env := setupAuthTest(t)

		rec := env.do(http.MethodGet, "/verify-email", nil, false)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, flow.MsgNoVerificationToken, "rendered without a poll round trip")
		assert.NotRegexp(t, statusURLPattern, body)
		assert.NotContains(t, body, "Verifying your email...")
		assert.Contains(t, body, `href="/signup"`)
		assert.Zero(t, env.api.calls.Load())
		assert.Zero(t, env.mounts.Len())
	})

	t.Run("unknown status id", func(t *testing.T) {
		env := setupAuthTest(t)

		rec := env.do(http.MethodGet, "/verify-email/status?id=missing", nil, true)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "expired")

		rec = env.do(http.MethodGet, "/verify-email/status?id=missing", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLogoutPost(t *testing.T) {
	env := setupAuthTest(t)

	rec := env.do(http.MethodPost, "/logout", url.Values{}, false)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	page := env.do(http.MethodGet, "/login", nil, false, rec.Result().Cookies()...)
	assert.Contains(t, page.Body.String(), "Logged out successfully")
}

func TestPageNavigator(t *testing.T) {
	nav := newPageNavigator()
	_, ok := nav.Pending()
	assert.False(t, ok)

	nav.Navigate("/login")
	nav.Navigate("/ignored")
	route, ok := nav.Pending()
	assert.True(t, ok)
	assert.Equal(t, "/login", route)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := nav.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
