package flow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nfrund/launchpad/internal/authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupMessage = "User created successfully. Please check your email to verify your account."

func newFilledSignup(api *fakeAPI, nav Navigator, clock clockwork.Clock, confirm string) *SignupController {
	c := NewSignupController(api, nav, quietLogger(), WithClock(clock))
	c.UpdateField(FieldEmail, "ada@example.com")
	c.UpdateField(FieldPassword, "correct horse")
	c.UpdateField(FieldConfirmPassword, confirm)
	return c
}

func TestSignupController_PasswordMismatch(t *testing.T) {
	for _, confirm := range []string{"", "correct horsE", "correct horse "} {
		api := &fakeAPI{signupResp: &authapi.SignupResponse{Message: signupMessage}}
		clock := clockwork.NewFakeClock()
		c := newFilledSignup(api, &recordingNavigator{}, clock, confirm)

		require.NoError(t, c.Submit(context.Background()))

		st := c.State()
		assert.Equal(t, "Passwords do not match", st.Error)
		assert.Empty(t, st.Success)
		assert.False(t, st.Submitting)
		assert.Zero(t, api.calls.Load(), "mismatch must not reach the network")
		assert.False(t, c.RedirectPending())
	}
}

func TestSignupController_Success(t *testing.T) {
	api := &fakeAPI{signupResp: &authapi.SignupResponse{Message: signupMessage}}
	nav := &recordingNavigator{}
	clock := clockwork.NewFakeClock()
	c := newFilledSignup(api, nav, clock, "correct horse")

	require.NoError(t, c.Submit(context.Background()))

	st := c.State()
	assert.Equal(t, signupMessage, st.Success)
	assert.Empty(t, st.Error)
	assert.Equal(t, "correct horse", api.lastPass)
	assert.True(t, c.RedirectPending())

	clock.Advance(DefaultSignupRedirectDelay - time.Millisecond)
	assert.Never(t, func() bool { return len(nav.Routes()) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"must not navigate before the delay")

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool {
		routes := nav.Routes()
		return len(routes) == 1 && routes[0] == RouteLogin
	}, time.Second, 5*time.Millisecond)
	assert.False(t, c.RedirectPending())
}

func TestSignupController_Failure(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		api := &fakeAPI{err: apiError(authapi.OpSignup, "Email already registered")}
		c := newFilledSignup(api, &recordingNavigator{}, clockwork.NewFakeClock(), "correct horse")

		require.NoError(t, c.Submit(context.Background()))

		st := c.State()
		assert.Equal(t, "Email already registered", st.Error)
		assert.Empty(t, st.Success)
		assert.False(t, c.RedirectPending())
	})

	t.Run("default message", func(t *testing.T) {
		api := &fakeAPI{err: &authapi.Error{Op: authapi.OpSignup}}
		c := newFilledSignup(api, &recordingNavigator{}, clockwork.NewFakeClock(), "correct horse")

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, "An error occurred during signup", c.State().Error)
	})
}

func TestSignupController_BannersAreExclusive(t *testing.T) {
	api := &fakeAPI{signupResp: &authapi.SignupResponse{Message: signupMessage}}
	clock := clockwork.NewFakeClock()
	c := newFilledSignup(api, &recordingNavigator{}, clock, "correct horse")
	require.NoError(t, c.Submit(context.Background()))
	require.NotEmpty(t, c.State().Success)

	c.UpdateField(FieldConfirmPassword, "nope")
	require.NoError(t, c.Submit(context.Background()))

	st := c.State()
	assert.Equal(t, MsgPasswordMismatch, st.Error)
	assert.Empty(t, st.Success)
	assert.False(t, c.RedirectPending(), "a new submission cancels the earlier redirect")
}

func TestSignupController_DisposeCancelsRedirect(t *testing.T) {
	api := &fakeAPI{signupResp: &authapi.SignupResponse{Message: signupMessage}}
	nav := &recordingNavigator{}
	clock := clockwork.NewFakeClock()
	c := newFilledSignup(api, nav, clock, "correct horse")
	require.NoError(t, c.Submit(context.Background()))

	clock.Advance(time.Second)
	assert.NotPanics(t, c.Dispose)
	clock.Advance(5 * time.Second)

	assert.Never(t, func() bool { return len(nav.Routes()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrDisposed)
}

func TestSignupController_CustomDelay(t *testing.T) {
	api := &fakeAPI{signupResp: &authapi.SignupResponse{Message: signupMessage}}
	nav := &recordingNavigator{}
	clock := clockwork.NewFakeClock()
	c := NewSignupController(api, nav, quietLogger(), WithClock(clock), WithSignupRedirectDelay(time.Second))
	c.UpdateField(FieldPassword, "x")
	c.UpdateField(FieldConfirmPassword, "x")
	require.NoError(t, c.Submit(context.Background()))

	clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return len(nav.Routes()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestSignupController_DisposeRacingRedirect(t *testing.T) {
	for range 200 {
		api := &fakeAPI{signupResp: &authapi.SignupResponse{Message: signupMessage}}
		clock := clockwork.NewFakeClock()
		var disposed, late atomic.Bool
		var advanced sync.WaitGroup
		nav := NavigatorFunc(func(string) {
			if disposed.Load() {
				late.Store(true)
			}
		})
		c := newFilledSignup(api, nav, clock, "correct horse")
		require.NoError(t, c.Submit(context.Background()))

		advanced.Add(1)
		go func() {
			defer advanced.Done()
			clock.Advance(DefaultSignupRedirectDelay)
		}()
		c.Dispose()
		disposed.Store(true)
		advanced.Wait()

		require.False(t, late.Load(), "navigated after Dispose returned")
	}
}
