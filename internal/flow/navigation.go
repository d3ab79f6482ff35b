package flow

import "time"

// Routes the account flows navigate between.
const (
	RouteHome        = "/"
	RouteLogin       = "/login"
	RouteSignup      = "/signup"
	RouteVerifyEmail = "/verify-email"
)

// DefaultSignupRedirectDelay gives the user time to read the signup confirmation.
const DefaultSignupRedirectDelay = 3000 * time.Millisecond

// Navigator moves the user to another screen. Implementations decide what that means:
// an HTTP redirect, an htmx header, a CLI hint. Controllers call Navigate while holding their own
// lock, so it must not block or call back into the controller.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Redirect describes where an outcome leads. Manual redirects are offered as a call to action
// and only followed when the user triggers them.
type Redirect struct {
	To     string
	Delay  time.Duration
	Manual bool
}

// AfterLogin is the redirect for an acknowledged login.
func AfterLogin() Redirect {
	return Redirect{To: RouteHome}
}

// AfterSignup is the redirect for a successful signup.
func AfterSignup(delay time.Duration) Redirect {
	return Redirect{To: RouteLogin, Delay: delay}
}

// AfterVerification returns the call to action for a terminal verification status.
// ok is false while the status is still Verifying.
func AfterVerification(status VerificationStatus) (r Redirect, ok bool) {
	switch status {
	case StatusSuccess:
		return Redirect{To: RouteLogin, Manual: true}, true
	case StatusError:
		return Redirect{To: RouteSignup, Manual: true}, true
	default:
		return Redirect{}, false
	}
}
