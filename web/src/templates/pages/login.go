package pages

import (
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Element IDs the login handlers target.
const (
	LoginBannerID = "login-banner"
	LoginFormIDID = "login-form-id"
)

// Login renders the login form. Submitting with htmx only swaps the banner, so typed values stay
// in the browser after a failure.
func Login(data auth.LoginData, st theme.Styles) g.Node {
	return formCard("Welcome back", "Log in to your account", st,
		Form(
			ID("login-form"), Method("post"), Action("/login"),
			hx.Post("/login"), hx.Target("#"+LoginBannerID), hx.Swap("outerHTML"),
			g.Attr("hx-disabled-elt", "find button"),
			FormIDInput(LoginFormIDID, data.FormID, false),
			LoginBanner(data.Error, st),
			field("Email", "email", "email", data.Email, "email", st),
			field("Password", "password", "password", "", "current-password", st),
			submitButton("Log in", "Logging in...", st),
		),
		P(Class("mt-6 text-center text-sm "+st.SecondaryText),
			g.Text("Don't have an account? "),
			A(Href("/signup"), Class(st.Link), g.Text("Sign up")),
		),
	)
}

// LoginBanner is the swappable message area of the login form.
func LoginBanner(errMsg string, st theme.Styles) g.Node {
	return Banner(LoginBannerID, errMsg, "", st)
}
