package pages

import (
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Element IDs the signup handlers target.
const (
	SignupBannerID = "signup-banner"
	SignupFormIDID = "signup-form-id"
)

// Signup renders the account creation form.
func Signup(data auth.SignupData, st theme.Styles) g.Node {
	return formCard("Create an account", "Sign up to get started", st,
		Form(
			ID("signup-form"), Method("post"), Action("/signup"),
			hx.Post("/signup"), hx.Target("#"+SignupBannerID), hx.Swap("outerHTML"),
			g.Attr("hx-disabled-elt", "find button"),
			FormIDInput(SignupFormIDID, data.FormID, false),
			SignupBanner(data, st),
			field("Email", "email", "email", data.Email, "email", st),
			field("Password", "password", "password", "", "new-password", st),
			field("Confirm password", "confirmPassword", "password", "", "new-password", st),
			submitButton("Sign up", "Signing up...", st),
		),
		P(Class("mt-6 text-center text-sm "+st.SecondaryText),
			g.Text("Already have an account? "),
			A(Href("/login"), Class(st.Link), g.Text("Log in")),
		),
	)
}

// SignupBanner is the swappable message area of the signup form. After a successful signup it
// also carries the request that waits for the delayed redirect to the login screen.
func SignupBanner(data auth.SignupData, st theme.Styles) g.Node {
	return Banner(SignupBannerID, data.Error, data.Success, st,
		g.If(data.NextURL != "", Div(
			hx.Get(data.NextURL), hx.Trigger("load"), hx.Swap("none"),
			P(Class("mt-2 text-sm "+st.SecondaryText), g.Text("Redirecting to login...")),
		)),
	)
}
