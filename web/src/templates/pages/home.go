package pages

import (
	"github.com/nfrund/launchpad/internal/theme"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Home is the landing page reached after a successful login.
func Home(st theme.Styles) g.Node {
	return Div(
		Class(st.Card),
		H1(Class("mb-4 text-3xl font-extrabold"), g.Text("Launchpad")),
		P(Class("mb-6 "+st.SecondaryText),
			g.Text("Create an account, confirm your email and log in."),
		),
		Div(Class("flex gap-4"),
			A(Href("/signup"), Class(st.Button+" text-center"), g.Text("Sign up")),
			A(Href("/login"), Class(st.Link+" self-center"), g.Text("Log in")),
		),
	)
}

// NotFoundFragment is returned to pollers whose screen instance no longer exists.
func NotFoundFragment(id, message, retryHref string, st theme.Styles) g.Node {
	return Div(ID(id),
		Div(Class(st.ErrorBanner), Role("alert"), g.Text(message)),
		A(Href(retryHref), Class(st.Link), g.Text("Start again")),
	)
}
