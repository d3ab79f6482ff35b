package pages

import (
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// VerifyStatusID is the element replaced when the verification settles.
const VerifyStatusID = "verify-status"

// Verify renders the email verification card around its current status.
func Verify(data auth.VerifyData, st theme.Styles) g.Node {
	return Div(
		Class(st.Card+" text-center"),
		H1(Class("mb-6 text-2xl font-bold"), g.Text("Email verification")),
		VerifyStatus(data, st),
	)
}

// VerifyStatus renders one state of the verification. While verifying it polls StatusURL and is
// replaced by the answer.
func VerifyStatus(data auth.VerifyData, st theme.Styles) g.Node {
	switch data.Status {
	case "success":
		return Div(ID(VerifyStatusID),
			Div(Class(st.SuccessBanner), Role("status"), g.Text(data.Message)),
			actionLink(data, st),
		)
	case "error":
		return Div(ID(VerifyStatusID),
			Div(Class(st.ErrorBanner), Role("alert"), g.Text(data.Message)),
			actionLink(data, st),
		)
	default:
		return Div(ID(VerifyStatusID),
			g.If(data.StatusURL != "", g.Group{hx.Get(data.StatusURL), hx.Trigger("load"), hx.Swap("outerHTML")}),
			Div(Class("spinner mx-auto mb-4"), Aria("hidden", "true")),
			P(Class(st.SecondaryText), g.Text("Verifying your email...")),
		)
	}
}

func actionLink(data auth.VerifyData, st theme.Styles) g.Node {
	if data.ActionHref == "" {
		return nil
	}
	return A(Href(data.ActionHref), Class(st.Button+" inline-block"), g.Text(data.ActionLabel))
}
