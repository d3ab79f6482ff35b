package pages

import (
	"github.com/nfrund/launchpad/internal/theme"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Banner renders the error or success message of a form. The wrapper is always present so htmx
// can swap it in place; with no message it renders empty.
func Banner(id, errMsg, successMsg string, st theme.Styles, extra ...g.Node) g.Node {
	return Div(
		ID(id),
		g.If(errMsg != "", Div(Class(st.ErrorBanner), Role("alert"), g.Text(errMsg))),
		g.If(successMsg != "", Div(Class(st.SuccessBanner), Role("status"), g.Text(successMsg))),
		g.Group(extra),
	)
}

// FormIDInput is the hidden field tying a form to its live controller. With oob set it replaces
// the existing input out of band, used when the server had to remount an expired form.
func FormIDInput(id, formID string, oob bool) g.Node {
	return Input(
		Type("hidden"), ID(id), Name("form_id"), Value(formID),
		g.If(oob, hx.SwapOOB("true")),
	)
}

func field(label, name, inputType, value, autocomplete string, st theme.Styles) g.Node {
	return Div(
		Class("mb-4"),
		Label(For(name), Class("mb-1 block text-sm font-medium"), g.Text(label)),
		Input(
			ID(name), Name(name), Type(inputType), Class(st.Input),
			AutoComplete(autocomplete), Required(),
			g.If(value != "", Value(value)),
		),
	)
}

// submitButton shows its busy label while htmx has the form's request in flight.
func submitButton(idle, busy string, st theme.Styles) g.Node {
	return Button(
		Type("submit"), Class(st.Button),
		Span(Class("idle-label"), g.Text(idle)),
		Span(Class("busy-label"), g.Text(busy)),
	)
}

func formCard(heading, sub string, st theme.Styles, children ...g.Node) g.Node {
	return Div(
		Class(st.Card),
		H1(Class("mb-2 text-2xl font-bold"), g.Text(heading)),
		P(Class("mb-6 "+st.SecondaryText), g.Text(sub)),
		g.Group(children),
	)
}
