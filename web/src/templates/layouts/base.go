package layouts

import (
	"github.com/nfrund/launchpad/internal/theme"
	"github.com/nfrund/launchpad/internal/view"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the document shell: head, navigation bar with the theme toggle,
// flash messages and the page body.
func Base(title string, mode theme.Mode, flashes view.FlashData, content ...g.Node) g.Node {
	st := mode.Styles()
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			g.If(mode.IsDark(), h.Class("dark")),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(CalculateTitle(title))),
				h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
				h.Script(h.Src(htmxSrc), h.Defer()),
			),
			h.Body(
				h.Class(st.Page),
				navBar(mode),
				h.Main(
					h.Class("mx-auto max-w-md px-4 py-12"),
					flashList(flashes, st),
					g.Group(content),
				),
			),
		),
	)
}

func navBar(mode theme.Mode) g.Node {
	st := mode.Styles()
	label := "Dark mode"
	if mode.IsDark() {
		label = "Light mode"
	}
	return h.Nav(
		h.Class("flex items-center justify-between px-6 py-4"),
		h.A(h.Href("/"), h.Class("text-lg font-bold"), g.Text("Launchpad")),
		h.Div(
			h.Class("flex items-center gap-4"),
			h.A(h.Href("/login"), h.Class(st.Link), g.Text("Log in")),
			h.A(h.Href("/signup"), h.Class(st.Link), g.Text("Sign up")),
			h.Form(
				h.Method("post"), h.Action("/logout"),
				h.Button(h.Type("submit"), h.Class(st.Link), g.Text("Log out")),
			),
			h.Form(
				h.Method("post"), h.Action("/theme"),
				h.Button(h.Type("submit"), h.ID("theme-toggle"), h.Class(st.SecondaryText), g.Text(label)),
			),
		),
	)
}

func flashList(flashes view.FlashData, st theme.Styles) g.Node {
	if flashes.Empty() {
		return nil
	}
	return h.Div(
		h.ID("flashes"),
		g.Map(flashes.Success, func(msg string) g.Node {
			return h.Div(h.Class(st.SuccessBanner), h.Role("status"), g.Text(msg))
		}),
		g.Map(flashes.Error, func(msg string) g.Node {
			return h.Div(h.Class(st.ErrorBanner), h.Role("alert"), g.Text(msg))
		}),
	)
}
