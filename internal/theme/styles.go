package theme

// Styles are the CSS classes the views pick per mode.
type Styles struct {
	Page          string
	Card          string
	SecondaryText string
	ErrorBanner   string
	SuccessBanner string
	Input         string
	Button        string
	Link          string
}

var (
	lightStyles = Styles{
		Page:          "min-h-screen bg-gradient-light text-gray-900",
		Card:          "p-8 bg-light-card border border-light-border rounded-xl",
		SecondaryText: "text-light-text-secondary",
		ErrorBanner:   "mb-6 rounded-lg border border-red-600 bg-red-50 p-4 text-red-800",
		SuccessBanner: "mb-6 rounded-lg border border-green-600 bg-green-50 p-4 text-green-800",
		Input:         "w-full rounded-lg border border-light-border px-3 py-2",
		Button:        "w-full rounded-lg bg-sky-600 py-3 font-medium text-white hover:bg-sky-700",
		Link:          "font-medium text-sky-600 hover:text-sky-700",
	}
	darkStyles = Styles{
		Page:          "min-h-screen bg-gradient-dark text-gray-50",
		Card:          "p-8 bg-dark-card border border-dark-border rounded-xl",
		SecondaryText: "text-dark-text-secondary",
		ErrorBanner:   "mb-6 rounded-lg border border-red-400 bg-red-950 p-4 text-red-200",
		SuccessBanner: "mb-6 rounded-lg border border-green-400 bg-green-950 p-4 text-green-200",
		Input:         "w-full rounded-lg border border-dark-border bg-gray-900 px-3 py-2",
		Button:        "w-full rounded-lg bg-sky-500 py-3 font-medium text-white hover:bg-sky-600",
		Link:          "font-medium text-sky-400 hover:text-sky-300",
	}
)

// Styles returns the class set for m.
func (m Mode) Styles() Styles {
	if m.IsDark() {
		return darkStyles
	}
	return lightStyles
}
