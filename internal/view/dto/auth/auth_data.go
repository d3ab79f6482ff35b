package auth

// LoginData is a View Model (DTO) used specifically for the login template.
// Password is never carried back into the page.
type LoginData struct {
	FormID string
	Email  string
	Error  string
}

// SignupData is used to transfer form state and the delayed redirect to the signup template.
type SignupData struct {
	FormID  string
	Email   string
	Error   string
	Success string
	// NextURL is polled once after a successful signup; it answers with the redirect when the
	// delay has elapsed. Empty when no redirect is pending.
	NextURL string
}

// VerifyData is used to render the email verification screen in any of its states.
type VerifyData struct {
	Status  string // "verifying", "success" or "error"
	Message string
	// StatusURL is fetched while verifying to obtain the terminal state.
	StatusURL string
	// ActionLabel and ActionHref describe the manual call to action of a terminal state.
	ActionLabel string
	ActionHref  string
}
