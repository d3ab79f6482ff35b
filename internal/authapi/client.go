// Package authapi talks to the remote account service that owns users, password hashing and
// verification tokens. Every failure is normalized into an *Error carrying a user-facing message.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	signupPath = "/api/auth/signup/"
	loginPath  = "/api/auth/login/"
	verifyPath = "/api/auth/verify-email/"
	logoutPath = "/api/auth/logout/"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// errUndecodable marks a 2xx response whose body is not the expected JSON.
var errUndecodable = errors.New("undecodable response body")

// User is the account payload returned by the remote service.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// SignupResponse is returned by a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Acknowledged reports whether the service returned a user payload. Only an acknowledged
// login counts as signed in; a 2xx without a user is accepted but ignored.
func (r *LoginResponse) Acknowledged() bool {
	return r != nil && r.User != nil
}

// VerifyResponse is returned by a successful email verification.
type VerifyResponse struct {
	Message string `json:"message"`
}

// LogoutResponse is returned by a successful logout.
type LogoutResponse struct {
	Message string `json:"message"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// errorBody is the failure shape the service uses: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// Client issues the account requests. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client (transport, timeout, cookie jar).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for the service at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: &http.Client{},
		userAgent:  "launchpad",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Signup registers a new account. The service emails a verification link on success.
func (c *Client) Signup(ctx context.Context, email, password string) (*SignupResponse, error) {
	var out SignupResponse
	if err := c.post(ctx, OpSignup, signupPath, credentialsRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.post(ctx, OpLogin, loginPath, credentialsRequest{Email: email, Password: password}, &out)
	if errors.Is(err, errUndecodable) {
		// Accepted but unreadable: report it as a login without a user.
		return &LoginResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms mailbox ownership with the token from the emailed link.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.post(ctx, OpVerify, verifyPath, verifyRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the remote session.
func (c *Client) Logout(ctx context.Context) (*LogoutResponse, error) {
	var out LogoutResponse
	if err := c.post(ctx, OpLogout, logoutPath, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, op Op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return newError(op, 0, "", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return newError(op, 0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(op, 0, "", fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return newError(op, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(op, resp.StatusCode, serverMessage(raw), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newError(op, resp.StatusCode, "", fmt.Errorf("%w: %w", errUndecodable, err))
	}
	return nil
}

// serverMessage extracts the "error" field from a failure body. Anything that is not a JSON
// object with a non-empty string "error" yields "".
func serverMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

// normalizeBaseURL keeps scheme, host and path prefix, dropping query, fragment and the
// trailing slash.
func normalizeBaseURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, strings.TrimRight(u.Path, "/"))
}

// IsTransport reports whether err is an *Error raised before any HTTP status was received.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 0
}
