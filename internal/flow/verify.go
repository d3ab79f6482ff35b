package flow

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/nfrund/launchpad/internal/authapi"
)

// VerificationStatus is the state of an email verification mount.
type VerificationStatus int

const (
	StatusVerifying VerificationStatus = iota
	StatusSuccess
	StatusError
)

func (s VerificationStatus) String() string {
	switch s {
	case StatusVerifying:
		return "verifying"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further automatic transition can happen.
func (s VerificationStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// VerifyAPI is the part of the remote service the verification screen needs.
type VerifyAPI interface {
	VerifyEmail(ctx context.Context, token string) (*authapi.VerifyResponse, error)
}

// VerificationResult is a snapshot of a Verification.
type VerificationResult struct {
	Status  VerificationStatus
	Message string
}

// Verification is one mount of the verify-email screen. The token is read once from the location
// it was mounted with; navigating again means creating a new Verification.
type Verification struct {
	api   VerifyAPI
	token string
	opts  options
	life  lifecycle

	runOnce  sync.Once
	doneOnce sync.Once
	done     chan struct{}

	mu       sync.Mutex
	result   VerificationResult
	disposed bool
}

// NewVerification mounts a verification for the given location, e.g. /verify-email?token=abc.
func NewVerification(api VerifyAPI, location *url.URL, opts ...Option) *Verification {
	return &Verification{
		api:    api,
		token:  TokenFromLocation(location),
		opts:   buildOptions(opts),
		life:   newLifecycle(),
		done:   make(chan struct{}),
		result: VerificationResult{Status: StatusVerifying},
	}
}

// TokenFromLocation returns the token query parameter, or "" when absent.
func TokenFromLocation(location *url.URL) string {
	if location == nil {
		return ""
	}
	return strings.TrimSpace(location.Query().Get("token"))
}

// Run performs the transition sequence. Only the first call does any work; later or concurrent
// calls wait for it and return the same result. Without a token it fails immediately and makes no
// request.
func (v *Verification) Run(ctx context.Context) VerificationResult {
	v.runOnce.Do(func() { v.run(ctx) })
	return v.Result()
}

func (v *Verification) run(ctx context.Context) {
	if v.token == "" {
		v.settle(ctx, VerificationResult{Status: StatusError, Message: MsgNoVerificationToken})
		return
	}

	reqCtx, done := v.life.bind(ctx)
	resp, err := v.api.VerifyEmail(reqCtx, v.token)
	done()

	if err != nil {
		v.opts.logFailure(ctx, "Email verification failed", err)
		v.settle(ctx, VerificationResult{Status: StatusError, Message: authapi.MessageOf(err, authapi.OpVerify)})
		return
	}
	v.settle(ctx, VerificationResult{Status: StatusSuccess, Message: resp.Message})
}

func (v *Verification) settle(ctx context.Context, r VerificationResult) {
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		return
	}
	v.result = r
	v.mu.Unlock()

	v.closeDone()
	v.opts.record(ctx, Outcome{Flow: "verify", Succeeded: r.Status == StatusSuccess, Message: r.Message})
}

// Result returns the current snapshot.
func (v *Verification) Result() VerificationResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// Done is closed once the machine reaches a terminal state or is disposed.
func (v *Verification) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until Done or ctx is cancelled and returns the snapshot at that moment.
func (v *Verification) Wait(ctx context.Context) (VerificationResult, error) {
	select {
	case <-v.done:
		return v.Result(), nil
	case <-ctx.Done():
		return v.Result(), ctx.Err()
	}
}

// Action returns the call to action for the current state; ok is false while verifying.
func (v *Verification) Action() (Redirect, bool) {
	return AfterVerification(v.Result().Status)
}

// Dispose cancels an in-flight request. A result arriving afterwards is dropped and the status
// stays where it was.
func (v *Verification) Dispose() {
	v.mu.Lock()
	v.disposed = true
	v.mu.Unlock()
	v.life.cancel()
	v.closeDone()
}

func (v *Verification) closeDone() {
	v.doneOnce.Do(func() { close(v.done) })
}
