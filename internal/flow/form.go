// Package flow holds the account flows behind the signup, login and verify-email screens:
// form controllers, the verification state machine and the redirect policy. It knows nothing
// about HTML or HTTP routing; callers plug in a Navigator and the remote API.
package flow

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nfrund/launchpad/internal/authapi"
)

// Form field names shared by the controllers and the input layer.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// FormState is the transient state of one form instance. Empty Error/Success mean no banner.
type FormState struct {
	Fields     map[string]string
	Submitting bool
	Error      string
	Success    string
}

// Field returns the value of a field, or "" when unset.
func (s FormState) Field(name string) string {
	return s.Fields[name]
}

func (s FormState) clone() FormState {
	s.Fields = maps.Clone(s.Fields)
	return s
}

func newFormState() FormState {
	return FormState{Fields: make(map[string]string)}
}

// Outcome is a settled flow result reported to a Recorder.
type Outcome struct {
	Flow      string // "signup", "login" or "verify"
	Succeeded bool
	Email     string
	Message   string
}

// Recorder receives flow outcomes, e.g. to publish audit events.
type Recorder interface {
	Record(ctx context.Context, o Outcome)
}

type options struct {
	clock       clockwork.Clock
	recorder    Recorder
	logger      *slog.Logger
	signupDelay time.Duration
}

// Option configures controllers and the verification machine.
type Option func(*options)

// WithClock sets the clock used for delayed redirects.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRecorder reports every settled outcome to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSignupRedirectDelay overrides DefaultSignupRedirectDelay.
func WithSignupRedirectDelay(d time.Duration) Option {
	return func(o *options) { o.signupDelay = d }
}

func buildOptions(opts []Option) options {
	o := options{
		clock:       clockwork.NewRealClock(),
		logger:      slog.Default(),
		signupDelay: DefaultSignupRedirectDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) record(ctx context.Context, out Outcome) {
	if o.recorder == nil {
		return
	}
	o.recorder.Record(context.WithoutCancel(ctx), out)
}

// logFailure logs a failed request: an unreachable service is an error, a rejection only a warning.
func (o options) logFailure(ctx context.Context, msg string, err error, args ...any) {
	level := slog.LevelWarn
	if authapi.IsTransport(err) {
		level = slog.LevelError
	}
	o.logger.Log(ctx, level, msg, append(args, "error", err)...)
}

// lifecycle ties in-flight requests to the owner's lifetime.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifecycle() lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return lifecycle{ctx: ctx, cancel: cancel}
}

// bind derives a request context cancelled by either the caller or disposal.
func (l lifecycle) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
