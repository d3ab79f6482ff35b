// Package authevents publishes account flow outcomes on the event bus and keeps an audit trail
// of them in the log.
package authevents

import (
	"context"
	"log/slog"
	"time"

	"github.com/nfrund/launchpad/internal/flow"
	"github.com/nfrund/launchpad/internal/pubsub"
)

// Event is the payload published for every settled signup, login or verification.
type Event struct {
	Flow      string    `json:"flow"`
	Succeeded bool      `json:"succeeded"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

var (
	SignupEvent = pubsub.NewEvent[Event]("auth.signup", "A signup submission settled")
	LoginEvent  = pubsub.NewEvent[Event]("auth.login", "A login submission settled")
	VerifyEvent = pubsub.NewEvent[Event]("auth.verify", "An email verification settled")
)

// All lists every auth event.
var All = []pubsub.Event[Event]{SignupEvent, LoginEvent, VerifyEvent}

func eventFor(flowName string) (pubsub.Event[Event], bool) {
	for _, e := range All {
		if e.Name() == "auth."+flowName {
			return e, true
		}
	}
	return pubsub.Event[Event]{}, false
}

// Recorder publishes flow outcomes. It implements flow.Recorder.
type Recorder struct {
	pub pubsub.Publisher
	now func() time.Time
}

// NewRecorder creates a Recorder publishing on pub.
func NewRecorder(pub pubsub.Publisher) *Recorder {
	return &Recorder{pub: pub, now: time.Now}
}

// Record publishes the outcome. Publishing failures are logged, never returned: the flow has
// already settled and must not be affected by the bus.
func (r *Recorder) Record(ctx context.Context, o flow.Outcome) {
	ev, ok := eventFor(o.Flow)
	if !ok {
		slog.Warn("Unknown auth flow, outcome not published", "flow", o.Flow)
		return
	}

	payload := Event{
		Flow:      o.Flow,
		Succeeded: o.Succeeded,
		Email:     o.Email,
		Message:   o.Message,
		At:        r.now().UTC(),
	}
	if err := pubsub.Publish(ctx, r.pub, ev, payload, nil); err != nil {
		slog.Error("Failed to publish auth event", "topic", ev.Name(), "error", err)
	}
}

// SubscribeAudit logs every auth event with logger until ctx is cancelled.
func SubscribeAudit(ctx context.Context, sub pubsub.Subscriber, logger *slog.Logger) error {
	for _, ev := range All {
		err := pubsub.Subscribe(ctx, sub, ev, func(ctx context.Context, e Event, msg pubsub.Message) error {
			logger.Info("Auth event",
				"topic", msg.Topic,
				"flow", e.Flow,
				"succeeded", e.Succeeded,
				"email", e.Email,
				"message", e.Message,
				"at", e.At,
			)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
