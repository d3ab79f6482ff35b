package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Name string `json:"name"`
}

var greetingEvent = NewEvent[greeting]("test.greeting", "a greeting")

func TestWatermillBridge_TypedRoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	names := make(chan string, 1)
	err := Subscribe(ctx, bridge, greetingEvent, func(ctx context.Context, g greeting, msg Message) error {
		names <- g.Name
		received <- msg
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, Publish(ctx, bridge, greetingEvent, greeting{Name: "ada"}, map[string]string{"request_id": "r-1"}))

	select {
	case name := <-names:
		assert.Equal(t, "ada", name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	msg := <-received
	assert.Equal(t, "test.greeting", msg.Topic)
	assert.Equal(t, "r-1", msg.Metadata["request_id"])
	assert.NotContains(t, msg.Metadata, metaKeyTopic)
}

func TestWatermillBridge_CloseIsIdempotent(t *testing.T) {
	bridge := NewWatermillBridge()
	require.NoError(t, bridge.Subscribe(context.Background(), "noop", func(context.Context, Message) error { return nil }))

	assert.NoError(t, bridge.Close())
	assert.NoError(t, bridge.Close())
}
