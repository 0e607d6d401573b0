package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Encode(t *testing.T) {
	t.Parallel()

	data, err := New("order_placed", "42", map[string]any{"total": "37.80"}).encode()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "order_placed", got["type"])
	assert.Equal(t, "42", got["key"])
	assert.NotEmpty(t, got["occurred_at"])
}

func TestNewFromBackend(t *testing.T) {
	t.Parallel()

	p, err := NewFromBackend("none", nil, "")
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)

	_, err = NewFromBackend("kafka", nil, "")
	require.Error(t, err)

	_, err = NewFromBackend("carrier-pigeon", nil, "")
	require.Error(t, err)
}

type failingPublisher struct{ NopPublisher }

func (failingPublisher) Publish(context.Context, string, Event) error {
	return errors.New("broker down")
}

func TestEmit_SwallowsErrors(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		Emit(context.Background(), failingPublisher{}, TopicOrder, New("order_placed", "1", nil))
		Emit(context.Background(), nil, TopicOrder, New("order_placed", "1", nil))
	})

	mem := &MemoryPublisher{}
	Emit(context.Background(), mem, TopicUser, New("user_registered", "7", nil))
	assert.Equal(t, []string{"user_registered"}, mem.Types(TopicUser))
}
