package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesEveryHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var calls []string

	dispatcher.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("mail relay down")
	})
	dispatcher.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	dispatcher.Subscribe(EventAccountRoleChanged, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventComplaintCreated, Subject: "CMP-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail relay down")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	require.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventComplaintStatusChanged}))
}
