package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/repository"
)

// HistoryRecorder writes an audit entry for every status and priority change. It only
// listens to events; the workflow itself never reads history.
type HistoryRecorder struct {
	dispatcher events.Dispatcher
	history    repository.ComplaintHistoryRepository
}

// NewHistoryRecorder builds the recorder.
func NewHistoryRecorder(dispatcher events.Dispatcher, history repository.ComplaintHistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{dispatcher: dispatcher, history: history}
}

// RegisterHandlers subscribes to field change events.
func (r *HistoryRecorder) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventComplaintStatusChanged, r.record)
	r.dispatcher.Subscribe(events.EventComplaintPriorityChanged, r.record)
}

func (r *HistoryRecorder) record(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintFieldChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	entry := &domain.ComplaintHistory{
		ID:        uuid.NewString(),
		Reference: event.Subject,
		Field:     payload.Field,
		OldValue:  payload.OldValue,
		NewValue:  payload.NewValue,
		ChangedBy: event.Actor,
		CreatedAt: event.Timestamp,
	}
	if err := r.history.Create(ctx, entry); err != nil {
		return fmt.Errorf("record history for %s: %w", event.Subject, err)
	}
	return nil
}
