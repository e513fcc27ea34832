package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-portal/internal/config"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
)

var statusMessages = map[domain.ComplaintStatus]string{
	domain.StatusPending:      "Your complaint has been received and is pending review.",
	domain.StatusAcknowledged: "Your complaint has been acknowledged and assigned to the relevant department.",
	domain.StatusInProgress:   "Work has begun on resolving your complaint.",
	domain.StatusResolved:     "Your complaint has been resolved! Please provide feedback on your experience.",
	domain.StatusClosed:       "Your complaint has been closed.",
	domain.StatusRejected:     "Your complaint has been reviewed and rejected. Please contact us for more details.",
}

// StatusMessage returns the citizen-facing text for a status.
func StatusMessage(status domain.ComplaintStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "Your complaint status has been updated."
}

// NotificationService turns domain events into outbound mail. Delivery is stubbed
// with structured log lines.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventAccountRoleChanged, n.handleRoleChanged)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(ctx, n.cfg.AdminEmail, "New Complaint Submitted: "+event.Subject, event,
		zap.String("category", payload.Category),
		zap.String("department", payload.Department),
		zap.String("priority", string(payload.Priority)))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintFieldChangedPayload)
	if !ok {
		return nil
	}
	status := domain.ComplaintStatus(payload.NewValue)
	n.sendEmailStub(ctx, payload.CitizenEmail, "Complaint Status Update: "+event.Subject, event,
		zap.String("citizen", payload.CitizenName),
		zap.String("status", payload.NewValue),
		zap.String("message", StatusMessage(status)))

	if status == domain.StatusResolved {
		n.sendEmailStub(ctx, payload.CitizenEmail, "Please Share Your Feedback: "+event.Subject, event,
			zap.String("citizen", payload.CitizenName))
	}
	return nil
}

func (n *NotificationService) handleRoleChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountRoleChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("AccountRoleChanged",
		zap.String("handle", event.Subject),
		zap.String("old_role", payload.OldRole),
		zap.String("new_role", payload.NewRole))
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, to, subject string, event events.Event, fields ...zap.Field) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Info("sendEmailStub", append([]zap.Field{
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("event_type", string(event.Type)),
		zap.String("reference", event.Subject),
	}, fields...)...)
}
