package worker

import (
	"github.com/spec-kit/complaint-portal/internal/service"
)

// Subscriber registers its event handlers on a dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartSubscribers registers the notification and history subscribers. Nil entries
// are skipped.
func StartSubscribers(subscribers ...Subscriber) {
	for _, subscriber := range subscribers {
		if subscriber == nil {
			continue
		}
		subscriber.RegisterHandlers()
	}
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService, historyRecorder *service.HistoryRecorder) {
	var subscribers []Subscriber
	if notificationService != nil {
		subscribers = append(subscribers, notificationService)
	}
	if historyRecorder != nil {
		subscribers = append(subscribers, historyRecorder)
	}
	StartSubscribers(subscribers...)
}
