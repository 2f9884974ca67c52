package queue

import (
	"fmt"
	"strings"
)

// NotificationCreatedMessage is the broker payload emitted after a
// notification record is persisted.
type NotificationCreatedMessage struct {
	NotificationID string `json:"notificationId"`
	CorrelationID  string `json:"correlationId,omitempty"`
}

func (m NotificationCreatedMessage) Validate() error {
	if strings.TrimSpace(m.NotificationID) == "" {
		return fmt.Errorf("notificationId is required")
	}
	return nil
}
