package queue

import (
	"encoding/json"
	"testing"
)

func TestNotificationCreatedMessageValidate(t *testing.T) {
	msg := NotificationCreatedMessage{NotificationID: "n1"}
	if err := msg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	msg.NotificationID = "  "
	if err := msg.Validate(); err == nil {
		t.Fatal("expected error for blank notification id")
	}
}

func TestNotificationCreatedMessageJSON(t *testing.T) {
	payload, err := json.Marshal(NotificationCreatedMessage{
		NotificationID: "n1",
		CorrelationID:  "c1",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded NotificationCreatedMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.NotificationID != "n1" || decoded.CorrelationID != "c1" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestQueueNames(t *testing.T) {
	if WorkQueue != "push.fanout" {
		t.Fatalf("WorkQueue = %s, want push.fanout", WorkQueue)
	}
	if DLQ != "dlq.push.fanout" {
		t.Fatalf("DLQ = %s, want dlq.push.fanout", DLQ)
	}
}
