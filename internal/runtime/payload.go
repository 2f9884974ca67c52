package runtime

import (
	"encoding/json"
)

// NotificationContent is the displayable part of a push payload.
type NotificationContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushPayload is the provider-to-device wire structure. A nil Notification
// means the push is silent and nothing is rendered.
type PushPayload struct {
	Notification *NotificationContent `json:"notification"`
}

// ParsePushPayload decodes a raw push message. Malformed or empty data parses
// to a silent payload; the device never crashes on provider garbage.
func ParsePushPayload(data []byte) PushPayload {
	var payload PushPayload
	if len(data) == 0 {
		return payload
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return PushPayload{}
	}
	return payload
}
