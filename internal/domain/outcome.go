package domain

// Provider error codes that mean the token will never accept another
// delivery. Any other code is treated as transient and leaves the token
// registered.
const (
	CodeInvalidRegistrationToken = "invalid-registration-token"
	CodeTokenNotRegistered       = "registration-token-not-registered"
)

// IsPermanentTokenError reports whether a per-recipient provider error code
// requires deregistering the token.
func IsPermanentTokenError(code string) bool {
	switch code {
	case CodeInvalidRegistrationToken, CodeTokenNotRegistered:
		return true
	}
	return false
}

// DeliveryOutcome is the per-recipient result of one provider call,
// positionally aligned with the submitted token ordering. Outcomes live only
// for the duration of a single fan-out invocation.
type DeliveryOutcome struct {
	Token     string
	MessageID string
	ErrorCode string
}

// Delivered reports whether the provider accepted the message for this token.
func (o DeliveryOutcome) Delivered() bool {
	return o.ErrorCode == ""
}

// FanoutReport summarizes one fan-out invocation for logs and metrics.
// Nothing in it is persisted.
type FanoutReport struct {
	NotificationID string
	Recipients     int
	Batches        int
	Delivered      int
	Transient      int
	Pruned         int
}
