package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNotificationRecordValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		record  NotificationRecord
		wantErr bool
	}{
		{
			name:   "valid record",
			record: NotificationRecord{Title: "New course", Description: "The Go course is live."},
		},
		{
			name:    "missing title",
			record:  NotificationRecord{Description: "body"},
			wantErr: true,
		},
		{
			name:    "missing description",
			record:  NotificationRecord{Title: "title"},
			wantErr: true,
		},
		{
			name:    "whitespace title",
			record:  NotificationRecord{Title: "   ", Description: "body"},
			wantErr: true,
		},
		{
			name:    "title over limit",
			record:  NotificationRecord{Title: strings.Repeat("a", MaxTitleChars+1), Description: "body"},
			wantErr: true,
		},
		{
			name:    "description over limit",
			record:  NotificationRecord{Title: "title", Description: strings.Repeat("b", MaxDescriptionChars+1)},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.record.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestIsPermanentTokenError(t *testing.T) {
	t.Parallel()

	if !IsPermanentTokenError(CodeInvalidRegistrationToken) {
		t.Fatal("invalid-registration-token should be permanent")
	}
	if !IsPermanentTokenError(CodeTokenNotRegistered) {
		t.Fatal("registration-token-not-registered should be permanent")
	}
	if IsPermanentTokenError("internal-error") {
		t.Fatal("internal-error should not be permanent")
	}
	if IsPermanentTokenError("") {
		t.Fatal("empty code should not be permanent")
	}
}

func TestDeliveryOutcomeDelivered(t *testing.T) {
	t.Parallel()

	delivered := DeliveryOutcome{Token: "t1", MessageID: "m1"}
	if !delivered.Delivered() {
		t.Fatal("outcome without error code should be delivered")
	}

	failed := DeliveryOutcome{Token: "t2", ErrorCode: CodeTokenNotRegistered}
	if failed.Delivered() {
		t.Fatal("outcome with error code should not be delivered")
	}
}
