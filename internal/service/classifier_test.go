package service

import (
	"testing"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
)

func TestClassifyOutcomes(t *testing.T) {
	t.Parallel()

	outcomes := []domain.DeliveryOutcome{
		{Token: "tok-0", MessageID: "m0"},
		{Token: "tok-1", ErrorCode: domain.CodeInvalidRegistrationToken},
		{Token: "tok-2", ErrorCode: "unavailable"},
		{Token: "tok-3", ErrorCode: domain.CodeTokenNotRegistered},
		{Token: "tok-1", ErrorCode: domain.CodeInvalidRegistrationToken},
		{Token: "  ", ErrorCode: domain.CodeInvalidRegistrationToken},
	}

	c := ClassifyOutcomes(outcomes)

	if c.Delivered != 1 {
		t.Fatalf("Delivered = %d, want 1", c.Delivered)
	}
	if c.Transient != 1 {
		t.Fatalf("Transient = %d, want 1", c.Transient)
	}
	if len(c.Prune) != 2 {
		t.Fatalf("Prune = %v, want deduplicated tok-1 and tok-3", c.Prune)
	}
}

func TestClassifyOutcomesEmpty(t *testing.T) {
	t.Parallel()

	c := ClassifyOutcomes(nil)
	if c.Delivered != 0 || c.Transient != 0 || len(c.Prune) != 0 {
		t.Fatalf("classification = %+v, want zero", c)
	}
}
