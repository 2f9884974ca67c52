package provider

import (
	"context"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
)

// MaxBatchSize is the largest token batch a single provider call accepts.
const MaxBatchSize = 1000

// PushMessage is the rendered notification handed to the provider.
type PushMessage struct {
	Title string
	Body  string
	Icon  string
}

// BatchResult carries the provider's per-token verdicts for one batch.
// Outcomes are positionally aligned with the submitted tokens.
type BatchResult struct {
	Success  int
	Failure  int
	Outcomes []domain.DeliveryOutcome
}

// PushProvider is the outbound multicast delivery port.
type PushProvider interface {
	SendBatch(ctx context.Context, tokens []string, msg PushMessage) (*BatchResult, error)
}
