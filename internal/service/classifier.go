package service

import (
	"strings"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
)

// Classification summarizes provider verdicts for one fan-out.
type Classification struct {
	Delivered int
	Transient int
	Prune     []string
}

// ClassifyOutcomes splits per-token verdicts into delivered, transient
// failures, and tokens that must leave the registry. Prune is deduplicated.
func ClassifyOutcomes(outcomes []domain.DeliveryOutcome) Classification {
	var c Classification
	seen := make(map[string]struct{})

	for _, outcome := range outcomes {
		if outcome.Delivered() {
			c.Delivered++
			continue
		}

		if !domain.IsPermanentTokenError(outcome.ErrorCode) {
			c.Transient++
			continue
		}

		token := strings.TrimSpace(outcome.Token)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		c.Prune = append(c.Prune, token)
	}

	return c
}
