package domain

import (
	"fmt"
	"strings"
	"time"
)

// Content limits for a push payload. The provider rejects payloads over 4KB;
// these bounds keep a record well inside that envelope.
const (
	MaxTitleChars       = 255
	MaxDescriptionChars = 3600
)

// NotificationRecord is a broadcast notification as created by the publishing
// surface. Records are immutable after creation: each one triggers exactly one
// fan-out and is never re-delivered.
type NotificationRecord struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

func (n *NotificationRecord) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(n.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}

	if titleLen := len([]rune(n.Title)); titleLen > MaxTitleChars {
		return fmt.Errorf("%w: title exceeds %d characters (got %d)", ErrValidation, MaxTitleChars, titleLen)
	}
	if descLen := len([]rune(n.Description)); descLen > MaxDescriptionChars {
		return fmt.Errorf("%w: description exceeds %d characters (got %d)", ErrValidation, MaxDescriptionChars, descLen)
	}

	return nil
}
