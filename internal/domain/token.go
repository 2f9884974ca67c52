package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeviceToken is one registered push endpoint. The token issued by the
// provider is the identity; presence in the registry means "currently
// subscribed". There is no update operation, an entry is present or absent.
type DeviceToken struct {
	Token     string
	CreatedAt time.Time
}

func (t *DeviceToken) Validate() error {
	if strings.TrimSpace(t.Token) == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}
	return nil
}
