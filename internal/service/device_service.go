package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/repository"
	"go.uber.org/zap"
)

// DeviceService maintains the device token registry. Registration and
// removal are both idempotent.
type DeviceService struct {
	registry repository.TokenRegistry
	logger   *zap.Logger
	now      func() time.Time
}

func NewDeviceService(registry repository.TokenRegistry, logger *zap.Logger) (*DeviceService, error) {
	if registry == nil {
		return nil, errNilRegistry
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DeviceService{
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (s *DeviceService) Register(ctx context.Context, token string) error {
	device := domain.DeviceToken{
		Token:     strings.TrimSpace(token),
		CreatedAt: s.now().UTC(),
	}
	if err := device.Validate(); err != nil {
		return err
	}

	if err := s.registry.Save(ctx, device.Token); err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}

	return nil
}

func (s *DeviceService) Unregister(ctx context.Context, token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return fmt.Errorf("%w: device token is required", domain.ErrValidation)
	}

	if err := s.registry.Remove(ctx, trimmed); err != nil {
		return fmt.Errorf("failed to unregister device token: %w", err)
	}

	return nil
}
