package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/observability"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/queue"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService persists notification records and announces each new
// one to the fan-out queue.
type NotificationService struct {
	records   repository.NotificationRepository
	publisher queue.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewNotificationService(
	records repository.NotificationRepository,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*NotificationService, error) {
	if records == nil {
		return nil, errNilRecords
	}
	if publisher == nil {
		return nil, fmt.Errorf("queue publisher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		records:   records,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Create stores a notification record and publishes its creation event. The
// record survives a publish failure; only the event is lost.
func (s *NotificationService) Create(ctx context.Context, title, description string) (*domain.NotificationRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	record := &domain.NotificationRecord{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist notification record: %w", err)
	}

	correlationID, _ := observability.CorrelationIDFromContext(ctx)
	msg := queue.NotificationCreatedMessage{
		NotificationID: record.ID,
		CorrelationID:  correlationID,
	}
	if err := s.publisher.Publish(ctx, queue.WorkQueue, msg); err != nil {
		s.logger.Error("failed to publish creation event",
			zap.String("notificationId", record.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to publish creation event: %w", err)
	}

	return record, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.NotificationRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	return s.records.GetByID(ctx, strings.TrimSpace(id))
}
