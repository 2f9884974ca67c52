package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/observability"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/provider"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/repository"
	"go.uber.org/zap"
)

var (
	errNilRecords  = errors.New("notification repository is required")
	errNilRegistry = errors.New("token registry is required")
	errNilProvider = errors.New("push provider is required")
)

// DeliveryService fans a stored notification out to every registered device.
type DeliveryService struct {
	records   repository.NotificationRepository
	registry  repository.TokenRegistry
	provider  provider.PushProvider
	collector *RegistryCollector
	icon      string
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewDeliveryService(
	records repository.NotificationRepository,
	registry repository.TokenRegistry,
	pushProvider provider.PushProvider,
	collector *RegistryCollector,
	icon string,
	logger *zap.Logger,
) (*DeliveryService, error) {
	if records == nil {
		return nil, errNilRecords
	}
	if registry == nil {
		return nil, errNilRegistry
	}
	if pushProvider == nil {
		return nil, errNilProvider
	}
	if collector == nil {
		return nil, errors.New("registry collector is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DeliveryService{
		records:   records,
		registry:  registry,
		provider:  pushProvider,
		collector: collector,
		icon:      icon,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *DeliveryService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Dispatch runs one complete fan-out for a notification record. A missing
// record is a no-op. Batch failures count their tokens as transient and the
// fan-out moves on; nothing inside a single invocation is retried.
func (s *DeliveryService) Dispatch(ctx context.Context, notificationID string) (*domain.FanoutReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	record, err := s.records.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("notification record missing, skipping fan-out",
				zap.String("notificationId", notificationID),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load notification record: %w", err)
	}

	tokens, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot token registry: %w", err)
	}

	report := &domain.FanoutReport{
		NotificationID: record.ID,
		Recipients:     len(tokens),
	}

	if len(tokens) == 0 {
		s.logger.Info("fan-out skipped: registry is empty",
			zap.String("notificationId", record.ID),
		)
		return report, nil
	}

	msg := provider.PushMessage{
		Title: record.Title,
		Body:  record.Description,
		Icon:  s.icon,
	}

	var pruneTokens []string
	for _, batch := range chunkTokens(tokens, provider.MaxBatchSize) {
		report.Batches++

		sendStart := s.now()
		result, sendErr := s.provider.SendBatch(ctx, batch, msg)
		if s.metrics != nil {
			s.metrics.ObserveBatchSendDuration(s.now().Sub(sendStart))
		}

		if sendErr != nil {
			s.logger.Error("provider batch failed, tokens kept for next fan-out",
				zap.String("notificationId", record.ID),
				zap.Int("batchSize", len(batch)),
				zap.Error(sendErr),
			)
			report.Transient += len(batch)
			if s.metrics != nil {
				s.metrics.IncProviderBatch("failure")
				for range batch {
					s.metrics.IncTokenFailed("batch_error")
				}
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.IncProviderBatch("success")
		}

		classified := ClassifyOutcomes(result.Outcomes)
		report.Delivered += classified.Delivered
		report.Transient += classified.Transient
		pruneTokens = append(pruneTokens, classified.Prune...)

		if s.metrics != nil {
			s.metrics.AddTokensDelivered(classified.Delivered)
			for i := 0; i < classified.Transient; i++ {
				s.metrics.IncTokenFailed("transient")
			}
			for range classified.Prune {
				s.metrics.IncTokenFailed("permanent")
			}
		}
	}

	report.Pruned = s.collector.Collect(ctx, pruneTokens)
	if s.metrics != nil {
		s.metrics.AddTokensPruned(report.Pruned)
	}

	s.logger.Info("fan-out finished",
		zap.String("notificationId", record.ID),
		zap.Int("recipients", report.Recipients),
		zap.Int("batches", report.Batches),
		zap.Int("delivered", report.Delivered),
		zap.Int("transient", report.Transient),
		zap.Int("pruned", report.Pruned),
	)

	return report, nil
}

func chunkTokens(tokens []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	chunks := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}

	return chunks
}
