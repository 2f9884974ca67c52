package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/observability"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const minWorkerConcurrency = 1

// Dispatcher runs a full fan-out for one notification record.
type Dispatcher interface {
	Dispatch(ctx context.Context, notificationID string) (*domain.FanoutReport, error)
}

// DispatchGuard claims the single fan-out slot for a notification.
type DispatchGuard interface {
	Begin(ctx context.Context, notificationID string) (bool, error)
}

// FanoutWorker consumes creation events and triggers exactly one fan-out per
// record. Fan-out failures are logged and terminal: the message is still
// acked, never requeued.
type FanoutWorker struct {
	consumer    queue.Consumer
	dispatcher  Dispatcher
	guard       DispatchGuard
	logger      *zap.Logger
	metrics     *observability.Metrics
	concurrency int
}

func NewFanoutWorker(
	consumer queue.Consumer,
	dispatcher Dispatcher,
	guard DispatchGuard,
	concurrency int,
	logger *zap.Logger,
) (*FanoutWorker, error) {
	if consumer == nil {
		return nil, errors.New("queue consumer is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if guard == nil {
		return nil, errors.New("dispatch guard is required")
	}
	if concurrency < minWorkerConcurrency {
		concurrency = minWorkerConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FanoutWorker{
		consumer:    consumer,
		dispatcher:  dispatcher,
		guard:       guard,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

func (w *FanoutWorker) SetMetrics(metrics *observability.Metrics) {
	if w == nil {
		return
	}
	w.metrics = metrics
}

// Start consumes the fan-out queue until context cancellation.
func (w *FanoutWorker) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			w.logger.Info("fan-out worker started",
				zap.Int("workerId", workerID),
				zap.String("queue", queue.WorkQueue),
			)

			err := w.consumer.Consume(groupCtx, queue.WorkQueue, w.HandleMessage)
			if err != nil {
				w.logger.Error("fan-out worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			w.logger.Info("fan-out worker stopped",
				zap.Int("workerId", workerID),
			)
			return nil
		})
	}

	return g.Wait()
}

// HandleMessage processes one creation event. It returns an error only for
// broker-level problems; delivery failures are absorbed here so the broker
// never redelivers a fan-out that already ran.
func (w *FanoutWorker) HandleMessage(ctx context.Context, msg queue.NotificationCreatedMessage) error {
	if w == nil || w.dispatcher == nil {
		return fmt.Errorf("fan-out worker is not initialized")
	}

	ctx = observability.WithCorrelationID(ctx, msg.CorrelationID)
	logger := observability.WithContextLogger(w.logger, ctx).With(
		zap.String("notificationId", msg.NotificationID),
	)

	claimed, err := w.guard.Begin(ctx, msg.NotificationID)
	if err != nil {
		// Guard failure must not drop the fan-out; a rare duplicate send
		// beats losing the notification entirely.
		logger.Warn("dispatch guard unavailable, proceeding without it",
			zap.Error(err),
		)
	} else if !claimed {
		logger.Info("fan-out already dispatched, skipping redelivery")
		return nil
	}

	report, err := w.dispatcher.Dispatch(ctx, msg.NotificationID)
	if err != nil {
		logger.Error("fan-out failed", zap.Error(err))
		if w.metrics != nil {
			w.metrics.IncFanout("failure")
		}
		return nil
	}

	if w.metrics != nil {
		w.metrics.IncFanout("success")
	}

	if report != nil {
		logger.Info("fan-out dispatched",
			zap.Int("recipients", report.Recipients),
			zap.Int("delivered", report.Delivered),
			zap.Int("pruned", report.Pruned),
		)
	}

	return nil
}
