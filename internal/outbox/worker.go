package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studahub/backend/internal/repository"
	"github.com/studahub/backend/pkg/logger"
)

// Worker polls the email_outbox table, claims pending rows and delivers them
// through the Sender. Rows are retried until MaxAttempts, then parked as
// failed for manual inspection.
type Worker struct {
	repo         repository.OutboxRepository
	sender       Sender
	workers      int
	batchSize    int
	pollInterval time.Duration
	maxAttempts  int
}

func NewWorker(repo repository.OutboxRepository, sender Sender, workers, batchSize int, pollInterval time.Duration, maxAttempts int) *Worker {
	if workers <= 0 {
		workers = 2
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Worker{repo: repo, sender: sender, workers: workers, batchSize: batchSize, pollInterval: pollInterval, maxAttempts: maxAttempts}
}

// Start launches the poll loops and returns a stop function in the service
// shutdown convention: call it with a context to halt polling.
func (w *Worker) Start() func(context.Context) error {
	stop := make(chan struct{})
	for i := 0; i < w.workers; i++ {
		go w.loop(stop)
	}
	return func(ctx context.Context) error {
		close(stop)
		return nil
	}
}

func (w *Worker) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.ProcessOnce(context.Background())
		}
	}
}

// ProcessOnce claims and delivers a single batch. Exported so tests and the
// seed tooling can drive the worker without the ticker.
func (w *Worker) ProcessOnce(ctx context.Context) {
	batch, err := w.repo.Claim(ctx, w.batchSize)
	if err != nil {
		logger.Error("outbox: claim failed", zap.Error(err))
		return
	}
	for _, e := range batch {
		if err := w.sender.Send(ctx, e); err != nil {
			logger.Warn("outbox: send failed",
				zap.String("id", e.ID), zap.String("to", e.Recipient), zap.Error(err))
			if mErr := w.repo.MarkFailed(ctx, e.ID, err, w.maxAttempts); mErr != nil {
				logger.Error("outbox: mark failed", zap.String("id", e.ID), zap.Error(mErr))
			}
			continue
		}
		if err := w.repo.MarkSent(ctx, e.ID); err != nil {
			logger.Error("outbox: mark sent", zap.String("id", e.ID), zap.Error(err))
		}
	}
}
