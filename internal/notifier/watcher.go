package notifier

import (
	"context"
	"time"

	"rentradar/internal/models"

	"go.uber.org/zap"
)

// WatcherStore lists matches that have no recorded delivery attempt.
type WatcherStore interface {
	GetUndispatchedMatches(ctx context.Context, limit int) ([]models.Match, error)
}

// Watcher polls for newly created matches and hands each to the
// dispatcher. Dispatch is decoupled from the match engine: the engine
// only writes rows, the watcher observes them.
type Watcher struct {
	store      WatcherStore
	dispatcher *Dispatcher
	interval   time.Duration
	batchSize  int
	logger     *zap.Logger
}

func NewWatcher(store WatcherStore, dispatcher *Dispatcher, interval time.Duration, batchSize int, logger *zap.Logger) *Watcher {
	return &Watcher{
		store:      store,
		dispatcher: dispatcher,
		interval:   interval,
		batchSize:  batchSize,
		logger:     logger,
	}
}

func (w *Watcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("dispatch watcher started",
		zap.Duration("interval", w.interval),
		zap.Int("batch_size", w.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("dispatch watcher stopped")
			return
		case <-ticker.C:
			w.dispatchPending(ctx)
		}
	}
}

func (w *Watcher) dispatchPending(ctx context.Context) {
	listCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	matches, err := w.store.GetUndispatchedMatches(listCtx, w.batchSize)
	cancel()
	if err != nil {
		w.logger.Error("failed to list undispatched matches", zap.Error(err))
		return
	}

	if len(matches) == 0 {
		return
	}

	w.logger.Info("dispatching pending matches", zap.Int("count", len(matches)))

	for _, match := range matches {
		if err := w.notifyOne(ctx, match.ID); err != nil {
			w.logger.Error("failed to dispatch match",
				zap.String("match_id", match.ID),
				zap.Error(err),
			)
			continue
		}

		// pace deliveries to stay under messenger rate limits
		time.Sleep(200 * time.Millisecond)
	}
}

// notifyOne gives each match its own delivery budget. A shared deadline
// would expire under the pacing sleeps on a large batch and fail its
// tail.
func (w *Watcher) notifyOne(ctx context.Context, matchID string) error {
	notifyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return w.dispatcher.Notify(notifyCtx, matchID)
}
