package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/metrics"
	"solarhub/internal/port"
)

// NotificationConfig holds settings for the notification worker.
type NotificationConfig struct {
	Concurrency int
	Timeout     time.Duration
}

// NotificationWorker delivers ApplicationCreated events to the Notifier.
// Delivery failures are logged and counted; they never reach the creator.
type NotificationWorker struct {
	bus      *EventBus
	notifier port.Notifier
	cfg      NotificationConfig
	log      *zap.Logger
	wg       sync.WaitGroup
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(bus *EventBus, notifier port.Notifier, cfg NotificationConfig, log *zap.Logger) *NotificationWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &NotificationWorker{bus: bus, notifier: notifier, cfg: cfg, log: log}
}

// Start consumes events until ctx is canceled or the bus is closed. It
// blocks until all in-flight sends have finished.
func (w *NotificationWorker) Start(ctx context.Context) {
	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info("notificationWorker: started", zap.Int("concurrency", w.cfg.Concurrency))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("notificationWorker: shutting down, waiting for in-flight sends")
			w.wg.Wait()
			w.log.Info("notificationWorker: shutdown complete")
			return
		case evt, ok := <-w.bus.Events():
			if !ok {
				w.wg.Wait()
				w.log.Info("notificationWorker: event bus closed")
				return
			}

			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				metrics.Notifications.WithLabelValues("skipped").Inc()
				continue
			}
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer func() { <-sem }() // release

				// Detached from ctx so in-flight sends complete during shutdown.
				sendCtx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
				defer cancel()
				w.deliver(sendCtx, evt)
			}()
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, evt domain.ApplicationCreated) {
	app := evt.Application
	res, err := w.notifier.NotifyNewApplication(ctx, &app)
	if err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		w.log.Error("notificationWorker: notify failed",
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
		return
	}
	if res != nil && !res.Success {
		metrics.Notifications.WithLabelValues("failed").Inc()
		w.log.Error("notificationWorker: relay rejected notification",
			zap.String("application_id", app.ID.String()),
			zap.String("error", res.Error))
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	w.log.Debug("notificationWorker: notification sent", zap.String("application_id", app.ID.String()))
}
