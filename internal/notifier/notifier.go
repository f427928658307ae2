// Package notifier forwards domain events to an HTTP webhook through a bounded
// worker pool.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/core/metrics"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeDropped   = "dropped"
)

type Job struct {
	Event events.Event
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, process func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "event_id", job.Event.EventID())
				process(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	WebhookURL   string
	Timeout      time.Duration
	MaxWorkers   int
	JobQueueSize int
	// DrainTimeout bounds the delivery of events still queued at shutdown.
	DrainTimeout time.Duration
}

// Notifier posts every event it receives as JSON to the webhook. When the
// queue is full the event is dropped with a warning.
type Notifier struct {
	webhookURL   string
	httpClient   *http.Client
	logger       *slog.Logger
	drainTimeout time.Duration

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func New(config Config, logger *slog.Logger) *Notifier {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	drainTimeout := config.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = 2 * timeout
	}

	n := &Notifier{
		webhookURL:   config.WebhookURL,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
		drainTimeout: drainTimeout,
		maxWorkers:   maxWorkers,
		jobQueue:     make(chan Job, jobQueueSize),
		workerPool:   make(chan chan Job, maxWorkers),
		ctx:          ctx,
		cancel:       cancel,
	}
	n.start()
	return n
}

func (n *Notifier) start() {
	n.once.Do(func() {
		for i := 0; i < n.maxWorkers; i++ {
			NewWorker(i, n.workerPool, n.logger).Start(n.ctx, &n.wg, n.deliver)
		}

		n.wg.Add(1)
		go n.dispatch()

		n.logger.Info("notifier worker pool started",
			"max_workers", n.maxWorkers,
			"queue_size", cap(n.jobQueue),
			"webhook_url", n.webhookURL)
	})
}

func (n *Notifier) dispatch() {
	defer n.wg.Done()
	for {
		select {
		case job := <-n.jobQueue:
			select {
			case jobChannel := <-n.workerPool:
				select {
				case jobChannel <- job:
				case <-n.ctx.Done():
					n.requeue(job)
					return
				}
			case <-n.ctx.Done():
				n.requeue(job)
				return
			}
		case <-n.ctx.Done():
			n.logger.Info("notifier dispatcher shutting down")
			return
		}
	}
}

// Handle is an events.Handler. It only enqueues, so it never blocks the bus.
func (n *Notifier) Handle(_ context.Context, event events.Event) error {
	if n.ctx.Err() != nil {
		n.drop(event, "notifier is shut down")
		return nil
	}
	select {
	case n.jobQueue <- Job{Event: event}:
	default:
		n.drop(event, "notification queue full")
	}
	return nil
}

// Shutdown stops the workers, aborting deliveries in flight, then delivers
// what is still queued until the drain deadline. Events left after it are
// counted as dropped.
func (n *Notifier) Shutdown() {
	n.logger.Info("shutting down notifier")
	n.cancel()
	n.wg.Wait()
	n.drain()
	n.logger.Info("notifier shutdown complete")
}

func (n *Notifier) drain() {
	deadline := time.Now().Add(n.drainTimeout)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	for {
		select {
		case job := <-n.jobQueue:
			if !time.Now().Before(deadline) {
				n.drop(job.Event, "notifier drain deadline exceeded")
				continue
			}
			_ = n.Send(ctx, job.Event)
		default:
			return
		}
	}
}

// requeue puts back a job taken from the queue after shutdown began, so the
// drain sees it.
func (n *Notifier) requeue(job Job) {
	select {
	case n.jobQueue <- job:
	default:
		n.drop(job.Event, "notification queue full")
	}
}

func (n *Notifier) drop(event events.Event, reason string) {
	metrics.NotificationsTotal.WithLabelValues(OutcomeDropped).Inc()
	n.logger.Warn("dropping notification",
		"reason", reason,
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"queue_capacity", cap(n.jobQueue))
}

type payload struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

func (n *Notifier) deliver(job Job) {
	if n.ctx.Err() != nil {
		n.requeue(job)
		return
	}
	_ = n.Send(n.ctx, job.Event)
}

// Send posts event to the webhook on the calling goroutine, bypassing the
// queue. The outcome is counted and logged like a queued delivery.
func (n *Notifier) Send(ctx context.Context, event events.Event) error {
	if err := n.post(ctx, event); err != nil {
		metrics.NotificationsTotal.WithLabelValues(OutcomeFailed).Inc()
		n.logger.Error("notification delivery failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
		return err
	}
	metrics.NotificationsTotal.WithLabelValues(OutcomeDelivered).Inc()
	n.logger.Debug("notification delivered", "event_type", event.EventType(), "event_id", event.EventID())
	return nil
}

func (n *Notifier) post(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(payload{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt(),
		Data:       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", event.EventType())

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
