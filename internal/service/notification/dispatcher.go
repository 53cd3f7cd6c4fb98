package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/notification"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/sse"
)

// Config holds dispatcher configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type Dispatcher struct {
	hub    *sse.Hub
	logger *slog.Logger
	config Config
	now    func() time.Time

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewDispatcher starts the dispatcher workers. Call Stop to drain and shut down.
func NewDispatcher(hub *sse.Hub, logger *slog.Logger, cfg Config) *Dispatcher {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Dispatcher{
		hub:    hub,
		logger: logger.With("component", "notification"),
		config: cfg,
		now:    time.Now,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.logger.Info("notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return s
}

// Notify queues event for delivery. It never blocks; when the queue is full the event is dropped.
func (s *Dispatcher) Notify(ctx context.Context, event notification.Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}

	select {
	case <-s.stopCh:
		s.logger.Warn("notification dropped, dispatcher stopped", "type", event.Type, "business_id", event.BusinessID)
		return
	default:
	}

	select {
	case s.queue <- event:
	default:
		s.logger.Warn("notification dropped, queue full", "type", event.Type, "business_id", event.BusinessID)
	}
}

func (s *Dispatcher) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.deliver(id, event)
		case <-s.stopCh:
			for {
				select {
				case event := <-s.queue:
					s.deliver(id, event)
				default:
					return
				}
			}
		}
	}
}

func (s *Dispatcher) deliver(worker int, event notification.Event) {
	delivered := s.hub.Publish(event.BusinessID, sse.Event{Name: "notification", Data: event})

	s.logger.Info("notification",
		"worker", worker,
		"type", event.Type,
		"business_id", event.BusinessID,
		"recipient_id", event.RecipientID,
		"title", event.Title,
		"subscribers", delivered,
	)
}

func (s *Dispatcher) Subscribe(ctx context.Context, businessID string, recipientID string) (<-chan notification.Event, func()) {
	ch, cleanup := s.hub.Subscribe(businessID)

	out := make(chan notification.Event, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				n, ok := event.Data.(notification.Event)
				if !ok {
					continue
				}
				if n.RecipientID != "" && n.RecipientID != recipientID {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop delivers what is still queued and waits for the workers to exit.
func (s *Dispatcher) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		s.logger.Info("notification dispatcher stopped")
	})
}
