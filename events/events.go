package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Kariqs/tiendeo-api/models"
)

// Sink delivers one order event to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event models.OrderEvent) error
}

// Dispatcher fans order events out to every sink without blocking the caller.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, sinks ...Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{sinks: sinks, timeout: timeout}
}

func (d *Dispatcher) Publish(ctx context.Context, event models.OrderEvent) {
	for _, sink := range d.sinks {
		d.wg.Add(1)
		go func(sink Sink) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			if err := sink.Deliver(ctx, event); err != nil {
				slog.Error("failed to deliver order event",
					"sink", sink.Name(),
					"event_id", event.ID,
					"type", event.Type,
					"error", err.Error(),
				)
			}
		}(sink)
	}
}

// Wait blocks until in-flight deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
