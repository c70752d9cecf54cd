// Package notify delivers outbound "reservation confirmed" events. Delivery
// is fire-and-forget: it runs after the booking transaction has committed
// and a delivery failure never rolls the booking back.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/tablebook/internal/domain/reservation"
)

type Event struct {
	Reservations []reservation.Reservation
	Tables       []reservation.Table
}

// Notifier is the delivery collaborator. Implementations send email, chat
// links, whatever the venue wires up.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, ev Event) error
}

// LogNotifier just records the event. It is the default sink when no real
// channel is configured.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) ReservationConfirmed(_ context.Context, ev Event) error {
	ids := make([]string, 0, len(ev.Reservations))
	for _, r := range ev.Reservations {
		ids = append(ids, r.ID.String())
	}
	labels := make([]string, 0, len(ev.Tables))
	for _, t := range ev.Tables {
		labels = append(labels, t.Label)
	}
	n.Log.Info("reservation confirmed",
		zap.Strings("reservation_ids", ids),
		zap.Strings("tables", labels))
	return nil
}

// Dispatcher runs deliveries in their own goroutines and waits for them on
// shutdown.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(n Notifier, log *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, log: log, timeout: 10 * time.Second}
}

// Dispatch hands the event to the notifier asynchronously. Errors are
// logged and dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.ReservationConfirmed(ctx, ev); err != nil {
			d.log.Warn("confirmation notification failed", zap.Error(err))
		}
	}()
}

// Wait blocks until all in-flight deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
