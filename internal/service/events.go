package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/notify"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// Clock — источник текущего времени.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// outbox копит уведомления, записанные в транзакции, до её коммита.
type outbox struct {
	events []notify.Event
}

func (o *outbox) add(ctx context.Context, tx *repository.Store, n *model.Notification, email string) error {
	if err := tx.Notifications.Create(ctx, n); err != nil {
		return storageError("create notification", err)
	}
	o.events = append(o.events, notify.FromNotification(*n, email))
	return nil
}

// dispatcher отдаёт закоммиченные события в sink. Сбой доставки только логируется.
type dispatcher struct {
	sink notify.Sink
	log  *zap.Logger
}

func newDispatcher(sink notify.Sink, log *zap.Logger) dispatcher {
	if sink == nil {
		sink = notify.Discard
	}
	return dispatcher{sink: sink, log: log}
}

func (d dispatcher) flush(ctx context.Context, o *outbox) {
	// запрос мог уже завершиться, а транзакция закоммичена
	ctx = context.WithoutCancel(ctx)
	for _, e := range o.events {
		if err := d.sink.Emit(ctx, e); err != nil {
			d.log.Warn("notify.deliver_failed",
				zap.String("notification_id", e.ID.String()),
				zap.String("kind", string(e.Kind)),
				zap.String("recipient_type", string(e.RecipientType)),
				zap.Error(err),
			)
		}
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func doctorName(d *model.Doctor) string {
	if d == nil || d.User == nil {
		return "your doctor"
	}
	return "Dr. " + d.User.FullName
}

func doctorEmail(d *model.Doctor) string {
	if d == nil || d.User == nil {
		return ""
	}
	return d.User.Email
}
