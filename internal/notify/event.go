// Package notify доставляет события рабочего процесса во внешние каналы
// (redis pub/sub, rabbitmq, e-mail, лог). Доставка идёт после коммита
// транзакции и не повторяется.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/model"
)

// Event — сохранённое уведомление в виде, пригодном для отправки.
type Event struct {
	ID            uuid.UUID              `json:"id"`
	Kind          model.NotificationKind `json:"kind"`
	RecipientType model.RecipientType    `json:"recipientType"`
	RecipientID   uuid.UUID              `json:"recipientId"`
	AppointmentID *uuid.UUID             `json:"appointmentId,omitempty"`
	Message       string                 `json:"message"`
	CreatedAt     time.Time              `json:"createdAt"`

	// Адрес получателя; используется только почтовым каналом.
	Email string `json:"-"`
}

func FromNotification(n model.Notification, email string) Event {
	return Event{
		ID:            n.ID,
		Kind:          n.Kind,
		RecipientType: n.RecipientType,
		RecipientID:   n.RecipientID,
		AppointmentID: n.AppointmentID,
		Message:       n.Message,
		CreatedAt:     n.CreatedAt,
		Email:         email,
	}
}

func (e Event) payload() ([]byte, error) {
	return json.Marshal(e)
}

// Sink принимает события. Ошибка означает, что событие не доставлено.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// SinkFunc позволяет использовать функцию как Sink.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Emit(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard ничего не делает.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })
