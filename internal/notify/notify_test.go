package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"

	"github.com/Leganyst/clinic-booking/internal/model"
)

func sampleEvent() Event {
	apptID := uuid.New()
	return Event{
		ID:            uuid.New(),
		Kind:          model.NotificationAppointmentApproved,
		RecipientType: model.RecipientPatient,
		RecipientID:   uuid.New(),
		AppointmentID: &apptID,
		Message:       "Your appointment has been approved",
		CreatedAt:     time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Email:         "pat@example.com",
	}
}

type fakePublisher struct {
	channel string
	body    []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.body, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func TestRedisSink_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	e := sampleEvent()

	if err := NewRedisSink(pub, "clinic").Emit(context.Background(), e); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if pub.channel != "clinic" {
		t.Fatalf("expected channel clinic, got %q", pub.channel)
	}

	var got map[string]any
	if err := json.Unmarshal(pub.body, &got); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if got["kind"] != string(model.NotificationAppointmentApproved) {
		t.Fatalf("unexpected kind %v", got["kind"])
	}
	if _, leaked := got["Email"]; leaked {
		t.Fatalf("email must not be published")
	}

	pub.err = errors.New("down")
	if err := NewRedisSink(pub, "clinic").Emit(context.Background(), e); err == nil {
		t.Fatalf("expected publish error")
	}
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func TestAMQPSink_RoutingKeyAndHeaders(t *testing.T) {
	ch := &fakeChannel{}
	e := sampleEvent()

	if err := NewAMQPSink(ch, "clinic.notifications").Emit(context.Background(), e); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if ch.exchange != "clinic.notifications" {
		t.Fatalf("unexpected exchange %q", ch.exchange)
	}
	if ch.key != "notification.appointment_approved" {
		t.Fatalf("unexpected routing key %q", ch.key)
	}
	if ch.msg.MessageId != e.ID.String() || ch.msg.ContentType != "application/json" {
		t.Fatalf("unexpected publishing %+v", ch.msg)
	}
}

type fakeSender struct {
	sent []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return nil
}

func TestMailSink_SendsOnlyWithAddress(t *testing.T) {
	sender := &fakeSender{}
	sink := NewMailSink(sender, "clinic@example.com")

	e := sampleEvent()
	if err := sink.Emit(context.Background(), e); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if to := m.GetHeader("To"); len(to) != 1 || to[0] != "pat@example.com" {
		t.Fatalf("unexpected To %v", to)
	}
	if subj := m.GetHeader("Subject"); len(subj) != 1 || subj[0] != "Appointment approved" {
		t.Fatalf("unexpected Subject %v", subj)
	}

	e.Email = ""
	if err := sink.Emit(context.Background(), e); err != nil {
		t.Fatalf("emit without address: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("event without address must be skipped")
	}
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	var calls int
	ok := SinkFunc(func(context.Context, Event) error { calls++; return nil })
	failA := errors.New("a")
	failB := errors.New("b")

	m := Multi{
		SinkFunc(func(context.Context, Event) error { return failA }),
		ok,
		nil,
		SinkFunc(func(context.Context, Event) error { return failB }),
		NewLogSink(zaptest.NewLogger(t)),
	}

	err := m.Emit(context.Background(), sampleEvent())
	if !errors.Is(err, failA) || !errors.Is(err, failB) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("healthy sink must still receive the event, calls=%d", calls)
	}

	if err := (Multi{ok, Discard}).Emit(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
