package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/model"
)

func TestPaymentService_PayTwiceWhilePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 750.5)
	a := f.book(t, p, d, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	first, err := f.payments.Pay(ctx, a.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if first.Amount != 750.5 {
		t.Fatalf("expected amount = fee, got %v", first.Amount)
	}
	if !first.PaidAt.Equal(f.now) {
		t.Fatalf("expected paid at %v, got %v", f.now, first.PaidAt)
	}
	if first.Appointment == nil || !first.Appointment.Paid || first.Appointment.Status != model.AppointmentStatusPending {
		t.Fatalf("expected paid PENDING appointment, got %+v", first.Appointment)
	}

	second, err := f.payments.Pay(ctx, a.ID)
	if err != nil {
		t.Fatalf("second pay: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("second pay must create a new payment")
	}

	stored, err := f.appointments.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Paid || stored.Status != model.AppointmentStatusPending {
		t.Fatalf("pay must set paid and keep status, got paid=%v status=%s", stored.Paid, stored.Status)
	}

	list, err := f.store.Payments.ListByAppointment(ctx, a.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 payments, got %d (%v)", len(list), err)
	}
}

func TestPaymentService_PayUnknown(t *testing.T) {
	f := newFixture(t)
	if _, err := f.payments.Pay(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPaymentService_Receipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 100)
	a := f.book(t, p, d, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	pay, err := f.payments.Pay(ctx, a.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	pdf, err := f.payments.Receipt(ctx, pay.ID)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("receipt is not a PDF")
	}

	if _, err := f.payments.Receipt(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
