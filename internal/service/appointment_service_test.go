package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/clinic-booking/internal/model"
)

func TestAppointmentService_BookOnApprovedDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "Cardiology", 500)
	before := len(f.sink.snapshot())

	a := f.book(t, p, d, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	if a.Status != model.AppointmentStatusPending || a.Paid {
		t.Fatalf("expected PENDING unpaid, got %s paid=%v", a.Status, a.Paid)
	}

	events := f.sink.snapshot()[before:]
	if len(events) != 2 {
		t.Fatalf("expected 2 booked events, got %d", len(events))
	}
	got := map[model.RecipientType]bool{}
	for _, e := range events {
		if e.Kind != model.NotificationAppointmentBooked {
			t.Fatalf("unexpected kind %s", e.Kind)
		}
		if e.AppointmentID == nil || *e.AppointmentID != a.ID {
			t.Fatalf("event not linked to appointment")
		}
		got[e.RecipientType] = true
	}
	if !got[model.RecipientPatient] || !got[model.RecipientDoctor] {
		t.Fatalf("expected events for patient and doctor, got %v", got)
	}

	stored, err := f.notes.List(ctx, model.RecipientDoctor, d.ID, true)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(stored) != 1 || stored[0].Kind != model.NotificationAppointmentBooked {
		t.Fatalf("expected persisted booked notification for doctor, got %+v", stored)
	}
}

func TestAppointmentService_BookRejectsPendingDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.pendingDoctor(t, "doc@example.com", "Cardiology", 500)

	_, err := f.appointments.Book(ctx, BookInput{
		PatientID: p.ID,
		DoctorID:  d.ID,
		Date:      datatypes.Date(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
		Time:      datatypes.NewTime(9, 0, 0, 0),
	})
	if !errors.Is(err, ErrDoctorNotEligible) {
		t.Fatalf("expected ErrDoctorNotEligible, got %v", err)
	}

	items, err := f.appointments.ListByDoctor(ctx, d.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected booking must not create appointment")
	}
	if n := len(f.sink.snapshot()); n != 0 {
		t.Fatalf("rejected booking must not emit events, got %d", n)
	}
}

func TestAppointmentService_BookUnknownParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 100)
	date := datatypes.Date(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	cases := []BookInput{
		{PatientID: uuid.New(), DoctorID: d.ID, Date: date},
		{PatientID: p.ID, DoctorID: uuid.New(), Date: date},
		// врач не может записаться как пациент
		{PatientID: d.UserID, DoctorID: d.ID, Date: date},
	}
	for i, in := range cases {
		if _, err := f.appointments.Book(ctx, in); !errors.Is(err, ErrNotFound) {
			t.Fatalf("case %d: expected ErrNotFound, got %v", i, err)
		}
	}

	if _, err := f.appointments.Book(ctx, BookInput{DoctorID: d.ID}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing patient, got %v", err)
	}
}

func TestAppointmentService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 100)
	a := f.book(t, p, d, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	if _, err := f.appointments.Complete(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete on PENDING: expected ErrInvalidTransition, got %v", err)
	}

	approved, err := f.appointments.Approve(ctx, a.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.AppointmentStatusApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}

	if _, err := f.appointments.Approve(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-approve: expected ErrInvalidTransition, got %v", err)
	}

	completed, err := f.appointments.Complete(ctx, a.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != model.AppointmentStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}

	for _, op := range []func(context.Context, uuid.UUID) (*model.Appointment, error){f.appointments.Approve, f.appointments.Complete} {
		if _, err := op(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("COMPLETED is terminal, got %v", err)
		}
	}

	stored, err := f.appointments.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != model.AppointmentStatusCompleted {
		t.Fatalf("status regressed to %s", stored.Status)
	}

	var kinds []model.NotificationKind
	for _, e := range f.sink.snapshot() {
		if e.RecipientType == model.RecipientPatient {
			kinds = append(kinds, e.Kind)
		}
	}
	want := []model.NotificationKind{
		model.NotificationAppointmentBooked,
		model.NotificationAppointmentApproved,
		model.NotificationAppointmentCompleted,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected patient events %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected patient events %v, got %v", want, kinds)
		}
	}
}

func TestAppointmentService_TransitionsUnknownID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.appointments.Approve(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("approve: expected ErrNotFound, got %v", err)
	}
	if _, err := f.appointments.Complete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("complete: expected ErrNotFound, got %v", err)
	}
}

func TestAppointmentService_ConcurrentApproveAppliesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 100)
	a := f.book(t, p, d, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	const workers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		invalid int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.appointments.Approve(ctx, a.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInvalidTransition):
				invalid++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || invalid != workers-1 {
		t.Fatalf("expected exactly one approval, got ok=%d invalid=%d", ok, invalid)
	}
}

func TestAppointmentService_DoubleBookingAllowedAndOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.patient(t, "one@example.com")
	p2 := f.patient(t, "two@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 100)
	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	a1 := f.book(t, p1, d, date)
	a2 := f.book(t, p2, d, date)

	items, err := f.appointments.ListByDoctor(ctx, d.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != a1.ID || items[1].ID != a2.ID {
		t.Fatalf("expected both bookings in insertion order, got %+v", items)
	}

	mine, err := f.appointments.ListByPatient(ctx, p2.ID)
	if err != nil || len(mine) != 1 || mine[0].ID != a2.ID {
		t.Fatalf("unexpected patient list %+v (%v)", mine, err)
	}

	page, err := f.appointments.ListAll(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 1 || page.Items[0].ID != a2.ID || !page.HasPrev || page.HasNext {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestAppointmentService_SinkFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.patient(t, "pat@example.com")
	d := f.approvedDoctor(t, "doc@example.com", "ENT", 100)
	f.sink.err = errors.New("broker down")

	a := f.book(t, p, d, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	if _, err := f.appointments.Approve(ctx, a.ID); err != nil {
		t.Fatalf("approve must succeed despite sink failure: %v", err)
	}
}
