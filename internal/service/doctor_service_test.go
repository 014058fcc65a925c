package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/model"
)

func TestDoctorService_RegisterIsPendingAndHidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.pendingDoctor(t, "doc@example.com", "Neurology", 900)
	if d.Status != model.ApprovalStatusPending {
		t.Fatalf("expected PENDING, got %s", d.Status)
	}
	if d.User == nil || d.User.PasswordHash == "secret1" || !auth.VerifyPassword(d.User.PasswordHash, "secret1") {
		t.Fatalf("password must be stored as bcrypt hash")
	}

	found, err := f.doctors.Search(ctx, "Neurology")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("pending doctor must not be searchable, got %d", len(found))
	}
}

func TestDoctorService_ApproveMakesSearchable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.pendingDoctor(t, "doc@example.com", "Neurology", 900)

	approved, err := f.doctors.Approve(ctx, d.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.ApprovalStatusApproved || approved.ApprovedAt == nil {
		t.Fatalf("expected APPROVED with timestamp, got %s %v", approved.Status, approved.ApprovedAt)
	}

	found, err := f.doctors.Search(ctx, "neurology")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != d.ID {
		t.Fatalf("approved doctor must be searchable, got %+v", found)
	}

	if _, err := f.doctors.Approve(ctx, d.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("repeat approve: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.doctors.Approve(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown doctor: expected ErrNotFound, got %v", err)
	}

	events := f.sink.snapshot()
	if len(events) != 1 || events[0].Kind != model.NotificationDoctorApproved || events[0].RecipientID != d.ID {
		t.Fatalf("expected single doctor_approved event, got %+v", events)
	}
	if events[0].Email != "doc@example.com" {
		t.Fatalf("expected event addressed to doctor, got %q", events[0].Email)
	}
}

func TestDoctorService_ListPendingInRegistrationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.pendingDoctor(t, "a@example.com", "ENT", 1)
	second := f.pendingDoctor(t, "b@example.com", "ENT", 1)
	third := f.pendingDoctor(t, "c@example.com", "ENT", 1)

	if _, err := f.doctors.Approve(ctx, second.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := f.doctors.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.ID || pending[1].ID != third.ID {
		t.Fatalf("unexpected pending list %+v", pending)
	}
}

func TestDoctorService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []RegisterDoctorInput{
		{FullName: "No Email", Password: "secret1", Specialization: "ENT"},
		{FullName: "Short", Email: "x@example.com", Password: "123", Specialization: "ENT"},
		{FullName: "No Spec", Email: "y@example.com", Password: "secret1"},
		{FullName: "Neg Fee", Email: "z@example.com", Password: "secret1", Specialization: "ENT", Fee: -1},
	}
	for i, in := range cases {
		if _, err := f.doctors.Register(ctx, in); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}

	f.pendingDoctor(t, "dup@example.com", "ENT", 1)
	_, err := f.doctors.Register(ctx, RegisterDoctorInput{
		FullName: "Dup", Email: "DUP@example.com", Password: "secret1", Specialization: "ENT",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDoctorService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.pendingDoctor(t, "doc@example.com", "ENT", 1)
	got, err := f.doctors.Profile(ctx, d.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.User == nil || got.User.Email != "doc@example.com" {
		t.Fatalf("expected profile with account, got %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "adult" || len(got.Schedules) != 1 {
		t.Fatalf("tags/schedules not persisted: %+v", got)
	}

	if _, err := f.doctors.Profile(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
