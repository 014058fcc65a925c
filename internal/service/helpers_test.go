package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/notify"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (s *recordingSink) Emit(_ context.Context, e notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) snapshot() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

type fixture struct {
	store        *repository.Store
	sink         *recordingSink
	identity     *IdentityService
	doctors      *DoctorService
	appointments *AppointmentService
	payments     *PaymentService
	dashboard    *DashboardService
	notes        *NotificationService
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zaptest.NewLogger(t)
	store := repository.NewStore(db)
	sink := &recordingSink{}
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	clock := Clock(func() time.Time { return now })
	tokens := auth.NewTokenManager("test-secret", time.Hour).WithClock(func() time.Time { return now })

	return &fixture{
		store:        store,
		sink:         sink,
		identity:     NewIdentityService(store, tokens, log),
		doctors:      NewDoctorService(store, sink, log).WithClock(clock),
		appointments: NewAppointmentService(store, sink, log),
		payments:     NewPaymentService(store, log).WithClock(clock),
		dashboard:    NewDashboardService(store, time.UTC, log).WithClock(clock),
		notes:        NewNotificationService(store, log),
		now:          now,
	}
}

func (f *fixture) patient(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.identity.RegisterPatient(context.Background(), RegisterPatientInput{
		FullName: "Patient " + email,
		Email:    email,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	return u
}

func (f *fixture) pendingDoctor(t *testing.T, email, spec string, fee float64) *model.Doctor {
	t.Helper()
	d, err := f.doctors.Register(context.Background(), RegisterDoctorInput{
		FullName:       "House " + email,
		Email:          email,
		Password:       "secret1",
		Specialization: spec,
		Fee:            fee,
		Tags:           []string{"adult"},
		Schedules:      []string{"Mon 10:00-14:00"},
	})
	if err != nil {
		t.Fatalf("register doctor: %v", err)
	}
	return d
}

func (f *fixture) approvedDoctor(t *testing.T, email, spec string, fee float64) *model.Doctor {
	t.Helper()
	d := f.pendingDoctor(t, email, spec, fee)
	approved, err := f.doctors.Approve(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("approve doctor: %v", err)
	}
	return approved
}

func (f *fixture) book(t *testing.T, patient *model.User, doctor *model.Doctor, date time.Time) *model.Appointment {
	t.Helper()
	a, err := f.appointments.Book(context.Background(), BookInput{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      datatypes.Date(date),
		Time:      datatypes.NewTime(10, 30, 0, 0),
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return a
}
