package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/notify"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// DoctorService — регистрация врачей, допуск администратором и поиск.
type DoctorService struct {
	store  *repository.Store
	events dispatcher
	clock  Clock
	log    *zap.Logger
}

func NewDoctorService(store *repository.Store, sink notify.Sink, log *zap.Logger) *DoctorService {
	log = orNop(log)
	return &DoctorService{store: store, events: newDispatcher(sink, log), log: log}
}

func (s *DoctorService) WithClock(c Clock) *DoctorService {
	s.clock = c
	return s
}

type RegisterDoctorInput struct {
	FullName       string   `validate:"required,max=255"`
	Email          string   `validate:"required,email"`
	Password       string   `validate:"required,min=6"`
	Gender         string   `validate:"omitempty,max=32"`
	Specialization string   `validate:"required,max=128"`
	Qualification  string   `validate:"omitempty,max=255"`
	Bio            string   `validate:"omitempty"`
	Fee            float64  `validate:"gte=0"`
	Rating         float64  `validate:"gte=0,lte=5"`
	Tags           []string `validate:"dive,required"`
	Schedules      []string `validate:"dive,required"`
}

// Register создаёт учётку врача и профиль в статусе PENDING.
func (s *DoctorService) Register(ctx context.Context, in RegisterDoctorInput) (*model.Doctor, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var d *model.Doctor
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := createUser(ctx, tx, in.Email, in.Password, in.FullName, in.Gender, model.RoleCodeDoctor)
		if err != nil {
			return err
		}
		d = &model.Doctor{
			UserID:         u.ID,
			Specialization: in.Specialization,
			Qualification:  in.Qualification,
			Bio:            in.Bio,
			Fee:            in.Fee,
			Rating:         in.Rating,
			Tags:           in.Tags,
			Schedules:      in.Schedules,
			Status:         model.ApprovalStatusPending,
		}
		if err := tx.Doctors.Create(ctx, d); err != nil {
			return storageError("create doctor", err)
		}
		d.User = u
		return nil
	})
	if err != nil {
		return nil, storageError("register doctor", err)
	}

	s.log.Info("doctor.registered",
		zap.String("doctor_id", d.ID.String()),
		zap.String("specialization", d.Specialization),
	)
	return d, nil
}

// Approve переводит врача PENDING → APPROVED. Повторное одобрение — ErrInvalidTransition.
func (s *DoctorService) Approve(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var (
		d   *model.Doctor
		out outbox
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		cur, err := tx.Doctors.GetByIDForUpdate(ctx, id)
		if err != nil {
			return storageError("load doctor", err)
		}

		next, ok := cur.Status.Next(model.DoctorActionApprove)
		if !ok {
			return fmt.Errorf("approve doctor %s in status %s: %w", id, cur.Status, ErrInvalidTransition)
		}
		applied, err := tx.Doctors.UpdateStatus(ctx, id, cur.Status, next, s.clock.now())
		if err != nil {
			return storageError("update doctor status", err)
		}
		if !applied {
			return fmt.Errorf("approve doctor %s: status changed concurrently: %w", id, ErrInvalidTransition)
		}

		d, err = tx.Doctors.GetByID(ctx, id)
		if err != nil {
			return storageError("reload doctor", err)
		}

		return out.add(ctx, tx, &model.Notification{
			RecipientType: model.RecipientDoctor,
			RecipientID:   d.ID,
			Kind:          model.NotificationDoctorApproved,
			Message:       "Your profile has been approved. Patients can now find and book you.",
		}, doctorEmail(d))
	})
	if err != nil {
		return nil, storageError("approve doctor", err)
	}

	s.events.flush(ctx, &out)
	s.log.Info("doctor.approved", zap.String("doctor_id", d.ID.String()))
	return d, nil
}

// ListPending — врачи, ожидающие допуска, в порядке регистрации.
func (s *DoctorService) ListPending(ctx context.Context) ([]model.Doctor, error) {
	items, err := s.store.Doctors.ListByStatus(ctx, model.ApprovalStatusPending)
	if err != nil {
		return nil, storageError("list pending doctors", err)
	}
	return items, nil
}

// Search ищет среди одобренных врачей. Регистр специализации не важен.
func (s *DoctorService) Search(ctx context.Context, specialization string) ([]model.Doctor, error) {
	items, err := s.store.Doctors.SearchApproved(ctx, specialization)
	if err != nil {
		return nil, storageError("search doctors", err)
	}
	return items, nil
}

// Profile возвращает врача в любом статусе.
func (s *DoctorService) Profile(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, err := s.store.Doctors.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get doctor", err)
	}
	return d, nil
}
