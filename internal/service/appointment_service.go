package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/notify"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// AppointmentService ведёт запись на приём по её жизненному циклу:
// PENDING → APPROVED → COMPLETED.
type AppointmentService struct {
	store  *repository.Store
	events dispatcher
	log    *zap.Logger
}

func NewAppointmentService(store *repository.Store, sink notify.Sink, log *zap.Logger) *AppointmentService {
	log = orNop(log)
	return &AppointmentService{store: store, events: newDispatcher(sink, log), log: log}
}

type BookInput struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      datatypes.Date
	Time      datatypes.Time
}

// Book создаёт запись в статусе PENDING без оплаты.
// Пересечения по времени не проверяются: две записи на один слот допустимы.
func (s *AppointmentService) Book(ctx context.Context, in BookInput) (*model.Appointment, error) {
	if in.PatientID == uuid.Nil || in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient and doctor are required", ErrInvalidArgument)
	}

	var (
		appt *model.Appointment
		out  outbox
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		patient, err := tx.Users.GetByID(ctx, in.PatientID)
		if err != nil {
			return storageError("find patient", err)
		}
		role, err := tx.Users.GetRole(ctx, patient.ID)
		if err != nil && !isNotFound(err) {
			return storageError("get patient role", err)
		}
		if role != model.RoleCodePatient {
			return fmt.Errorf("patient %s: %w", in.PatientID, ErrNotFound)
		}

		doctor, err := tx.Doctors.GetByID(ctx, in.DoctorID)
		if err != nil {
			return storageError("find doctor", err)
		}
		if !doctor.Bookable() {
			return fmt.Errorf("doctor %s is %s: %w", doctor.ID, doctor.Status, ErrDoctorNotEligible)
		}

		appt = &model.Appointment{
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			Date:      calendar.DateOf(time.Time(in.Date)),
			Time:      in.Time,
			Status:    model.AppointmentStatusPending,
		}
		if err := tx.Appointments.Create(ctx, appt); err != nil {
			return storageError("create appointment", err)
		}

		when := calendar.DateKey(appt.Date) + " at " + calendar.FormatTimeOfDay(appt.Time)
		if err := out.add(ctx, tx, &model.Notification{
			RecipientType: model.RecipientPatient,
			RecipientID:   patient.ID,
			Kind:          model.NotificationAppointmentBooked,
			Message:       fmt.Sprintf("Your appointment with %s on %s has been booked and awaits approval.", doctorName(doctor), when),
			AppointmentID: &appt.ID,
		}, patient.Email); err != nil {
			return err
		}
		return out.add(ctx, tx, &model.Notification{
			RecipientType: model.RecipientDoctor,
			RecipientID:   doctor.ID,
			Kind:          model.NotificationAppointmentBooked,
			Message:       fmt.Sprintf("New appointment request from %s on %s.", patient.FullName, when),
			AppointmentID: &appt.ID,
		}, doctorEmail(doctor))
	})
	if err != nil {
		return nil, storageError("book appointment", err)
	}

	s.events.flush(ctx, &out)
	s.log.Info("appointment.booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("doctor_id", appt.DoctorID.String()),
		zap.String("patient_id", appt.PatientID.String()),
	)
	return appt, nil
}

// Approve: PENDING → APPROVED.
func (s *AppointmentService) Approve(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentActionApprove)
}

// Complete: APPROVED → COMPLETED.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentActionComplete)
}

var transitionEvents = map[model.AppointmentAction]struct {
	kind    model.NotificationKind
	message string
}{
	model.AppointmentActionApprove: {
		kind:    model.NotificationAppointmentApproved,
		message: "Your appointment with %s on %s has been approved.",
	},
	model.AppointmentActionComplete: {
		kind:    model.NotificationAppointmentCompleted,
		message: "Your appointment with %s on %s has been completed.",
	},
}

func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, action model.AppointmentAction) (*model.Appointment, error) {
	var (
		appt *model.Appointment
		out  outbox
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		cur, err := tx.Appointments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return storageError("load appointment", err)
		}

		next, ok := cur.Status.Next(action)
		if !ok {
			return fmt.Errorf("%s appointment %s in status %s: %w", action, id, cur.Status, ErrInvalidTransition)
		}
		applied, err := tx.Appointments.UpdateStatus(ctx, id, cur.Status, next)
		if err != nil {
			return storageError("update appointment status", err)
		}
		if !applied {
			return fmt.Errorf("%s appointment %s: status changed concurrently: %w", action, id, ErrInvalidTransition)
		}

		appt, err = tx.Appointments.GetByID(ctx, id)
		if err != nil {
			return storageError("reload appointment", err)
		}

		patient, err := tx.Users.GetByID(ctx, appt.PatientID)
		if err != nil {
			return storageError("find patient", err)
		}
		doctor, err := tx.Doctors.GetByID(ctx, appt.DoctorID)
		if err != nil {
			return storageError("find doctor", err)
		}

		ev := transitionEvents[action]
		when := calendar.DateKey(appt.Date) + " at " + calendar.FormatTimeOfDay(appt.Time)
		return out.add(ctx, tx, &model.Notification{
			RecipientType: model.RecipientPatient,
			RecipientID:   patient.ID,
			Kind:          ev.kind,
			Message:       fmt.Sprintf(ev.message, doctorName(doctor), when),
			AppointmentID: &appt.ID,
		}, patient.Email)
	})
	if err != nil {
		return nil, storageError(string(action)+" appointment", err)
	}

	s.events.flush(ctx, &out)
	s.log.Info("appointment."+strings.ToLower(string(appt.Status)),
		zap.String("appointment_id", appt.ID.String()),
		zap.String("action", string(action)),
	)
	return appt, nil
}

// ListByDoctor — записи врача в порядке создания.
func (s *AppointmentService) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.Appointment, error) {
	items, err := s.store.Appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, storageError("list doctor appointments", err)
	}
	return items, nil
}

// ListByPatient — записи пациента в порядке создания.
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.Appointment, error) {
	items, err := s.store.Appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, storageError("list patient appointments", err)
	}
	return items, nil
}

// ListAll — все записи постранично, для администратора.
func (s *AppointmentService) ListAll(ctx context.Context, page, pageSize int) (calendar.Page[model.Appointment], error) {
	items, err := s.store.Appointments.ListAll(ctx)
	if err != nil {
		return calendar.Page[model.Appointment]{}, storageError("list appointments", err)
	}
	return calendar.Paginate(items, page, pageSize), nil
}

// Get возвращает запись по ID.
func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, err := s.store.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get appointment", err)
	}
	return a, nil
}
