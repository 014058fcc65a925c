package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/receipt"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// PaymentService фиксирует оплату приёма. Реального списания денег нет.
type PaymentService struct {
	store *repository.Store
	clock Clock
	log   *zap.Logger
}

func NewPaymentService(store *repository.Store, log *zap.Logger) *PaymentService {
	return &PaymentService{store: store, log: orNop(log)}
}

func (s *PaymentService) WithClock(c Clock) *PaymentService {
	s.clock = c
	return s
}

// Pay создаёт платёж на сумму гонорара врача и ставит флаг оплаты.
// Статус записи не меняется; оплата разрешена в любом статусе,
// каждый вызов создаёт новый платёж.
func (s *PaymentService) Pay(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	var p *model.Payment
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		appt, err := tx.Appointments.GetByIDForUpdate(ctx, appointmentID)
		if err != nil {
			return storageError("load appointment", err)
		}
		doctor, err := tx.Doctors.GetByID(ctx, appt.DoctorID)
		if err != nil {
			return storageError("find doctor", err)
		}

		p = &model.Payment{
			AppointmentID: appt.ID,
			Amount:        doctor.Fee,
			PaidAt:        s.clock.now(),
		}
		if err := tx.Payments.Create(ctx, p); err != nil {
			return storageError("create payment", err)
		}
		if err := tx.Appointments.MarkPaid(ctx, appt.ID); err != nil {
			return storageError("mark appointment paid", err)
		}

		appt.Paid = true
		p.Appointment = appt
		return nil
	})
	if err != nil {
		return nil, storageError("pay appointment", err)
	}

	s.log.Info("payment.recorded",
		zap.String("payment_id", p.ID.String()),
		zap.String("appointment_id", p.AppointmentID.String()),
		zap.Float64("amount", p.Amount),
	)
	return p, nil
}

// Get возвращает платёж по ID.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	p, err := s.store.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get payment", err)
	}
	return p, nil
}

// Receipt рендерит PDF-квитанцию по платежу.
func (s *PaymentService) Receipt(ctx context.Context, paymentID uuid.UUID) ([]byte, error) {
	p, err := s.store.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, storageError("get payment", err)
	}
	appt, err := s.store.Appointments.GetByID(ctx, p.AppointmentID)
	if err != nil {
		return nil, storageError("get appointment", err)
	}
	patient, err := s.store.Users.GetByID(ctx, appt.PatientID)
	if err != nil {
		return nil, storageError("get patient", err)
	}
	doctor, err := s.store.Doctors.GetByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, storageError("get doctor", err)
	}

	return receipt.Render(receipt.Details{
		PaymentID:      p.ID.String(),
		AppointmentID:  appt.ID.String(),
		PatientName:    patient.FullName,
		PatientEmail:   patient.Email,
		DoctorName:     doctorName(doctor),
		Specialization: doctor.Specialization,
		Date:           calendar.DateKey(appt.Date),
		Time:           calendar.FormatTimeOfDay(appt.Time),
		Status:         string(appt.Status),
		Amount:         p.Amount,
		PaidAt:         p.PaidAt,
	})
}
