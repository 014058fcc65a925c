package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Статус записи на приём. Движется только вперёд:
//
//	PENDING → APPROVED → COMPLETED
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusApproved  AppointmentStatus = "APPROVED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

type AppointmentAction string

const (
	AppointmentActionApprove  AppointmentAction = "approve"
	AppointmentActionComplete AppointmentAction = "complete"
)

var appointmentTransitions = map[AppointmentStatus]map[AppointmentAction]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentActionApprove: AppointmentStatusApproved},
	AppointmentStatusApproved:  {AppointmentActionComplete: AppointmentStatusCompleted},
	AppointmentStatusCompleted: {},
}

// Next возвращает статус после action или false, если переход запрещён.
func (s AppointmentStatus) Next(action AppointmentAction) (AppointmentStatus, bool) {
	next, ok := appointmentTransitions[s][action]
	return next, ok
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// appointments
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	PatientID uuid.UUID `gorm:"type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index"`

	// Календарная дата и локальное время приёма, без таймзоны.
	Date datatypes.Date `gorm:"column:appointment_date;not null;index"`
	Time datatypes.Time `gorm:"column:appointment_time;not null"`

	Status AppointmentStatus `gorm:"type:varchar(32);not null;index"`
	Paid   bool              `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Patient *User   `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Doctor  *Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// BeforeCreate выдаёт UUIDv7: id растёт со временем и служит вторым ключом
// сортировки после created_at.
func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	if a.Status == "" {
		a.Status = AppointmentStatusPending
	}
	return nil
}
