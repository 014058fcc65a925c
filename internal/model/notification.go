package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Кому адресовано уведомление.
type RecipientType string

const (
	RecipientPatient RecipientType = "PATIENT"
	RecipientDoctor  RecipientType = "DOCTOR"
	RecipientAdmin   RecipientType = "ADMIN"
)

func (t RecipientType) Valid() bool {
	switch t {
	case RecipientPatient, RecipientDoctor, RecipientAdmin:
		return true
	}
	return false
}

// ParseRecipientType принимает тип получателя в любом регистре.
// USER — старое имя пациента, которое всё ещё шлют клиенты.
func ParseRecipientType(s string) (RecipientType, bool) {
	t := RecipientType(strings.ToUpper(strings.TrimSpace(s)))
	if t == "USER" {
		t = RecipientPatient
	}
	return t, t.Valid()
}

// Тип события рабочего процесса.
type NotificationKind string

const (
	NotificationAppointmentBooked    NotificationKind = "appointment_booked"
	NotificationAppointmentApproved  NotificationKind = "appointment_approved"
	NotificationAppointmentCompleted NotificationKind = "appointment_completed"
	NotificationDoctorApproved       NotificationKind = "doctor_approved"
)

// notifications — события для пользователей. Пишутся в той же транзакции, что и переход.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	RecipientType RecipientType `gorm:"type:varchar(16);not null;index:idx_notifications_recipient"`
	RecipientID   uuid.UUID     `gorm:"type:uuid;not null;index:idx_notifications_recipient"`

	Kind    NotificationKind `gorm:"type:varchar(64);not null;index"`
	Message string           `gorm:"type:text;not null"`

	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`

	Read bool `gorm:"column:is_read;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;index"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
