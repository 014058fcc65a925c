package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Статус допуска врача на площадку.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
)

type DoctorAction string

const DoctorActionApprove DoctorAction = "approve"

var doctorTransitions = map[ApprovalStatus]map[DoctorAction]ApprovalStatus{
	ApprovalStatusPending: {DoctorActionApprove: ApprovalStatusApproved},
}

// Next возвращает статус после action или false, если переход запрещён.
func (s ApprovalStatus) Next(action DoctorAction) (ApprovalStatus, bool) {
	next, ok := doctorTransitions[s][action]
	return next, ok
}

// doctors — профиль врача. Учётные данные лежат в users.
type Doctor struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Specialization string  `gorm:"type:varchar(128);not null;index"`
	Qualification  string  `gorm:"type:varchar(255)"`
	Bio            string  `gorm:"type:text"`
	Fee            float64 `gorm:"not null;default:0"`
	Rating         float64 `gorm:"not null;default:0"`

	Tags datatypes.JSONSlice[string]
	// Свободные описания приёмных часов, как их ввёл врач ("Mon 10:00-14:00").
	Schedules datatypes.JSONSlice[string]

	Status     ApprovalStatus `gorm:"type:varchar(32);not null;index"`
	ApprovedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (d *Doctor) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = ApprovalStatusPending
	}
	return nil
}

// Bookable — врач одобрен и может принимать записи и попадать в поиск.
func (d *Doctor) Bookable() bool {
	return d.Status == ApprovalStatusApproved
}
