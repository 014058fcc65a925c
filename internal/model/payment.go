package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// payments — запись об оплате приёма. Создаётся только при оплате и не меняется.
// На одну запись может прийтись несколько платежей: повторная оплата не дедуплицируется.
type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Гонорар врача на момент оплаты, как есть.
	Amount float64 `gorm:"not null"`

	PaidAt    time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`

	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
