package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store собирает репозитории поверх одного *gorm.DB, чтобы их можно было
// использовать внутри одной транзакции.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Doctors       DoctorRepository
	Appointments  AppointmentRepository
	Payments      PaymentRepository
	Notifications NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewGormUserRepository(db),
		Doctors:       NewGormDoctorRepository(db),
		Appointments:  NewGormAppointmentRepository(db),
		Payments:      NewGormPaymentRepository(db),
		Notifications: NewGormNotificationRepository(db),
	}
}

// Transaction выполняет fn в транзакции. Все репозитории tx работают на ней;
// ошибка fn откатывает всё.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping проверяет доступность базы.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
