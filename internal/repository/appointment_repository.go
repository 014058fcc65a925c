package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/clinic-booking/internal/model"
)

type AppointmentRepository interface {
	// Создать новую запись на приём.
	Create(ctx context.Context, a *model.Appointment) error
	// Получить запись по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// Получить запись по ID с блокировкой строки до конца транзакции.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// Compare-and-set перехода статуса. false — статус уже изменился.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error)
	// Выставить флаг оплаты. Статус не трогает.
	MarkPaid(ctx context.Context, id uuid.UUID) error
	// Записи врача в порядке создания.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.Appointment, error)
	// Записи пациента в порядке создания.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.Appointment, error)
	// Все записи в порядке создания.
	ListAll(ctx context.Context) ([]model.Appointment, error)
	Count(ctx context.Context) (int64, error)
	// Количество записей на календарную дату.
	CountByDate(ctx context.Context, date datatypes.Date) (int64, error)
}

// Реализация на GORM.
type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to model.AppointmentStatus,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormAppointmentRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("paid", true).
		Error
}

func (r *GormAppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.Appointment, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("doctor_id = ?", doctorID))
}

func (r *GormAppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.Appointment, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("patient_id = ?", patientID))
}

func (r *GormAppointmentRepository) ListAll(ctx context.Context) ([]model.Appointment, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *GormAppointmentRepository) list(_ context.Context, q *gorm.DB) ([]model.Appointment, error) {
	var items []model.Appointment
	if err := q.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormAppointmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Appointment{}).Count(&n).Error
	return n, err
}

func (r *GormAppointmentRepository) CountByDate(ctx context.Context, date datatypes.Date) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("appointment_date = ?", date).
		Count(&n).Error
	return n, err
}
