package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/clinic-booking/internal/model"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *model.Doctor) error
	// Врач вместе с учётной записью.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	// Блокирует строку до конца транзакции (где СУБД это умеет).
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	// Compare-and-set: меняет статус, только если текущий равен from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ApprovalStatus, at time.Time) (bool, error)
	// Врачи в указанном статусе в порядке регистрации.
	ListByStatus(ctx context.Context, status model.ApprovalStatus) ([]model.Doctor, error)
	// Одобренные врачи; пустая специализация — все одобренные.
	SearchApproved(ctx context.Context, specialization string) ([]model.Doctor, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.ApprovalStatus) (int64, error)
}

type GormDoctorRepository struct {
	db *gorm.DB
}

func NewGormDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

func (r *GormDoctorRepository) Create(ctx context.Context, d *model.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *GormDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).Preload("User").First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).Preload("User").First(&d, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDoctorRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDoctorRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to model.ApprovalStatus,
	at time.Time,
) (bool, error) {
	update := map[string]any{
		"status": to,
	}
	if to == model.ApprovalStatusApproved {
		update["approved_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&model.Doctor{}).
		Where("id = ? AND status = ?", id, from).
		Updates(update)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormDoctorRepository) ListByStatus(ctx context.Context, status model.ApprovalStatus) ([]model.Doctor, error) {
	var doctors []model.Doctor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&doctors).Error
	return doctors, err
}

func (r *GormDoctorRepository) SearchApproved(ctx context.Context, specialization string) ([]model.Doctor, error) {
	var doctors []model.Doctor
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.ApprovalStatusApproved)

	if s := strings.TrimSpace(specialization); s != "" {
		q = q.Where("LOWER(specialization) = ?", strings.ToLower(s))
	}

	if err := q.Order("rating DESC").Order("created_at ASC").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *GormDoctorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Doctor{}).Count(&n).Error
	return n, err
}

func (r *GormDoctorRepository) CountByStatus(ctx context.Context, status model.ApprovalStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Doctor{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
