package plans

import (
	"context"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for patient plans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, plan *models.PlanRecord) error
	FindByID(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error)
	ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error)
	ListDueForReminder(ctx context.Context, from, to types.Date, limit int) ([]models.PlanRecord, error)
	Update(ctx context.Context, plan *models.PlanRecord) error
	Delete(ctx context.Context, userID, planID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a plans repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, plan *models.PlanRecord) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error) {
	var plan models.PlanRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repositoryImpl) ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error) {
	var plans []models.PlanRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND patient_id = ?", userID, patientID).
		Order("created_at DESC, id DESC").
		Find(&plans).Error
	return plans, err
}

// ListDueForReminder returns active plans whose next payment falls inside the
// given window. Used by the cron worker, so it scans across users.
func (r *repositoryImpl) ListDueForReminder(ctx context.Context, from, to types.Date, limit int) ([]models.PlanRecord, error) {
	var plans []models.PlanRecord
	query := r.db.WithContext(ctx).
		Where("status = ? AND next_payment_date IS NOT NULL AND next_payment_date >= ? AND next_payment_date <= ?",
			enums.PlanStatusActive, from, to).
		Order("next_payment_date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&plans).Error
	return plans, err
}

func (r *repositoryImpl) Update(ctx context.Context, plan *models.PlanRecord) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, planID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&models.PlanRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
