package patients

import (
	"context"
	"strings"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for patient records. Every query is
// scoped by the owning user id.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, patient *models.Patient) error
	FindByID(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error)
	List(ctx context.Context, params listPatientsParams) ([]models.Patient, *pagination.Cursor, error)
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, userID, patientID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a patients repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listPatientsParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
	Search string
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", patientID, userID).
		First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listPatientsParams) ([]models.Patient, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Patient{}).Where("user_id = ?", params.UserID)
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var patients []models.Patient
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&patients).Error; err != nil {
		return nil, nil, err
	}

	if len(patients) > normalized {
		patients = patients[:normalized]
		last := patients[len(patients)-1]
		return patients, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return patients, nil, nil
}

func (r *repositoryImpl) Update(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, patientID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", patientID, userID).
		Delete(&models.Patient{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
