package plans

import (
	"context"
	"errors"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PatientFinder is the slice of the patients repository the plans service needs.
type PatientFinder interface {
	FindByID(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error)
}

// ServiceParams groups dependencies for the plans service.
type ServiceParams struct {
	PlanRepo    Repository
	PatientRepo PatientFinder
}

// Service exposes business rules for plan management. Derived dates are
// recomputed on every write, never patched directly.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.PlanRecord, error)
	Get(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error)
	ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error)
	Update(ctx context.Context, params UpdateParams) (*models.PlanRecord, error)
	Delete(ctx context.Context, userID, planID uuid.UUID) error
}

type service struct {
	planRepo    Repository
	patientRepo PatientFinder
}

// CreateParams carries validated input for a new plan.
type CreateParams struct {
	UserID    uuid.UUID
	PatientID uuid.UUID
	Type      enums.PlanType
	Price     decimal.Decimal
	StartDate *types.Date
	Notes     *string
}

// UpdateParams carries a partial update; nil fields stay untouched.
type UpdateParams struct {
	UserID    uuid.UUID
	PlanID    uuid.UUID
	Type      *enums.PlanType
	Status    *enums.PlanStatus
	Price     *decimal.Decimal
	StartDate *types.Date
	Notes     *string
}

// NewService builds a plans service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PlanRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "plan repository required")
	}
	if params.PatientRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "patient repository required")
	}
	return &service{
		planRepo:    params.PlanRepo,
		patientRepo: params.PatientRepo,
	}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.PlanRecord, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if params.PatientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	if params.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if err := s.ensurePatient(ctx, params.UserID, params.PatientID); err != nil {
		return nil, err
	}

	schedule, err := ComputeSchedule(params.Type, params.StartDate)
	if err != nil {
		return nil, err
	}

	plan := &models.PlanRecord{
		UserID:          params.UserID,
		PatientID:       params.PatientID,
		Type:            params.Type,
		Status:          enums.PlanStatusActive,
		Price:           params.Price,
		StartDate:       params.StartDate,
		EndDate:         schedule.EndDate,
		NextPaymentDate: schedule.NextPaymentDate,
		Notes:           params.Notes,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan")
	}
	return plan, nil
}

func (s *service) Get(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error) {
	if userID == uuid.Nil || planID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and plan id required")
	}
	plan, err := s.planRepo.FindByID(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
	}
	return plan, nil
}

func (s *service) ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error) {
	if userID == uuid.Nil || patientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and patient id required")
	}
	if err := s.ensurePatient(ctx, userID, patientID); err != nil {
		return nil, err
	}
	plans, err := s.planRepo.ListByPatient(ctx, userID, patientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plans")
	}
	return plans, nil
}

func (s *service) Update(ctx context.Context, params UpdateParams) (*models.PlanRecord, error) {
	plan, err := s.Get(ctx, params.UserID, params.PlanID)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		plan.Type = *params.Type
	}
	if params.Status != nil {
		if !params.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown plan status").
				WithDetails(map[string]any{"status": string(*params.Status)})
		}
		plan.Status = *params.Status
	}
	if params.Price != nil {
		if params.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		plan.Price = *params.Price
	}
	if params.StartDate != nil {
		plan.StartDate = params.StartDate
	}
	if params.Notes != nil {
		plan.Notes = params.Notes
	}

	// Derived dates always follow the current type and start date, even when
	// only unrelated fields changed.
	schedule, err := ComputeSchedule(plan.Type, plan.StartDate)
	if err != nil {
		return nil, err
	}
	plan.EndDate = schedule.EndDate
	plan.NextPaymentDate = schedule.NextPaymentDate

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update plan")
	}
	return plan, nil
}

func (s *service) Delete(ctx context.Context, userID, planID uuid.UUID) error {
	if userID == uuid.Nil || planID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and plan id required")
	}
	deleted, err := s.planRepo.Delete(ctx, userID, planID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plan")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	return nil
}

func (s *service) ensurePatient(ctx context.Context, userID, patientID uuid.UUID) error {
	if _, err := s.patientRepo.FindByID(ctx, userID, patientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "patient not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load patient")
	}
	return nil
}
