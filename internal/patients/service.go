package patients

import (
	"context"
	"errors"
	"strings"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/pagination"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines patient record operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Patient, error)
	Get(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, params UpdateParams) (*models.Patient, error)
	Delete(ctx context.Context, userID, patientID uuid.UUID) error
}

type service struct {
	repo Repository
}

// CreateParams carries validated input for a new patient.
type CreateParams struct {
	UserID    uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	BirthDate *types.Date
	Notes     *string
}

// UpdateParams carries a full replacement of the mutable patient fields.
type UpdateParams struct {
	UserID    uuid.UUID
	PatientID uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	BirthDate *types.Date
	Notes     *string
}

// ListParams configures patient listing.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
	Search string
}

// ListResult wraps a page of patients and the cursor for the next page.
type ListResult struct {
	Items  []models.Patient `json:"items"`
	Cursor string           `json:"cursor"`
}

// NewService wires patient dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "patients repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Patient, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient name required")
	}

	patient := &models.Patient{
		UserID:    params.UserID,
		Name:      name,
		Email:     params.Email,
		Phone:     params.Phone,
		BirthDate: params.BirthDate,
		Notes:     params.Notes,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create patient")
	}
	return patient, nil
}

func (s *service) Get(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error) {
	if userID == uuid.Nil || patientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and patient id required")
	}
	patient, err := s.repo.FindByID(ctx, userID, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "patient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load patient")
	}
	return patient, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listPatientsParams{
		UserID: params.UserID,
		Limit:  params.Limit,
		Search: strings.TrimSpace(params.Search),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list patients")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, params UpdateParams) (*models.Patient, error) {
	patient, err := s.Get(ctx, params.UserID, params.PatientID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient name required")
	}

	patient.Name = name
	patient.Email = params.Email
	patient.Phone = params.Phone
	patient.BirthDate = params.BirthDate
	patient.Notes = params.Notes

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update patient")
	}
	return patient, nil
}

func (s *service) Delete(ctx context.Context, userID, patientID uuid.UUID) error {
	if userID == uuid.Nil || patientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and patient id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, patientID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete patient")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
	}
	return nil
}
