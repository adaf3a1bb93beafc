package plans

import (
	"context"
	"testing"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakePlanRepo struct {
	plans map[uuid.UUID]*models.PlanRecord
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[uuid.UUID]*models.PlanRecord)}
}

func (f *fakePlanRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePlanRepo) Create(ctx context.Context, plan *models.PlanRecord) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	stored := *plan
	f.plans[plan.ID] = &stored
	return nil
}

func (f *fakePlanRepo) FindByID(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error) {
	plan, ok := f.plans[planID]
	if !ok || plan.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *plan
	return &copied, nil
}

func (f *fakePlanRepo) ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error) {
	var out []models.PlanRecord
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.PatientID == patientID {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) ListDueForReminder(ctx context.Context, from, to types.Date, limit int) ([]models.PlanRecord, error) {
	return nil, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *models.PlanRecord) error {
	stored := *plan
	f.plans[plan.ID] = &stored
	return nil
}

func (f *fakePlanRepo) Delete(ctx context.Context, userID, planID uuid.UUID) (bool, error) {
	plan, ok := f.plans[planID]
	if !ok || plan.UserID != userID {
		return false, nil
	}
	delete(f.plans, planID)
	return true, nil
}

type fakePatientRepo struct {
	known map[uuid.UUID]uuid.UUID // patient id -> owner user id
}

func (f *fakePatientRepo) FindByID(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error) {
	owner, ok := f.known[patientID]
	if !ok || owner != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Patient{ID: patientID, UserID: userID, Name: "Known Patient"}, nil
}

func newPlanService(t *testing.T, planRepo Repository, patientRepo PatientFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{PlanRepo: planRepo, PatientRepo: patientRepo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceCreateComputesDerivedDates(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	planRepo := newFakePlanRepo()
	patientRepo := &fakePatientRepo{known: map[uuid.UUID]uuid.UUID{patientID: userID}}
	svc := newPlanService(t, planRepo, patientRepo)

	plan, err := svc.Create(context.Background(), CreateParams{
		UserID:    userID,
		PatientID: patientID,
		Type:      enums.PlanTypeMonthly,
		Price:     decimal.RequireFromString("350.00"),
		StartDate: mustDate(t, "2024-01-31"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if plan.Status != enums.PlanStatusActive {
		t.Fatalf("new plan should be active, got %s", plan.Status)
	}
	if plan.EndDate == nil || plan.EndDate.String() != "2024-02-29" {
		t.Fatalf("end date = %v, want 2024-02-29", plan.EndDate)
	}
	if plan.NextPaymentDate == nil || plan.NextPaymentDate.String() != "2024-02-29" {
		t.Fatalf("next payment = %v, want 2024-02-29", plan.NextPaymentDate)
	}
}

func TestServiceCreateWithoutStartDate(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	planRepo := newFakePlanRepo()
	patientRepo := &fakePatientRepo{known: map[uuid.UUID]uuid.UUID{patientID: userID}}
	svc := newPlanService(t, planRepo, patientRepo)

	plan, err := svc.Create(context.Background(), CreateParams{
		UserID:    userID,
		PatientID: patientID,
		Type:      enums.PlanTypeQuarterly,
		Price:     decimal.RequireFromString("900.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if plan.EndDate != nil || plan.NextPaymentDate != nil {
		t.Fatalf("derived dates should be nil without a start date, got %+v", plan)
	}
}

func TestServiceCreateRejectsForeignPatient(t *testing.T) {
	planRepo := newFakePlanRepo()
	patientRepo := &fakePatientRepo{known: map[uuid.UUID]uuid.UUID{}}
	svc := newPlanService(t, planRepo, patientRepo)

	_, err := svc.Create(context.Background(), CreateParams{
		UserID:    uuid.New(),
		PatientID: uuid.New(),
		Type:      enums.PlanTypeMonthly,
		Price:     decimal.Zero,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign patient, got %v", err)
	}
}

func TestServiceUpdateRecomputesDates(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	planRepo := newFakePlanRepo()
	patientRepo := &fakePatientRepo{known: map[uuid.UUID]uuid.UUID{patientID: userID}}
	svc := newPlanService(t, planRepo, patientRepo)

	plan, err := svc.Create(context.Background(), CreateParams{
		UserID:    userID,
		PatientID: patientID,
		Type:      enums.PlanTypeMonthly,
		Price:     decimal.RequireFromString("350.00"),
		StartDate: mustDate(t, "2024-01-31"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	annual := enums.PlanTypeAnnual
	updated, err := svc.Update(context.Background(), UpdateParams{
		UserID: userID,
		PlanID: plan.ID,
		Type:   &annual,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.EndDate == nil || updated.EndDate.String() != "2025-01-31" {
		t.Fatalf("end date after type change = %v, want 2025-01-31", updated.EndDate)
	}

	// Switching to one-off drops the next payment entirely.
	oneOff := enums.PlanTypeOneOff
	updated, err = svc.Update(context.Background(), UpdateParams{
		UserID: userID,
		PlanID: plan.ID,
		Type:   &oneOff,
	})
	if err != nil {
		t.Fatalf("update to one-off: %v", err)
	}
	if updated.NextPaymentDate != nil {
		t.Fatalf("one-off should clear next payment, got %v", updated.NextPaymentDate)
	}
	if updated.EndDate == nil || updated.EndDate.String() != "2024-01-31" {
		t.Fatalf("one-off end date = %v, want start date", updated.EndDate)
	}
}

func TestServiceUpdatePriceOnlyStillRecomputes(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	planRepo := newFakePlanRepo()
	patientRepo := &fakePatientRepo{known: map[uuid.UUID]uuid.UUID{patientID: userID}}
	svc := newPlanService(t, planRepo, patientRepo)

	plan, err := svc.Create(context.Background(), CreateParams{
		UserID:    userID,
		PatientID: patientID,
		Type:      enums.PlanTypeSemiannual,
		Price:     decimal.RequireFromString("1200.00"),
		StartDate: mustDate(t, "2024-08-31"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	price := decimal.RequireFromString("1400.00")
	updated, err := svc.Update(context.Background(), UpdateParams{
		UserID: userID,
		PlanID: plan.ID,
		Price:  &price,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Price.Equal(price) {
		t.Fatalf("price = %s, want %s", updated.Price, price)
	}
	if updated.EndDate == nil || updated.EndDate.String() != "2025-02-28" {
		t.Fatalf("end date = %v, want 2025-02-28", updated.EndDate)
	}
}

func TestServiceDeleteNotFound(t *testing.T) {
	planRepo := newFakePlanRepo()
	patientRepo := &fakePatientRepo{known: map[uuid.UUID]uuid.UUID{}}
	svc := newPlanService(t, planRepo, patientRepo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
