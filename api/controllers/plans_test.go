package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	plansvc "github.com/appnutry/nutry-backend/internal/plans"
	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
)

type testPlansService struct {
	createFn        func(ctx context.Context, params plansvc.CreateParams) (*models.PlanRecord, error)
	getFn           func(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error)
	listByPatientFn func(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error)
	updateFn        func(ctx context.Context, params plansvc.UpdateParams) (*models.PlanRecord, error)
	deleteFn        func(ctx context.Context, userID, planID uuid.UUID) error
}

func (s *testPlansService) Create(ctx context.Context, params plansvc.CreateParams) (*models.PlanRecord, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return &models.PlanRecord{}, nil
}

func (s *testPlansService) Get(ctx context.Context, userID, planID uuid.UUID) (*models.PlanRecord, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID, planID)
	}
	return &models.PlanRecord{}, nil
}

func (s *testPlansService) ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]models.PlanRecord, error) {
	if s.listByPatientFn != nil {
		return s.listByPatientFn(ctx, userID, patientID)
	}
	return nil, nil
}

func (s *testPlansService) Update(ctx context.Context, params plansvc.UpdateParams) (*models.PlanRecord, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, params)
	}
	return &models.PlanRecord{}, nil
}

func (s *testPlansService) Delete(ctx context.Context, userID, planID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, planID)
	}
	return nil
}

func TestCreatePlanSuccess(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	svc := &testPlansService{
		createFn: func(ctx context.Context, params plansvc.CreateParams) (*models.PlanRecord, error) {
			if params.Type != enums.PlanTypeMonthly {
				t.Fatalf("unexpected type %s", params.Type)
			}
			if params.Price.String() != "350" {
				t.Fatalf("unexpected price %s", params.Price)
			}
			if params.StartDate == nil || params.StartDate.String() != "2026-01-31" {
				t.Fatalf("unexpected start date %v", params.StartDate)
			}
			return &models.PlanRecord{ID: uuid.New(), UserID: userID, PatientID: patientID}, nil
		},
	}

	body := `{"type":"monthly","price":"350","start_date":"2026-01-31"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/patients/"+patientID.String()+"/plans", strings.NewReader(body)), userID)
	req = addRouteParam(req, "patientID", patientID.String())
	resp := httptest.NewRecorder()
	CreatePlan(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreatePlanRejectsBadPrice(t *testing.T) {
	patientID := uuid.New()
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/patients/"+patientID.String()+"/plans", strings.NewReader(`{"type":"monthly","price":"lots"}`)), uuid.New())
	req = addRouteParam(req, "patientID", patientID.String())
	resp := httptest.NewRecorder()
	CreatePlan(&testPlansService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreatePlanRejectsUnknownType(t *testing.T) {
	patientID := uuid.New()
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/patients/"+patientID.String()+"/plans", strings.NewReader(`{"type":"biweekly","price":"100.00"}`)), uuid.New())
	req = addRouteParam(req, "patientID", patientID.String())
	resp := httptest.NewRecorder()
	CreatePlan(&testPlansService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdatePlanPartialFields(t *testing.T) {
	userID := uuid.New()
	planID := uuid.New()
	svc := &testPlansService{
		updateFn: func(ctx context.Context, params plansvc.UpdateParams) (*models.PlanRecord, error) {
			if params.PlanID != planID {
				t.Fatalf("unexpected plan %s", params.PlanID)
			}
			if params.Status == nil || *params.Status != enums.PlanStatusCanceled {
				t.Fatalf("unexpected status %v", params.Status)
			}
			if params.Type != nil || params.Price != nil {
				t.Fatalf("expected untouched fields, got %+v", params)
			}
			return &models.PlanRecord{ID: planID, UserID: userID}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodPatch, "/api/v1/plans/"+planID.String(), strings.NewReader(`{"status":"canceled"}`)), userID)
	req = addRouteParam(req, "planID", planID.String())
	resp := httptest.NewRecorder()
	UpdatePlan(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListPatientPlans(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	svc := &testPlansService{
		listByPatientFn: func(ctx context.Context, uid, pid uuid.UUID) ([]models.PlanRecord, error) {
			if uid != userID || pid != patientID {
				t.Fatalf("unexpected ids %s/%s", uid, pid)
			}
			return []models.PlanRecord{{ID: uuid.New()}}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+patientID.String()+"/plans", nil), userID)
	req = addRouteParam(req, "patientID", patientID.String())
	resp := httptest.NewRecorder()
	ListPatientPlans(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestDeletePlanSuccess(t *testing.T) {
	planID := uuid.New()
	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/plans/"+planID.String(), nil), uuid.New())
	req = addRouteParam(req, "planID", planID.String())
	resp := httptest.NewRecorder()
	DeletePlan(&testPlansService{}, testLogger())(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}
