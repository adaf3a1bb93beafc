package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	financesvc "github.com/appnutry/nutry-backend/internal/finance"
	"github.com/appnutry/nutry-backend/pkg/db/models"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
)

type testFinanceService struct {
	createPaymentFn func(ctx context.Context, params financesvc.CreatePaymentParams) (*models.Payment, error)
	listPaymentsFn  func(ctx context.Context, params financesvc.ListParams) (*financesvc.PaymentListResult, error)
	deletePaymentFn func(ctx context.Context, userID, paymentID uuid.UUID) error
	createExpenseFn func(ctx context.Context, params financesvc.CreateExpenseParams) (*models.Expense, error)
	listExpensesFn  func(ctx context.Context, params financesvc.ListParams) (*financesvc.ExpenseListResult, error)
	deleteExpenseFn func(ctx context.Context, userID, expenseID uuid.UUID) error
	ledgerFn        func(ctx context.Context, params financesvc.LedgerParams) (*financesvc.LedgerResult, error)
}

func (s *testFinanceService) CreatePayment(ctx context.Context, params financesvc.CreatePaymentParams) (*models.Payment, error) {
	if s.createPaymentFn != nil {
		return s.createPaymentFn(ctx, params)
	}
	return &models.Payment{}, nil
}

func (s *testFinanceService) ListPayments(ctx context.Context, params financesvc.ListParams) (*financesvc.PaymentListResult, error) {
	if s.listPaymentsFn != nil {
		return s.listPaymentsFn(ctx, params)
	}
	return &financesvc.PaymentListResult{}, nil
}

func (s *testFinanceService) DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) error {
	if s.deletePaymentFn != nil {
		return s.deletePaymentFn(ctx, userID, paymentID)
	}
	return nil
}

func (s *testFinanceService) CreateExpense(ctx context.Context, params financesvc.CreateExpenseParams) (*models.Expense, error) {
	if s.createExpenseFn != nil {
		return s.createExpenseFn(ctx, params)
	}
	return &models.Expense{}, nil
}

func (s *testFinanceService) ListExpenses(ctx context.Context, params financesvc.ListParams) (*financesvc.ExpenseListResult, error) {
	if s.listExpensesFn != nil {
		return s.listExpensesFn(ctx, params)
	}
	return &financesvc.ExpenseListResult{}, nil
}

func (s *testFinanceService) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error {
	if s.deleteExpenseFn != nil {
		return s.deleteExpenseFn(ctx, userID, expenseID)
	}
	return nil
}

func (s *testFinanceService) Ledger(ctx context.Context, params financesvc.LedgerParams) (*financesvc.LedgerResult, error) {
	if s.ledgerFn != nil {
		return s.ledgerFn(ctx, params)
	}
	return &financesvc.LedgerResult{}, nil
}

func TestCreatePaymentSuccess(t *testing.T) {
	userID := uuid.New()
	patientID := uuid.New()
	svc := &testFinanceService{
		createPaymentFn: func(ctx context.Context, params financesvc.CreatePaymentParams) (*models.Payment, error) {
			if params.UserID != userID || params.PatientID != patientID {
				t.Fatalf("unexpected ids %+v", params)
			}
			if !params.Amount.Equal(decimal.RequireFromString("150.50")) {
				t.Fatalf("unexpected amount %s", params.Amount)
			}
			if params.PaidAt.String() != "2026-08-15" {
				t.Fatalf("unexpected paid_at %s", params.PaidAt)
			}
			return &models.Payment{ID: uuid.New(), UserID: userID, PatientID: &patientID}, nil
		},
	}

	body := `{"patient_id":"` + patientID.String() + `","amount":"150.50","method":"pix","paid_at":"2026-08-15"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()
	CreatePayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreatePaymentRejectsUnknownMethod(t *testing.T) {
	body := `{"patient_id":"` + uuid.NewString() + `","amount":"10.00","method":"barter","paid_at":"2026-08-15"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	CreatePayment(&testFinanceService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateExpenseSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &testFinanceService{
		createExpenseFn: func(ctx context.Context, params financesvc.CreateExpenseParams) (*models.Expense, error) {
			if params.Description != "Office rent" {
				t.Fatalf("unexpected description %q", params.Description)
			}
			return &models.Expense{ID: uuid.New(), UserID: userID}, nil
		},
	}

	body := `{"amount":"900.00","description":"Office rent","incurred_at":"2026-08-01"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()
	CreateExpense(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeletePaymentNotFound(t *testing.T) {
	svc := &testFinanceService{
		deletePaymentFn: func(ctx context.Context, userID, paymentID uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		},
	}

	paymentID := uuid.NewString()
	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+paymentID, nil), uuid.New())
	req = addRouteParam(req, "paymentID", paymentID)
	resp := httptest.NewRecorder()
	DeletePayment(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestDeleteExpenseSuccess(t *testing.T) {
	expenseID := uuid.New()
	var deleted uuid.UUID
	svc := &testFinanceService{
		deleteExpenseFn: func(ctx context.Context, userID, eid uuid.UUID) error {
			deleted = eid
			return nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/expenses/"+expenseID.String(), nil), uuid.New())
	req = addRouteParam(req, "expenseID", expenseID.String())
	resp := httptest.NewRecorder()
	DeleteExpense(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if deleted != expenseID {
		t.Fatalf("expected %s deleted, got %s", expenseID, deleted)
	}
}

func TestGetLedgerPassesWindow(t *testing.T) {
	userID := uuid.New()
	svc := &testFinanceService{
		ledgerFn: func(ctx context.Context, params financesvc.LedgerParams) (*financesvc.LedgerResult, error) {
			if params.From == nil || params.From.String() != "2026-01-01" {
				t.Fatalf("unexpected from %v", params.From)
			}
			if params.To == nil || params.To.String() != "2026-01-31" {
				t.Fatalf("unexpected to %v", params.To)
			}
			return &financesvc.LedgerResult{}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/ledger?from=2026-01-01&to=2026-01-31", nil), userID)
	resp := httptest.NewRecorder()
	GetLedger(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetLedgerRejectsBadDate(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/ledger?from=January", nil), uuid.New())
	resp := httptest.NewRecorder()
	GetLedger(&testFinanceService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
