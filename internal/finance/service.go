package finance

import (
	"context"
	"errors"
	"strings"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/pagination"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines payment, expense and ledger operations.
type Service interface {
	CreatePayment(ctx context.Context, params CreatePaymentParams) (*models.Payment, error)
	ListPayments(ctx context.Context, params ListParams) (*PaymentListResult, error)
	DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) error
	CreateExpense(ctx context.Context, params CreateExpenseParams) (*models.Expense, error)
	ListExpenses(ctx context.Context, params ListParams) (*ExpenseListResult, error)
	DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error
	Ledger(ctx context.Context, params LedgerParams) (*LedgerResult, error)
}

// PatientFinder checks payment ownership against the patient roster.
type PatientFinder interface {
	FindByID(ctx context.Context, userID, patientID uuid.UUID) (*models.Patient, error)
}

type service struct {
	repo        Repository
	patientRepo PatientFinder
}

// ServiceParams wires finance dependencies.
type ServiceParams struct {
	Repo        Repository
	PatientRepo PatientFinder
}

// CreatePaymentParams carries validated input for a received payment.
type CreatePaymentParams struct {
	UserID      uuid.UUID
	PatientID   uuid.UUID
	PlanID      *uuid.UUID
	Amount      decimal.Decimal
	Method      enums.PaymentMethod
	PaidAt      types.Date
	Description *string
}

// CreateExpenseParams carries validated input for a practice expense.
type CreateExpenseParams struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Category    *string
	IncurredAt  types.Date
	Description string
}

// ListParams configures payment or expense listing.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// PaymentListResult wraps a page of payments.
type PaymentListResult struct {
	Items  []models.Payment `json:"items"`
	Cursor string           `json:"cursor"`
}

// ExpenseListResult wraps a page of expenses.
type ExpenseListResult struct {
	Items  []models.Expense `json:"items"`
	Cursor string           `json:"cursor"`
}

// LedgerParams selects the window the ledger covers. Nil bounds mean open
// ended.
type LedgerParams struct {
	UserID uuid.UUID
	From   *types.Date
	To     *types.Date
}

// LedgerResult is the reconciled transaction feed with its totals.
type LedgerResult struct {
	Transactions []Transaction   `json:"transactions"`
	Totals       Totals          `json:"totals"`
	Skipped      []SkippedRecord `json:"skipped,omitempty"`
}

// NewService validates and wires finance dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "finance repository required")
	}
	if params.PatientRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "patient repository required")
	}
	return &service{repo: params.Repo, patientRepo: params.PatientRepo}, nil
}

func (s *service) CreatePayment(ctx context.Context, params CreatePaymentParams) (*models.Payment, error) {
	if params.UserID == uuid.Nil || params.PatientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and patient id required")
	}
	if !params.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"method": string(params.Method)})
	}
	if params.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must not be negative")
	}
	if params.PaidAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment date required")
	}
	if err := s.ensurePatient(ctx, params.UserID, params.PatientID); err != nil {
		return nil, err
	}

	patientID := params.PatientID
	payment := &models.Payment{
		UserID:      params.UserID,
		PatientID:   &patientID,
		PlanID:      params.PlanID,
		Amount:      params.Amount,
		Method:      params.Method,
		PaidAt:      params.PaidAt,
		Description: params.Description,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}
	return payment, nil
}

func (s *service) ListPayments(ctx context.Context, params ListParams) (*PaymentListResult, error) {
	query, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListPayments(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return &PaymentListResult{Items: rows, Cursor: encodeCursor(next)}, nil
}

func (s *service) DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) error {
	if userID == uuid.Nil || paymentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and payment id required")
	}
	deleted, err := s.repo.DeletePayment(ctx, userID, paymentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return nil
}

func (s *service) CreateExpense(ctx context.Context, params CreateExpenseParams) (*models.Expense, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense description required")
	}
	if params.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense amount must not be negative")
	}
	if params.IncurredAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense date required")
	}

	expense := &models.Expense{
		UserID:      params.UserID,
		Amount:      params.Amount,
		Category:    params.Category,
		IncurredAt:  params.IncurredAt,
		Description: description,
	}
	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return expense, nil
}

func (s *service) ListExpenses(ctx context.Context, params ListParams) (*ExpenseListResult, error) {
	query, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListExpenses(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	return &ExpenseListResult{Items: rows, Cursor: encodeCursor(next)}, nil
}

func (s *service) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error {
	if userID == uuid.Nil || expenseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and expense id required")
	}
	deleted, err := s.repo.DeleteExpense(ctx, userID, expenseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expense")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
	}
	return nil
}

func (s *service) Ledger(ctx context.Context, params LedgerParams) (*LedgerResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger window start must not be after its end")
	}

	payments, expenses, err := s.repo.LedgerSources(ctx, ledgerParams{
		UserID: params.UserID,
		From:   params.From,
		To:     params.To,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger sources")
	}

	transactions, skipped := MergeLedger(payments, expenses)
	totals, _ := ComputeTotals(payments, expenses)
	return &LedgerResult{Transactions: transactions, Totals: totals, Skipped: skipped}, nil
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

func buildListParams(params ListParams) (listParams, error) {
	if params.UserID == uuid.Nil {
		return listParams{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	query := listParams{UserID: params.UserID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return listParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}
	return query, nil
}

func encodeCursor(cursor *pagination.Cursor) string {
	if cursor == nil {
		return ""
	}
	return pagination.EncodeCursor(*cursor)
}
