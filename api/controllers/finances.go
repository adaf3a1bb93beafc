package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/appnutry/nutry-backend/api/responses"
	"github.com/appnutry/nutry-backend/api/validators"
	financesvc "github.com/appnutry/nutry-backend/internal/finance"
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/logger"
	"github.com/appnutry/nutry-backend/pkg/types"
)

type createPaymentRequest struct {
	PatientID   string     `json:"patient_id" validate:"required,uuid"`
	PlanID      *string    `json:"plan_id,omitempty" validate:"omitempty,uuid"`
	Amount      string     `json:"amount" validate:"required"`
	Method      string     `json:"method" validate:"required"`
	PaidAt      types.Date `json:"paid_at"`
	Description *string    `json:"description,omitempty"`
}

type createExpenseRequest struct {
	Amount      string     `json:"amount" validate:"required"`
	Category    *string    `json:"category,omitempty"`
	IncurredAt  types.Date `json:"incurred_at"`
	Description string     `json:"description" validate:"required"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}
	return amount, nil
}

// CreatePayment records a payment received from a patient.
func CreatePayment(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patientID, err := parseRequestUUID(body.PatientID, "patient id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var planID *uuid.UUID
		if body.PlanID != nil {
			id, err := parseRequestUUID(*body.PlanID, "plan id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			planID = &id
		}

		amount, err := parseAmount(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.ToUpper(strings.TrimSpace(body.Method)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		payment, err := svc.CreatePayment(r.Context(), financesvc.CreatePaymentParams{
			UserID:      userID,
			PatientID:   patientID,
			PlanID:      planID,
			Amount:      amount,
			Method:      method,
			PaidAt:      body.PaidAt,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// ListPayments returns a cursor-paginated page of payments.
func ListPayments(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listFinanceRecords(svc, logg, w, r, func(params financesvc.ListParams) (any, error) {
			return svc.ListPayments(r.Context(), params)
		})
	}
}

// DeletePayment removes a payment record.
func DeletePayment(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleteFinanceRecord(svc, logg, w, r, "paymentID", func(userID, recordID uuid.UUID) error {
			return svc.DeletePayment(r.Context(), userID, recordID)
		})
	}
}

// CreateExpense records a practice expense.
func CreateExpense(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createExpenseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := parseAmount(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.CreateExpense(r.Context(), financesvc.CreateExpenseParams{
			UserID:      userID,
			Amount:      amount,
			Category:    body.Category,
			IncurredAt:  body.IncurredAt,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ListExpenses returns a cursor-paginated page of expenses.
func ListExpenses(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listFinanceRecords(svc, logg, w, r, func(params financesvc.ListParams) (any, error) {
			return svc.ListExpenses(r.Context(), params)
		})
	}
}

// DeleteExpense removes an expense record.
func DeleteExpense(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleteFinanceRecord(svc, logg, w, r, "expenseID", func(userID, recordID uuid.UUID) error {
			return svc.DeleteExpense(r.Context(), userID, recordID)
		})
	}
}

// GetLedger returns the reconciled payment/expense feed with running totals.
// Optional from/to query params bound the window.
func GetLedger(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Ledger(r.Context(), financesvc.LedgerParams{
			UserID: userID,
			From:   from,
			To:     to,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func listFinanceRecords(svc financesvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, list func(financesvc.ListParams) (any, error)) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
		return
	}

	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	result, err := list(financesvc.ListParams{
		UserID: userID,
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func deleteFinanceRecord(svc financesvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, param string, del func(userID, recordID uuid.UUID) error) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "finance service unavailable"))
		return
	}

	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	recordID, err := pathUUID(r, param)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	if err := del(userID, recordID); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
