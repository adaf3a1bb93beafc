package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/appnutry/nutry-backend/api/responses"
	"github.com/appnutry/nutry-backend/api/validators"
	plansvc "github.com/appnutry/nutry-backend/internal/plans"
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/logger"
	"github.com/appnutry/nutry-backend/pkg/types"
)

type createPlanRequest struct {
	Type      string      `json:"type" validate:"required"`
	Price     string      `json:"price" validate:"required"`
	StartDate *types.Date `json:"start_date,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

type updatePlanRequest struct {
	Type      *string     `json:"type,omitempty"`
	Status    *string     `json:"status,omitempty"`
	Price     *string     `json:"price,omitempty"`
	StartDate *types.Date `json:"start_date,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return price, nil
}

// CreatePlan opens a plan for a patient and computes its payment schedule.
func CreatePlan(svc plansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patientID, err := pathUUID(r, "patientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		planType, err := enums.ParsePlanType(strings.ToUpper(strings.TrimSpace(body.Type)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan type"))
			return
		}

		price, err := parsePrice(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Create(r.Context(), plansvc.CreateParams{
			UserID:    userID,
			PatientID: patientID,
			Type:      planType,
			Price:     price,
			StartDate: body.StartDate,
			Notes:     body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, plan)
	}
}

// GetPlan fetches a single plan owned by the professional.
func GetPlan(svc plansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		planID, err := pathUUID(r, "planID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Get(r.Context(), userID, planID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

// ListPatientPlans returns every plan for one patient, newest first.
func ListPatientPlans(svc plansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patientID, err := pathUUID(r, "patientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plans, err := svc.ListByPatient(r.Context(), userID, patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": plans})
	}
}

// UpdatePlan applies a partial update and recomputes dates when the type or
// start date changed.
func UpdatePlan(svc plansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		planID, err := pathUUID(r, "planID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := plansvc.UpdateParams{
			UserID:    userID,
			PlanID:    planID,
			StartDate: body.StartDate,
			Notes:     body.Notes,
		}

		if body.Type != nil {
			planType, err := enums.ParsePlanType(strings.ToUpper(strings.TrimSpace(*body.Type)))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan type"))
				return
			}
			params.Type = &planType
		}

		if body.Status != nil {
			status, err := enums.ParsePlanStatus(strings.ToLower(strings.TrimSpace(*body.Status)))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan status"))
				return
			}
			params.Status = &status
		}

		if body.Price != nil {
			price, err := parsePrice(*body.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			params.Price = &price
		}

		plan, err := svc.Update(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

// DeletePlan removes a plan.
func DeletePlan(svc plansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		planID, err := pathUUID(r, "planID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, planID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
