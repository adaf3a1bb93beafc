package controllers

import (
	"net/http"
	"strings"

	"github.com/appnutry/nutry-backend/api/responses"
	"github.com/appnutry/nutry-backend/api/validators"
	patientsvc "github.com/appnutry/nutry-backend/internal/patients"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/logger"
	"github.com/appnutry/nutry-backend/pkg/types"
)

type patientRequest struct {
	Name      string      `json:"name" validate:"required"`
	Email     *string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string     `json:"phone,omitempty"`
	BirthDate *types.Date `json:"birth_date,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

// CreatePatient registers a patient under the authenticated professional.
func CreatePatient(svc patientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body patientRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patient, err := svc.Create(r.Context(), patientsvc.CreateParams{
			UserID:    userID,
			Name:      validators.SanitizeString(body.Name, 120),
			Email:     body.Email,
			Phone:     body.Phone,
			BirthDate: body.BirthDate,
			Notes:     body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, patient)
	}
}

// GetPatient fetches a single patient owned by the professional.
func GetPatient(svc patientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
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

		patient, err := svc.Get(r.Context(), userID, patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, patient)
	}
}

// ListPatients returns a cursor-paginated page of patients, optionally
// filtered by a case-insensitive name search.
func ListPatients(svc patientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
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

		result, err := svc.List(r.Context(), patientsvc.ListParams{
			UserID: userID,
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 64),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UpdatePatient replaces the mutable fields of a patient.
func UpdatePatient(svc patientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
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

		var body patientRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patient, err := svc.Update(r.Context(), patientsvc.UpdateParams{
			UserID:    userID,
			PatientID: patientID,
			Name:      validators.SanitizeString(body.Name, 120),
			Email:     body.Email,
			Phone:     body.Phone,
			BirthDate: body.BirthDate,
			Notes:     body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, patient)
	}
}

// DeletePatient removes a patient. Ledger rows referencing them survive and
// surface without a patient name.
func DeletePatient(svc patientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
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

		if err := svc.Delete(r.Context(), userID, patientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
