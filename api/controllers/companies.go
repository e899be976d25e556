package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/api/validators"
	companysvc "github.com/fabrikline/wholesale-backend/internal/companies"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

func statusFilter(r *http.Request) (*enums.CompanyStatus, error) {
	raw := validators.ParseQueryString(r, "status")
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseCompanyStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported status")
	}
	return &status, nil
}

// PlatformCompaniesList returns the tenant roster for platform admins.
func PlatformCompaniesList(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		status, err := statusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companies, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"companies": companies})
	}
}

type setCompanyStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PlatformCompanySetStatus transitions a tenant through its lifecycle.
func PlatformCompanySetStatus(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "companyID"), "companyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCompanyStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCompanyStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported status"))
			return
		}

		company, err := svc.SetStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, company)
	}
}

// PlatformCompaniesExport streams the roster as a CSV attachment.
func PlatformCompaniesExport(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		status, err := statusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("companies-%s.csv", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if _, err := svc.ExportCSV(r.Context(), w, status); err != nil {
			// headers are already out; log and drop the connection
			if logg != nil {
				logg.Error(r.Context(), "company export failed", err)
			}
		}
	}
}
