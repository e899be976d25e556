package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/api/validators"
	chartsvc "github.com/fabrikline/wholesale-backend/internal/sizecharts"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

// SizeChartGet serves one measurement grid.
func SizeChartGet(svc chartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "size chart service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "chartID"), "chartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chart, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chart)
	}
}
