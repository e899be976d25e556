package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/api/middleware"
	"github.com/fabrikline/wholesale-backend/api/responses"
	uploadsvc "github.com/fabrikline/wholesale-backend/internal/uploads"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

// UploadCreate accepts a multipart file, stores it, and returns its URL.
func UploadCreate(svc uploadsvc.Service, maxMB int, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(maxMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)
		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		result, err := svc.Upload(r.Context(), userID, uploadsvc.Input{
			FileName: header.Filename,
			Body:     file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
