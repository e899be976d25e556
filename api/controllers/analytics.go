package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/api/middleware"
	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/api/validators"
	analyticssvc "github.com/fabrikline/wholesale-backend/internal/analytics"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/types"
)

type trackEventRequest struct {
	Type    string             `json:"type" validate:"required"`
	Payload types.EventPayload `json:"payload"`
}

// AnalyticsTrack records one storefront interaction for the caller.
func AnalyticsTrack(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		var payload trackEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := analyticssvc.TrackInput{
			Type:    payload.Type,
			Payload: payload.Payload,
		}
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				input.UserID = &id
			}
		}
		if raw := middleware.CompanyIDFromContext(r.Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				input.CompanyID = &id
			}
		}

		event, err := svc.Track(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":   event.ID,
			"type": event.Type,
		})
	}
}
