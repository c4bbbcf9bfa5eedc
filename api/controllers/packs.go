package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alihamzakhan/bazaargo-backend/api/responses"
	"github.com/alihamzakhan/bazaargo-backend/api/validators"
	"github.com/alihamzakhan/bazaargo-backend/internal/packs"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
)

type quotePackPayload struct {
	ItemNames []string `json:"item_names" validate:"required,min=1,dive,required"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	RadiusKM  float64  `json:"radius_km"`
	Sort      string   `json:"sort"`
}

type quoteSavedPackPayload struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	RadiusKM float64  `json:"radius_km"`
	Sort     string   `json:"sort"`
}

type savePackPayload struct {
	Name      string   `json:"name" validate:"required"`
	ItemNames []string `json:"item_names" validate:"required,min=1,dive,required"`
}

func quoteInput(itemNames []string, lat, lng *float64, radius float64, sort string) (packs.QuoteInput, error) {
	input := packs.QuoteInput{
		ItemNames: itemNames,
		RadiusKM:  radius,
	}
	if lat != nil || lng != nil {
		if lat == nil || lng == nil {
			return packs.QuoteInput{}, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be provided together")
		}
		coord := types.Coordinate{Lat: *lat, Lng: *lng}
		if !coord.IsValid() {
			return packs.QuoteInput{}, pkgerrors.New(pkgerrors.CodeValidation, "coordinate out of range")
		}
		input.Center = &coord
	}
	if sort != "" {
		key, err := enums.ParseSortKey(sort)
		if err != nil {
			return packs.QuoteInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key").WithDetails(map[string]any{"field": "sort"})
		}
		input.SortKey = key
	}
	return input, nil
}

// PackQuote prices a named item list across nearby vendors.
func PackQuote(svc packs.Service, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packs service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload quotePackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := quoteInput(payload.ItemNames, payload.Lat, payload.Lng, payload.RadiusKM, payload.Sort)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		offers, err := svc.Quote(ctx, userID, input)
		if err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, offers)
	}
}

// PackSave persists a named item list for later requoting.
func PackSave(svc packs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packs service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload savePackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pack, err := svc.SavePack(ctx, userID, payload.Name, payload.ItemNames)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, pack)
	}
}

// PackList returns the user's saved packs.
func PackList(svc packs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packs service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListPacks(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// PackDelete removes a saved pack.
func PackDelete(svc packs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packs service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		packID, err := uuid.Parse(chi.URLParam(r, "packId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pack id"))
			return
		}

		if err := svc.DeletePack(ctx, userID, packID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// PackQuoteSaved requotes a stored pack with fresh prices and availability.
func PackQuoteSaved(svc packs.Service, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packs service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		packID, err := uuid.Parse(chi.URLParam(r, "packId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pack id"))
			return
		}

		var payload quoteSavedPackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := quoteInput(nil, payload.Lat, payload.Lng, payload.RadiusKM, payload.Sort)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		offers, err := svc.QuoteSaved(ctx, userID, packID, input)
		if err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, offers)
	}
}
