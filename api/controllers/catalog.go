package controllers

import (
	"net/http"
	"strings"

	"github.com/alihamzakhan/bazaargo-backend/api/responses"
	"github.com/alihamzakhan/bazaargo-backend/api/validators"
	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
)

// CatalogSearch lists vendors around the caller's position with computed
// distance and price views.
func CatalogSearch(svc catalog.Service, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		center, err := validators.ParseQueryCoordinate(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		radius, err := validators.ParseQueryFloat(r, "radius_km", 0, 0, 10000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.SearchInput{
			Center:   center,
			RadiusKM: radius,
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
			key, err := enums.ParseSortKey(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key").WithDetails(map[string]any{"field": "sort"}))
				return
			}
			input.SortKey = key
		}

		views, err := svc.Search(ctx, userID, input)
		if err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}
