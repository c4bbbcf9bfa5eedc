package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/api/responses"
	"github.com/alihamzakhan/bazaargo-backend/api/validators"
	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
)

type cartView struct {
	Lines     []cart.Line                 `json:"lines"`
	Vendors   map[string]cart.VendorGroup `json:"vendors"`
	Total     decimal.Decimal             `json:"total"`
	ItemCount int                         `json:"item_count"`
}

func buildCartView(agg *cart.Aggregator) cartView {
	groups := agg.GroupByVendor()
	vendors := make(map[string]cart.VendorGroup, len(groups))
	for vendorID, group := range groups {
		vendors[vendorID.String()] = group
	}
	return cartView{
		Lines:     agg.Lines(),
		Vendors:   vendors,
		Total:     agg.Total(),
		ItemCount: agg.ItemCount(),
	}
}

type addCartItemPayload struct {
	ItemID        string  `json:"item_id" validate:"required"`
	VendorID      string  `json:"vendor_id" validate:"required"`
	Title         string  `json:"title" validate:"required"`
	ImageURL      string  `json:"image_url"`
	BasePrice     string  `json:"base_price" validate:"required"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	Quantity      int     `json:"quantity"`
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity"`
}

// CartFetch returns the user's cart grouped per vendor.
func CartFetch(manager *cart.Manager, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		agg, err := manager.ForUser(userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// An empty aggregator may be a session resuming on a fresh instance,
		// so resync from the platform before rendering.
		if len(agg.Lines()) == 0 {
			if err := agg.Hydrate(ctx); err != nil {
				writeServiceError(ctx, logg, sessions, w, userID, err)
				return
			}
		}

		responses.WriteSuccess(w, buildCartView(agg))
	}
}

// CartAddItem snapshots a catalog item into the cart at its current price.
func CartAddItem(manager *cart.Manager, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := uuid.Parse(payload.ItemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}
		vendorID, err := uuid.Parse(payload.VendorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		item := catalog.CatalogItem{
			ID:            itemID,
			Title:         payload.Title,
			BasePrice:     pricing.ParsePrice(payload.BasePrice),
			ImageURL:      payload.ImageURL,
			VendorID:      vendorID,
			DiscountType:  enums.ParseDiscountType(payload.DiscountType),
			DiscountValue: payload.DiscountValue,
		}

		agg, err := manager.ForUser(userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if _, err := agg.AddItem(ctx, item, payload.Quantity); err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildCartView(agg))
	}
}

// CartUpdateItem sets a line's quantity. A target below one removes the line.
func CartUpdateItem(manager *cart.Manager, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		agg, err := manager.ForUser(userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := agg.UpdateQuantity(ctx, lineID, payload.Quantity); err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, buildCartView(agg))
	}
}

// CartRemoveItem deletes a line. Removing an absent line succeeds.
func CartRemoveItem(manager *cart.Manager, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		agg, err := manager.ForUser(userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := agg.RemoveItem(ctx, lineID); err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, buildCartView(agg))
	}
}

// CartClear empties the cart across all vendors.
func CartClear(manager *cart.Manager, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		agg, err := manager.ForUser(userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := agg.Clear(ctx); err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, buildCartView(agg))
	}
}
