package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alihamzakhan/bazaargo-backend/api/responses"
	"github.com/alihamzakhan/bazaargo-backend/api/validators"
	"github.com/alihamzakhan/bazaargo-backend/internal/orders"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
)

type deliveryAddressPayload struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type submitOrderPayload struct {
	VendorID        string                 `json:"vendor_id" validate:"required"`
	DeliveryAddress deliveryAddressPayload `json:"delivery_address"`
	ContactPhone    string                 `json:"contact_phone" validate:"required"`
	PaymentMethod   string                 `json:"payment_method"`
}

// OrderSubmit checks out one vendor's cart lines.
func OrderSubmit(svc orders.Service, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload submitOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		vendorID, err := uuid.Parse(payload.VendorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		address := types.DeliveryAddress{Text: payload.DeliveryAddress.Text}
		if payload.DeliveryAddress.Lat != nil && payload.DeliveryAddress.Lng != nil {
			coord := types.Coordinate{Lat: *payload.DeliveryAddress.Lat, Lng: *payload.DeliveryAddress.Lng}
			if !coord.IsValid() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "coordinate out of range"))
				return
			}
			address.Location = &coord
		}

		receipt, err := svc.Submit(ctx, userID, orders.SubmitInput{
			VendorID:        vendorID,
			DeliveryAddress: address,
			ContactPhone:    payload.ContactPhone,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// OrderList returns the user's order history.
func OrderList(svc orders.Service, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.List(ctx, userID)
		if err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order.
func OrderDetail(svc orders.Service, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := userFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Detail(ctx, userID, orderID)
		if err != nil {
			writeServiceError(ctx, logg, sessions, w, userID, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
