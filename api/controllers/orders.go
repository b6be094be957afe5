package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warehouse360/warehouse360-backend/api/responses"
	"github.com/warehouse360/warehouse360-backend/api/validators"
	"github.com/warehouse360/warehouse360-backend/internal/fulfillment"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
	"github.com/warehouse360/warehouse360-backend/pkg/pagination"
)

// OrderList returns the caller's visible orders, filtered and paginated.
func OrderList(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		filter, err := orderListFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), actor, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func orderListFilter(r *http.Request) (fulfillment.ListFilter, error) {
	var filter fulfillment.ListFilter

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter.Status = &status
	}

	storeID, err := validators.ParseQueryUUID(r, "store_id")
	if err != nil {
		return filter, err
	}
	filter.StoreID = storeID

	filter.Search = validators.SanitizeString(r.URL.Query().Get("search"), 120)

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filter, err
	}
	filter.Page = pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}

	return filter, nil
}

// OrderGet returns a single order within the caller's scope.
func OrderGet(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type orderCreateRequest struct {
	StoreID              string     `json:"store_id" validate:"required,uuid"`
	ProductID            *string    `json:"product_id,omitempty" validate:"omitempty,uuid"`
	CodeType             string     `json:"code_type,omitempty"`
	TeamCode             string     `json:"team_code,omitempty"`
	SupplierOrderID      string     `json:"supplier_order_id,omitempty"`
	Quantity             int        `json:"quantity" validate:"required,min=1"`
	AmazonOrderID        string     `json:"amazon_order_id,omitempty"`
	ShippingLabelURL     *string    `json:"shipping_label_url,omitempty" validate:"omitempty,url"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	TrackerID            string     `json:"tracker_id,omitempty"`
	Notes                string     `json:"notes,omitempty"`
}

func (req orderCreateRequest) toInput() (fulfillment.CreateOrderInput, error) {
	storeID, err := parseUUIDField(req.StoreID, "store_id")
	if err != nil {
		return fulfillment.CreateOrderInput{}, err
	}
	productID, err := parseOptionalUUIDField(req.ProductID, "product_id")
	if err != nil {
		return fulfillment.CreateOrderInput{}, err
	}
	return fulfillment.CreateOrderInput{
		StoreID:              storeID,
		ProductID:            productID,
		CodeType:             strings.TrimSpace(req.CodeType),
		TeamCode:             strings.TrimSpace(req.TeamCode),
		SupplierOrderID:      strings.TrimSpace(req.SupplierOrderID),
		Quantity:             req.Quantity,
		AmazonOrderID:        strings.TrimSpace(req.AmazonOrderID),
		ShippingLabelURL:     req.ShippingLabelURL,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		TrackerID:            strings.TrimSpace(req.TrackerID),
		Notes:                strings.TrimSpace(req.Notes),
	}, nil
}

// OrderCreate registers a new order in the pending queue.
func OrderCreate(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload orderCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type orderUpdateRequest struct {
	StoreID              *string    `json:"store_id,omitempty" validate:"omitempty,uuid"`
	ProductID            *string    `json:"product_id,omitempty" validate:"omitempty,uuid"`
	CodeType             *string    `json:"code_type,omitempty"`
	TeamCode             *string    `json:"team_code,omitempty"`
	SupplierOrderID      *string    `json:"supplier_order_id,omitempty"`
	Quantity             *int       `json:"quantity,omitempty" validate:"omitempty,min=1"`
	AmazonOrderID        *string    `json:"amazon_order_id,omitempty"`
	ShippingLabelURL     *string    `json:"shipping_label_url,omitempty" validate:"omitempty,url"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	TrackerID            *string    `json:"tracker_id,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

func (req orderUpdateRequest) toInput() (fulfillment.UpdateOrderInput, error) {
	storeID, err := parseOptionalUUIDField(req.StoreID, "store_id")
	if err != nil {
		return fulfillment.UpdateOrderInput{}, err
	}
	productID, err := parseOptionalUUIDField(req.ProductID, "product_id")
	if err != nil {
		return fulfillment.UpdateOrderInput{}, err
	}
	return fulfillment.UpdateOrderInput{
		StoreID:              storeID,
		ProductID:            productID,
		CodeType:             req.CodeType,
		TeamCode:             req.TeamCode,
		SupplierOrderID:      req.SupplierOrderID,
		Quantity:             req.Quantity,
		AmazonOrderID:        req.AmazonOrderID,
		ShippingLabelURL:     req.ShippingLabelURL,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		TrackerID:            req.TrackerID,
		Notes:                req.Notes,
	}, nil
}

// OrderUpdate edits an order's mutable fields. Status never moves here;
// use the transition endpoint.
func OrderUpdate(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderTransition advances an order along one of the named pipeline moves.
func OrderTransition(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseTransitionKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transition kind"))
			return
		}

		order, err := svc.Transition(r.Context(), actor, id, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderStatusCounts returns the dashboard queue totals for the caller's scope.
func OrderStatusCounts(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		counts, err := svc.StatusCounts(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, counts)
	}
}
