package orders

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	internalorders "github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const maxFieldLength = 256

// shippingRequest leaves presence checks to the service so a single response
// lists every missing field.
type shippingRequest struct {
	Name     string `json:"name" validate:"max=256"`
	Phone    string `json:"phone" validate:"max=32"`
	Address  string `json:"address" validate:"max=256"`
	District string `json:"district" validate:"max=64"`
}

func (s shippingRequest) details() internalorders.ShippingDetails {
	return internalorders.ShippingDetails{
		Name:     validators.SanitizeString(s.Name, maxFieldLength),
		Phone:    validators.SanitizeString(s.Phone, maxFieldLength),
		Address:  validators.SanitizeString(s.Address, maxFieldLength),
		District: validators.SanitizeString(s.District, maxFieldLength),
	}
}

type directOrderRequest struct {
	shippingRequest
	ProductID      string `json:"product_id" validate:"required,max=64"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	DeliveryOption string `json:"delivery_option" validate:"required"`
}

// PlaceCartOrder submits the session cart. The cart is cleared only when the
// backend accepts the order.
func PlaceCartOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload shippingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.PlaceCartOrder(r.Context(), sessionID, payload.details())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// PlaceDirectOrder submits a single product order without touching the cart.
func PlaceDirectOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload directOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := enums.ParseDeliveryOption(payload.DeliveryOption)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery option").
				WithDetails(map[string]string{"delivery_option": "must be one of dhaka, outside"}))
			return
		}

		receipt, err := svc.PlaceDirectOrder(r.Context(), sessionID, internalorders.DirectOrderInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			Option:    option,
			Details:   payload.details(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// ListSubmissions pages through the order attempts made from this session.
func ListSubmissions(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSubmissions(r.Context(), sessionID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, svc internalorders.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
		return "", false
	}
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
		return "", false
	}
	return sessionID, true
}
