package orders

import (
	"strings"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/shopspring/decimal"
)

// ShippingDetails is what the shopper types into the checkout form.
type ShippingDetails struct {
	Name     string
	Phone    string
	Address  string
	District string
}

func (d ShippingDetails) trimmed() ShippingDetails {
	return ShippingDetails{
		Name:     strings.TrimSpace(d.Name),
		Phone:    strings.TrimSpace(d.Phone),
		Address:  strings.TrimSpace(d.Address),
		District: strings.TrimSpace(d.District),
	}
}

// BuildCartOrder maps the cart lines and shipping details onto the backend
// order body. Only product ids and quantities are sent; the backend prices the
// order from its own catalog.
func BuildCartOrder(items []cart.LineItem, details ShippingDetails, total decimal.Decimal) storefront.OrderRequest {
	lines := make([]storefront.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, storefront.OrderLine{ID: item.ProductID, OrderQuantity: item.OrderQuantity})
	}
	return storefront.OrderRequest{
		Product:     lines,
		Customer:    storefront.Customer{Name: details.Name, Phone: details.Phone},
		Address:     storefront.ShippingAddress{Address: details.Address, District: details.District},
		TotalAmount: total.InexactFloat64(),
	}
}

// BuildDirectOrder builds a single product "buy now" order. The delivery
// option and its charge travel with the payload.
func BuildDirectOrder(productID string, quantity int, details ShippingDetails, option enums.DeliveryOption, charge, total decimal.Decimal) storefront.OrderRequest {
	req := BuildCartOrder([]cart.LineItem{{ProductID: productID, OrderQuantity: quantity}}, details, total)
	fee := charge.InexactFloat64()
	req.DeliveryOption = option.String()
	req.DeliveryCharge = &fee
	return req
}
