package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the closed product shape accepted when adding to a cart.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Photo     string
}

// LineItem is one distinct product held in the cart. OrderQuantity is never
// below one.
type LineItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Photo         string          `json:"photo"`
	OrderQuantity int             `json:"order_quantity"`
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.OrderQuantity)))
}

// Cart holds the ordered line items of one shopper plus the delivery fee of
// the selected district. Operations are total: stale product ids are no-ops.
// A Cart is not safe for concurrent use; callers serialize access per session.
type Cart struct {
	items       []LineItem
	district    string
	deliveryFee decimal.Decimal
	fees        FeeTable
}

// New returns an empty cart priced with the given fee table.
func New(fees FeeTable) *Cart {
	return &Cart{fees: fees}
}

// AddItem appends the product with quantity one, or bumps the quantity when
// the product is already present. The result reports which case applied.
func (c *Cart) AddItem(p Product) (alreadyPresent bool) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.items[i].OrderQuantity++
		return true
	}
	c.items = append(c.items, LineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice,
		Photo:         p.Photo,
		OrderQuantity: 1,
	})
	return false
}

func (c *Cart) IncrementQuantity(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.items[i].OrderQuantity++
	}
}

// DecrementQuantity lowers the quantity by one, stopping at one. It never
// removes the line.
func (c *Cart) DecrementQuantity(productID string) {
	if i := c.indexOf(productID); i >= 0 && c.items[i].OrderQuantity > 1 {
		c.items[i].OrderQuantity--
	}
}

func (c *Cart) RemoveItem(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// ClearAll empties the cart and resets the district and delivery fee.
func (c *Cart) ClearAll() {
	c.items = nil
	c.district = ""
	c.deliveryFee = decimal.Zero
}

// SetDeliveryFee selects a district and prices delivery from the fee table.
// An empty district clears the selection.
func (c *Cart) SetDeliveryFee(district string) {
	district = strings.TrimSpace(district)
	if district == "" {
		c.district = ""
		c.deliveryFee = decimal.Zero
		return
	}
	c.district = district
	c.deliveryFee = c.fees.FeeFor(district)
}

// LineItems returns a copy of the items in insertion order.
func (c *Cart) LineItems() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// ItemCount is the number of distinct products, not the unit count.
func (c *Cart) ItemCount() int {
	return len(c.items)
}

// UnitCount sums the quantities of every line.
func (c *Cart) UnitCount() int {
	n := 0
	for _, li := range c.items {
		n += li.OrderQuantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range c.items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

func (c *Cart) DeliveryFee() decimal.Decimal {
	return c.deliveryFee
}

func (c *Cart) District() string {
	return c.district
}

func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.deliveryFee)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
