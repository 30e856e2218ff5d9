package cart

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Items       []LineItem      `json:"items"`
	District    string          `json:"district,omitempty"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Items:       c.LineItems(),
		District:    c.district,
		DeliveryFee: c.deliveryFee,
	}
}

// Restore rebuilds a cart from a snapshot. Lines with a non-positive quantity
// or a duplicate product id are dropped so a corrupt snapshot cannot break the
// cart invariants. The fee is recomputed from the current table so it always
// follows the selected district.
func Restore(s Snapshot, fees FeeTable) *Cart {
	c := New(fees)
	seen := make(map[string]struct{}, len(s.Items))
	for _, li := range s.Items {
		if li.ProductID == "" || li.OrderQuantity < 1 {
			continue
		}
		if _, dup := seen[li.ProductID]; dup {
			continue
		}
		seen[li.ProductID] = struct{}{}
		c.items = append(c.items, li)
	}
	c.SetDeliveryFee(s.District)
	return c
}
