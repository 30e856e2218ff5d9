package cart

import "github.com/shopspring/decimal"

// View is the read model returned to API callers after every operation.
type View struct {
	SessionID   string          `json:"session_id"`
	Items       []LineItem      `json:"items"`
	ItemCount   int             `json:"item_count"`
	UnitCount   int             `json:"unit_count"`
	District    string          `json:"district,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

func newView(sessionID string, c *Cart) *View {
	return &View{
		SessionID:   sessionID,
		Items:       c.LineItems(),
		ItemCount:   c.ItemCount(),
		UnitCount:   c.UnitCount(),
		District:    c.District(),
		Subtotal:    c.Subtotal(),
		DeliveryFee: c.DeliveryFee(),
		Total:       c.Total(),
	}
}
