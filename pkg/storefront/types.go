package storefront

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ListMeta is the paging block the backend attaches to collection responses.
type ListMeta struct {
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	TotalPage int   `json:"totalPage"`
}

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Photo       string          `json:"photo"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    json.RawMessage `json:"category,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Status      string          `json:"status,omitempty"`
	StockStatus string          `json:"stockStatus,omitempty"`
	Discount    json.RawMessage `json:"discount,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

type ProductList struct {
	Products []Product
	Meta     ListMeta
}

// ProductQuery filters the catalog listing.
type ProductQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// ProductInput is the admin create/update body. Nil fields are left out so
// updates stay partial.
type ProductInput struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Photo       *string          `json:"photo,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
}

type Category struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug,omitempty"`
	Image       string     `json:"image,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// OrderLine references a product and the quantity ordered.
type OrderLine struct {
	ID            string `json:"id"`
	OrderQuantity int    `json:"orderQuantity"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ShippingAddress struct {
	Address  string `json:"address"`
	District string `json:"district"`
}

// OrderRequest is the order creation body. DeliveryOption and DeliveryCharge
// are only sent for single-product "buy now" orders.
type OrderRequest struct {
	Product        []OrderLine     `json:"product"`
	Customer       Customer        `json:"customer"`
	Address        ShippingAddress `json:"address"`
	TotalAmount    float64         `json:"totalAmount"`
	DeliveryOption string          `json:"deliveryOption,omitempty"`
	DeliveryCharge *float64        `json:"deliveryCharge,omitempty"`
}

// OrderResult is the backend verdict on an order submission.
type OrderResult struct {
	Success bool
	Message string
	OrderID string
}

type OrderItem struct {
	Product       json.RawMessage `json:"id"`
	OrderQuantity int             `json:"orderQuantity"`
}

type Order struct {
	ID             string          `json:"_id"`
	Customer       json.RawMessage `json:"customer,omitempty"`
	Product        []OrderItem     `json:"product"`
	Address        ShippingAddress `json:"address"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	IsAccepted     bool            `json:"isAccepted"`
	DeliveryStatus bool            `json:"deliveryStatus"`
	PaymentStatus  bool            `json:"paymentStatus"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

type OrderList struct {
	Orders []Order
	Meta   ListMeta
}

// OrderStatusUpdate carries the admin-side order flags; nil fields are untouched.
type OrderStatusUpdate struct {
	IsAccepted     *bool `json:"isAccepted,omitempty"`
	DeliveryStatus *bool `json:"deliveryStatus,omitempty"`
	PaymentStatus  *bool `json:"paymentStatus,omitempty"`
}

type DashboardStats struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalOrders      int64           `json:"totalOrders"`
	DeliveredOrders  int64           `json:"deliveredOrders"`
	PendingOrders    int64           `json:"pendingOrders"`
	ProcessingOrders int64           `json:"processingOrders"`
	ProductLength    int64           `json:"productLength"`
	CategoryLength   int64           `json:"categoryLength"`
	TotalQuantity    int64           `json:"totalQuantity"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the token the backend minted for the admin session.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
}

type AdminProfile struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	IsBlocked    bool       `json:"isBlocked"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type AdminProfileInput struct {
	Name         *string `json:"name,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
