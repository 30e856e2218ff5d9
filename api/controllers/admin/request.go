package admin

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/storefront"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type profileRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=120"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,max=32"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

func (p profileRequest) toInput() storefront.AdminProfileInput {
	return storefront.AdminProfileInput{
		Name:         p.Name,
		PhoneNumber:  p.PhoneNumber,
		ProfileImage: p.ProfileImage,
	}
}

type passwordRequest struct {
	OldPassword     string `json:"old_password" validate:"required,max=128"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type productRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Photo       *string          `json:"photo" validate:"omitempty,url"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Category    *string          `json:"category" validate:"omitempty,max=64"`
	Brand       *string          `json:"brand" validate:"omitempty,max=120"`
}

func (p productRequest) toInput() storefront.ProductInput {
	return storefront.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Photo:       p.Photo,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Brand:       p.Brand,
	}
}

type categoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image" validate:"omitempty,url"`
}

func (c categoryRequest) toInput() storefront.CategoryInput {
	return storefront.CategoryInput{
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
	}
}

type orderStatusRequest struct {
	IsAccepted     *bool `json:"is_accepted"`
	DeliveryStatus *bool `json:"delivery_status"`
	PaymentStatus  *bool `json:"payment_status"`
}

func (o orderStatusRequest) toUpdate() storefront.OrderStatusUpdate {
	return storefront.OrderStatusUpdate{
		IsAccepted:     o.IsAccepted,
		DeliveryStatus: o.DeliveryStatus,
		PaymentStatus:  o.PaymentStatus,
	}
}
