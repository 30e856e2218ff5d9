package cart

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/storefront"
)

const (
	OpAdd       = "add"
	OpIncrement = "increment"
	OpDecrement = "decrement"
	OpRemove    = "remove"
	OpDistrict  = "district"
	OpClear     = "clear"
)

// Service applies cart operations to the persisted cart of a shopper session.
// Every call loads the snapshot, applies exactly one operation and saves it.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*View, error)
	AddProduct(ctx context.Context, sessionID, productID string) (*View, bool, error)
	IncrementQuantity(ctx context.Context, sessionID, productID string) (*View, error)
	DecrementQuantity(ctx context.Context, sessionID, productID string) (*View, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*View, error)
	SelectDistrict(ctx context.Context, sessionID, district string) (*View, error)
	ClearAll(ctx context.Context, sessionID string) (*View, error)
	FeeTable() FeeTable
}

type ServiceParams struct {
	Repo     Repository
	Products ProductLoader
	Fees     FeeTable
	Metrics  mutationRecorder
}

type service struct {
	repo     Repository
	products ProductLoader
	fees     FeeTable
	metrics  mutationRecorder
	locks    *sessionLocks
}

// NewService builds the session cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		fees:     params.Fees,
		metrics:  params.Metrics,
		locks:    &sessionLocks{},
	}, nil
}

func (s *service) FeeTable() FeeTable {
	return s.fees
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newView(sessionID, c), nil
}

// AddProduct resolves the product from the catalog and adds it. The bool
// reports whether the product was already in the cart.
func (s *service) AddProduct(ctx context.Context, sessionID, productID string) (*View, bool, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, false, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	// resolved outside the session lock; the catalog call is the slow part
	remote, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	product, err := productFromCatalog(productID, remote)
	if err != nil {
		return nil, false, err
	}

	var alreadyPresent bool
	view, err := s.mutate(ctx, sessionID, OpAdd, func(c *Cart) {
		alreadyPresent = c.AddItem(product)
	})
	if err != nil {
		return nil, false, err
	}
	return view, alreadyPresent, nil
}

func (s *service) IncrementQuantity(ctx context.Context, sessionID, productID string) (*View, error) {
	return s.mutate(ctx, sessionID, OpIncrement, func(c *Cart) {
		c.IncrementQuantity(strings.TrimSpace(productID))
	})
}

func (s *service) DecrementQuantity(ctx context.Context, sessionID, productID string) (*View, error) {
	return s.mutate(ctx, sessionID, OpDecrement, func(c *Cart) {
		c.DecrementQuantity(strings.TrimSpace(productID))
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (*View, error) {
	return s.mutate(ctx, sessionID, OpRemove, func(c *Cart) {
		c.RemoveItem(strings.TrimSpace(productID))
	})
}

func (s *service) SelectDistrict(ctx context.Context, sessionID, district string) (*View, error) {
	return s.mutate(ctx, sessionID, OpDistrict, func(c *Cart) {
		c.SetDeliveryFee(district)
	})
}

func (s *service) ClearAll(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, OpClear, func(c *Cart) {
		c.ClearAll()
	})
}

func (s *service) mutate(ctx context.Context, sessionID, op string, apply func(c *Cart)) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	apply(c)

	if c.IsEmpty() && c.District() == "" {
		err = s.repo.Delete(ctx, sessionID)
	} else {
		err = s.repo.Save(ctx, sessionID, c.Snapshot())
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	if s.metrics != nil {
		s.metrics.IncMutation(op)
	}
	return newView(sessionID, c), nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	snapshot, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if snapshot == nil {
		return New(s.fees), nil
	}
	return Restore(*snapshot, s.fees), nil
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}

func productFromCatalog(productID string, remote *storefront.Product) (Product, error) {
	if remote == nil {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if remote.Price.IsNegative() {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative").
			WithDetails(map[string]any{"product_id": productID})
	}
	id := remote.ID
	if id == "" {
		id = productID
	}
	return Product{
		ID:        id,
		Name:      remote.Name,
		UnitPrice: remote.Price,
		Photo:     remote.Photo,
	}, nil
}
