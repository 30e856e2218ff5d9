package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/angelmondragon/storefront/pkg/types"
)

const categoriesCacheName = "categories"

// Service serves the public catalog from the backend.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*types.Page[storefront.Product], error)
	GetProduct(ctx context.Context, productID string) (*storefront.Product, error)
	ListCategories(ctx context.Context) ([]storefront.Category, error)
	InvalidateCategories(ctx context.Context) error
}

// ListProductsInput filters the product grid.
type ListProductsInput struct {
	Pagination pagination.Params
	Search     string
	Category   string
}

type gateway interface {
	ListProducts(ctx context.Context, q storefront.ProductQuery) (*storefront.ProductList, error)
	GetProduct(ctx context.Context, productID string) (*storefront.Product, error)
	ListCategories(ctx context.Context) ([]storefront.Category, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(name string) string
}

type ServiceParams struct {
	Gateway     gateway
	Cache       cache
	CategoryTTL time.Duration
	Logger      *logger.Logger
}

type service struct {
	gateway     gateway
	cache       cache
	categoryTTL time.Duration
	logg        *logger.Logger
}

// NewService builds the catalog service. Cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("catalog gateway required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		gateway:     params.Gateway,
		cache:       params.Cache,
		categoryTTL: params.CategoryTTL,
		logg:        params.Logger,
	}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*types.Page[storefront.Product], error) {
	params := pagination.Normalize(input.Pagination)
	list, err := s.gateway.ListProducts(ctx, storefront.ProductQuery{
		Page:     params.Page,
		Limit:    params.Limit,
		Search:   strings.TrimSpace(input.Search),
		Category: strings.TrimSpace(input.Category),
	})
	if err != nil {
		return nil, err
	}

	items := list.Products
	if items == nil {
		items = []storefront.Product{}
	}
	meta := pagination.Meta(params, list.Meta.Total)
	if list.Meta.TotalPage > 0 {
		meta.TotalPages = list.Meta.TotalPage
	}
	return &types.Page[storefront.Product]{Items: items, Meta: meta}, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*storefront.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.gateway.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

// ListCategories reads through the cache. Cache failures degrade to a direct
// backend read.
func (s *service) ListCategories(ctx context.Context) ([]storefront.Category, error) {
	if cached, ok := s.cachedCategories(ctx); ok {
		return cached, nil
	}

	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []storefront.Category{}
	}

	if s.cacheEnabled() {
		raw, err := json.Marshal(categories)
		if err == nil {
			err = s.cache.Set(ctx, s.cache.CatalogKey(categoriesCacheName), string(raw), s.categoryTTL)
		}
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("category cache write failed: %v", err))
		}
	}
	return categories, nil
}

// InvalidateCategories drops the cached category list after an admin write.
func (s *service) InvalidateCategories(ctx context.Context) error {
	if !s.cacheEnabled() {
		return nil
	}
	return s.cache.Del(ctx, s.cache.CatalogKey(categoriesCacheName))
}

func (s *service) cachedCategories(ctx context.Context) ([]storefront.Category, bool) {
	if !s.cacheEnabled() {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CatalogKey(categoriesCacheName))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logg.Warn(ctx, fmt.Sprintf("category cache read failed: %v", err))
		}
		return nil, false
	}
	var categories []storefront.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		s.logg.Warn(ctx, "discarding undecodable category cache entry")
		return nil, false
	}
	return categories, true
}

func (s *service) cacheEnabled() bool {
	return s.cache != nil && s.categoryTTL > 0
}
