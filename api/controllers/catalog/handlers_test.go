package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogsvc "github.com/angelmondragon/storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/angelmondragon/storefront/pkg/types"
)

type stubCatalog struct {
	input      catalogsvc.ListProductsInput
	productID  string
	err        error
	categories []storefront.Category
}

func (s *stubCatalog) ListProducts(ctx context.Context, input catalogsvc.ListProductsInput) (*types.Page[storefront.Product], error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &types.Page[storefront.Product]{
		Items: []storefront.Product{{ID: "p-1", Name: "Kettle", Price: decimal.NewFromInt(500), Stock: 3}},
		Meta:  pagination.Meta(input.Pagination, 1),
	}, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID string) (*storefront.Product, error) {
	s.productID = productID
	if s.err != nil {
		return nil, s.err
	}
	return &storefront.Product{ID: productID, Name: "Kettle"}, nil
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]storefront.Category, error) {
	return s.categories, s.err
}

func (s *stubCatalog) InvalidateCategories(ctx context.Context) error { return nil }

func TestListProductsPassesFilters(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&limit=8&search=%20kettle%20&category=kitchen", nil)
	ListProducts(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalogsvc.ListProductsInput{
		Pagination: pagination.Params{Page: 2, Limit: 8},
		Search:     "kettle",
		Category:   "kitchen",
	}, svc.input)
	assert.Contains(t, rec.Body.String(), `"_id":"p-1"`)
}

func TestListProductsRejectsBadPaging(t *testing.T) {
	rec := httptest.NewRecorder()
	ListProducts(&stubCatalog{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	svc := &stubCatalog{}
	r := chi.NewRouter()
	r.Get("/api/v1/products/{productId}", GetProduct(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/p-7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-7", svc.productID)
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	r := chi.NewRouter()
	r.Get("/api/v1/products/{productId}", GetProduct(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCategoriesDependencyDown(t *testing.T) {
	svc := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeDependency, "backend unavailable")}
	rec := httptest.NewRecorder()
	ListCategories(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
