package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/api/middleware"
	cartsvc "github.com/angelmondragon/storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const testSession = "0b6f4c1e-7c4a-4c8e-9a57-3f1f0d3c2a10"

type stubCartService struct {
	view           *cartsvc.View
	alreadyPresent bool
	err            error
	calls          []string
}

func (s *stubCartService) record(op string, args ...string) (*cartsvc.View, error) {
	s.calls = append(s.calls, strings.Join(append([]string{op}, args...), ":"))
	return s.view, s.err
}

func (s *stubCartService) GetCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	return s.record("get", sessionID)
}

func (s *stubCartService) AddProduct(ctx context.Context, sessionID, productID string) (*cartsvc.View, bool, error) {
	view, err := s.record("add", sessionID, productID)
	return view, s.alreadyPresent, err
}

func (s *stubCartService) IncrementQuantity(ctx context.Context, sessionID, productID string) (*cartsvc.View, error) {
	return s.record("increment", sessionID, productID)
}

func (s *stubCartService) DecrementQuantity(ctx context.Context, sessionID, productID string) (*cartsvc.View, error) {
	return s.record("decrement", sessionID, productID)
}

func (s *stubCartService) RemoveItem(ctx context.Context, sessionID, productID string) (*cartsvc.View, error) {
	return s.record("remove", sessionID, productID)
}

func (s *stubCartService) SelectDistrict(ctx context.Context, sessionID, district string) (*cartsvc.View, error) {
	return s.record("district", sessionID, district)
}

func (s *stubCartService) ClearAll(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	return s.record("clear", sessionID)
}

func (s *stubCartService) FeeTable() cartsvc.FeeTable { return cartsvc.DefaultFeeTable() }

func sampleView() *cartsvc.View {
	return &cartsvc.View{
		SessionID:   testSession,
		Items:       []cartsvc.LineItem{{ProductID: "p-1", Name: "Kettle", UnitPrice: decimal.NewFromInt(500), OrderQuantity: 2}},
		ItemCount:   1,
		UnitCount:   2,
		District:    "Dhaka",
		Subtotal:    decimal.NewFromInt(1000),
		DeliveryFee: decimal.NewFromInt(100),
		Total:       decimal.NewFromInt(1100),
	}
}

func newRouter(svc cartsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CartSession(nil))
	r.Get("/api/v1/cart", CartFetch(svc, nil))
	r.Delete("/api/v1/cart", CartClear(svc, nil))
	r.Post("/api/v1/cart/items", CartAddItem(svc, nil))
	r.Post("/api/v1/cart/items/{productId}/increment", CartIncrement(svc, nil))
	r.Post("/api/v1/cart/items/{productId}/decrement", CartDecrement(svc, nil))
	r.Delete("/api/v1/cart/items/{productId}", CartRemoveItem(svc, nil))
	r.Put("/api/v1/cart/district", CartSelectDistrict(svc, nil))
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set(middleware.CartSessionHeader, testSession)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCartFetch(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	rec := serve(t, newRouter(svc), http.MethodGet, "/api/v1/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSession, rec.Header().Get(middleware.CartSessionHeader))

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.True(t, envelope.Data.Total.Equal(decimal.NewFromInt(1100)))
	assert.Equal(t, []string{"get:" + testSession}, svc.calls)
}

func TestCartAddItem(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	rec := serve(t, newRouter(svc), http.MethodPost, "/api/v1/cart/items", `{"product_id":" p-1 "}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"add:" + testSession + ":p-1"}, svc.calls)

	var envelope struct {
		Data AddItemResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.False(t, envelope.Data.AlreadyPresent)
}

func TestCartAddItemAlreadyPresent(t *testing.T) {
	svc := &stubCartService{view: sampleView(), alreadyPresent: true}
	rec := serve(t, newRouter(svc), http.MethodPost, "/api/v1/cart/items", `{"product_id":"p-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"already_present":true`)
}

func TestCartAddItemValidation(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	rec := serve(t, newRouter(svc), http.MethodPost, "/api/v1/cart/items", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.calls)
}

func TestCartItemMutations(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{method: http.MethodPost, path: "/api/v1/cart/items/p-1/increment", want: "increment"},
		{method: http.MethodPost, path: "/api/v1/cart/items/p-1/decrement", want: "decrement"},
		{method: http.MethodDelete, path: "/api/v1/cart/items/p-1", want: "remove"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			svc := &stubCartService{view: sampleView()}
			rec := serve(t, newRouter(svc), tt.method, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{tt.want + ":" + testSession + ":p-1"}, svc.calls)
		})
	}
}

func TestCartSelectDistrict(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	rec := serve(t, newRouter(svc), http.MethodPut, "/api/v1/cart/district", `{"district":"Dhaka"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"district:" + testSession + ":Dhaka"}, svc.calls)
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{SessionID: testSession}}
	rec := serve(t, newRouter(svc), http.MethodDelete, "/api/v1/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"clear:" + testSession}, svc.calls)
}

func TestCartServiceErrorsAreMapped(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	rec := serve(t, newRouter(svc), http.MethodPost, "/api/v1/cart/items", `{"product_id":"missing"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestCartWithoutSessionMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	CartFetch(&stubCartService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartNilService(t *testing.T) {
	rec := httptest.NewRecorder()
	CartIncrement(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
