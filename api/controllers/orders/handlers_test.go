package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/api/middleware"
	internalorders "github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/types"
)

const testSession = "5d0c7d0e-2b51-4b8a-8f8e-8a9c3c3f4b11"

type stubOrdersService struct {
	receipt     *internalorders.Receipt
	err         error
	cartDetails internalorders.ShippingDetails
	direct      internalorders.DirectOrderInput
	listParams  pagination.Params
	sessionID   string
}

func (s *stubOrdersService) PlaceCartOrder(ctx context.Context, sessionID string, details internalorders.ShippingDetails) (*internalorders.Receipt, error) {
	s.sessionID = sessionID
	s.cartDetails = details
	return s.receipt, s.err
}

func (s *stubOrdersService) PlaceDirectOrder(ctx context.Context, sessionID string, input internalorders.DirectOrderInput) (*internalorders.Receipt, error) {
	s.sessionID = sessionID
	s.direct = input
	return s.receipt, s.err
}

func (s *stubOrdersService) ListSubmissions(ctx context.Context, sessionID string, params pagination.Params) (*types.Page[internalorders.Submission], error) {
	s.sessionID = sessionID
	s.listParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &types.Page[internalorders.Submission]{
		Items: []internalorders.Submission{{ID: uuid.New(), Kind: enums.SubmissionKindCart, Status: enums.SubmissionStatusAccepted}},
		Meta:  pagination.Meta(params, 1),
	}, nil
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithCartSession(req.Context(), testSession))
}

func TestPlaceCartOrder(t *testing.T) {
	svc := &stubOrdersService{receipt: &internalorders.Receipt{SubmissionID: uuid.New(), OrderID: "o-1", TotalAmount: decimal.NewFromInt(1100)}}
	body := `{"name":"  Rahim ","phone":"01700000000","address":"House 1, Road 2","district":"Dhaka"}`

	rec := httptest.NewRecorder()
	PlaceCartOrder(svc, nil).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, testSession, svc.sessionID)
	assert.Equal(t, "Rahim", svc.cartDetails.Name)
	assert.Equal(t, "Dhaka", svc.cartDetails.District)
	assert.Contains(t, rec.Body.String(), `"order_id":"o-1"`)
}

func TestPlaceCartOrderRejected(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeRejected, "Insufficient stock")}
	body := `{"name":"Rahim","phone":"017","address":"Road 2"}`

	rec := httptest.NewRecorder()
	PlaceCartOrder(svc, nil).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock")
}

func TestPlaceCartOrderInFlight(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeConflict, "an order is already being submitted")}

	rec := httptest.NewRecorder()
	PlaceCartOrder(svc, nil).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceDirectOrder(t *testing.T) {
	svc := &stubOrdersService{receipt: &internalorders.Receipt{SubmissionID: uuid.New()}}
	body := `{"product_id":"p-9","quantity":2,"delivery_option":"Outside","name":"Karim","phone":"018","address":"Sylhet road","district":"Sylhet"}`

	rec := httptest.NewRecorder()
	PlaceDirectOrder(svc, nil).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/orders/direct", strings.NewReader(body))))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "p-9", svc.direct.ProductID)
	assert.Equal(t, 2, svc.direct.Quantity)
	assert.Equal(t, enums.DeliveryOptionOutside, svc.direct.Option)
	assert.Equal(t, "Sylhet", svc.direct.Details.District)
}

func TestPlaceDirectOrderValidation(t *testing.T) {
	tests := map[string]string{
		"bad option":    `{"product_id":"p-9","quantity":1,"delivery_option":"moon"}`,
		"zero quantity": `{"product_id":"p-9","quantity":0,"delivery_option":"dhaka"}`,
		"missing id":    `{"quantity":1,"delivery_option":"dhaka"}`,
		"unknown field": `{"product_id":"p-9","quantity":1,"delivery_option":"dhaka","coupon":"FREE"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &stubOrdersService{}
			rec := httptest.NewRecorder()
			PlaceDirectOrder(svc, nil).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/orders/direct", strings.NewReader(body))))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.sessionID)
		})
	}
}

func TestListSubmissions(t *testing.T) {
	svc := &stubOrdersService{}

	rec := httptest.NewRecorder()
	ListSubmissions(svc, nil).ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=2&limit=5", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.Params{Page: 2, Limit: 5}, svc.listParams)
	assert.Contains(t, rec.Body.String(), `"status":"accepted"`)
}

func TestOrdersRequireSession(t *testing.T) {
	rec := httptest.NewRecorder()
	ListSubmissions(&stubOrdersService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
