package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://backend.test/api/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestListProductsBuildsQueryAndDecodesMeta(t *testing.T) {
	var capturedURL string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"success":true,"data":[{"_id":"p1","name":"Tea","photo":"tea.jpg","price":500,"stock":3}],"meta":{"total":9,"page":2,"limit":4,"totalPage":3}}`), nil
	})

	list, err := client.ListProducts(context.Background(), ProductQuery{Page: 2, Limit: 4, Search: " tea "})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if capturedURL != "http://backend.test/api/product?limit=4&page=2&search=tea" {
		t.Fatalf("unexpected url %q", capturedURL)
	}
	if len(list.Products) != 1 || !list.Products[0].Price.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected products %+v", list.Products)
	}
	if list.Meta.TotalPage != 3 {
		t.Fatalf("unexpected meta %+v", list.Meta)
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	var payload map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/api/order" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if req.Header.Get("Authorization") != "" {
			t.Fatalf("shopper orders must not carry authorization")
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"success":true,"message":"Order placed","data":{"_id":"o-1"}}`), nil
	})

	result, err := client.CreateOrder(context.Background(), OrderRequest{
		Product:     []OrderLine{{ID: "p1", OrderQuantity: 2}},
		Customer:    Customer{Name: "Rahim", Phone: "01700000000"},
		Address:     ShippingAddress{Address: "Road 1", District: "Dhaka"},
		TotalAmount: 1100,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !result.Success || result.OrderID != "o-1" || result.Message != "Order placed" {
		t.Fatalf("unexpected result %+v", result)
	}
	if payload["totalAmount"].(float64) != 1100 {
		t.Fatalf("unexpected totalAmount %v", payload["totalAmount"])
	}
	if _, ok := payload["deliveryOption"]; ok {
		t.Fatalf("cart orders must not send deliveryOption")
	}
	lines := payload["product"].([]any)
	if lines[0].(map[string]any)["orderQuantity"].(float64) != 2 {
		t.Fatalf("unexpected product lines %v", lines)
	}
}

func TestCreateOrderRejection(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "success false", status: http.StatusOK, body: `{"success":false,"message":"Out of stock"}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{"success":false,"message":"Out of stock"}`},
		{name: "success missing", status: http.StatusOK, body: `{}`},
		{name: "success null", status: http.StatusOK, body: `{"success":null,"message":"Out of stock"}`},
		{name: "message only", status: http.StatusCreated, body: `{"message":"queued"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, tc.body), nil
			})
			result, err := client.CreateOrder(context.Background(), OrderRequest{})
			if err != nil {
				t.Fatalf("rejection should not be an error: %v", err)
			}
			if result.Success {
				t.Fatalf("expected rejection, got %+v", result)
			}
			if strings.Contains(tc.body, "Out of stock") && result.Message != "Out of stock" {
				t.Fatalf("unexpected message %q", result.Message)
			}
		})
	}
}

func TestCreateOrderTransportAndServerErrors(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})
	if _, err := client.CreateOrder(context.Background(), OrderRequest{}); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	client = newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `<html>bad gateway</html>`), nil
	})
	if _, err := client.CreateOrder(context.Background(), OrderRequest{}); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for 5xx, got %v", err)
	}
}

func TestAdminCallsForwardRawToken(t *testing.T) {
	var capturedAuth, capturedBody string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		raw, _ := io.ReadAll(req.Body)
		capturedBody = string(raw)
		return jsonResponse(http.StatusOK, `{"success":true,"data":{"_id":"o-1","isAccepted":true,"totalAmount":600}}`), nil
	})

	accepted := true
	order, err := client.UpdateOrderStatus(context.Background(), "tok-123", "o-1", OrderStatusUpdate{IsAccepted: &accepted})
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if capturedAuth != "tok-123" {
		t.Fatalf("expected raw token, got %q", capturedAuth)
	}
	if capturedBody != `{"isAccepted":true}` {
		t.Fatalf("unexpected body %s", capturedBody)
	}
	if !order.IsAccepted {
		t.Fatalf("expected accepted order")
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{status: http.StatusUnauthorized, code: pkgerrors.CodeUnauthorized},
		{status: http.StatusForbidden, code: pkgerrors.CodeForbidden},
		{status: http.StatusNotFound, code: pkgerrors.CodeNotFound},
		{status: http.StatusConflict, code: pkgerrors.CodeRejected},
		{status: http.StatusInternalServerError, code: pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, `{"success":false,"message":"nope"}`), nil
		})
		_, err := client.GetProduct(context.Background(), "p1")
		if !pkgerrors.HasCode(err, tc.code) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.code, err)
		}
	}
}

func TestLoginRequiresToken(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success":true,"data":{}}`), nil
	})
	if _, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"}); err == nil {
		t.Fatal("expected error for missing token")
	}

	client = newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success":true,"data":{"accessToken":"tok"}}`), nil
	})
	res, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	if err != nil || res.AccessToken != "tok" {
		t.Fatalf("unexpected login result %+v err=%v", res, err)
	}
}
