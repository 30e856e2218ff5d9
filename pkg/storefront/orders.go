package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	ordersPath    = "/order"
	dashboardPath = "/order/admin/dashboard"
)

// CreateOrder submits an order. A backend refusal (success other than true,
// or a 4xx answer) comes back as an unsuccessful result; only
// transport, auth and server failures are returned as errors.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*OrderResult, error) {
	env, _, err := c.do(ctx, "create order", request{method: http.MethodPost, path: ordersPath, body: order})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeRejected) {
			msg := ""
			if env != nil {
				msg = env.Message
			}
			if msg == "" {
				msg = pkgerrors.As(err).Message()
			}
			return &OrderResult{Success: false, Message: msg}, nil
		}
		return nil, err
	}

	// only an explicit success=true is an accepted order
	result := &OrderResult{Success: env.Success != nil && *env.Success, Message: env.Message}
	if result.Success {
		var created struct {
			ID string `json:"_id"`
		}
		if len(env.Data) > 0 && json.Unmarshal(env.Data, &created) == nil {
			result.OrderID = created.ID
		}
	}
	return result, nil
}

// ListOrders returns one page of orders for the admin dashboard.
func (c *Client) ListOrders(ctx context.Context, token string, page, limit int) (*OrderList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	env, _, err := c.do(ctx, "list orders", request{method: http.MethodGet, path: ordersPath, query: query, token: token})
	if err != nil {
		return nil, err
	}
	orders, err := decodeData[[]Order]("list orders", env)
	if err != nil {
		return nil, err
	}
	list := &OrderList{Orders: orders}
	if env.Meta != nil {
		list.Meta = *env.Meta
	}
	return list, nil
}

func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*Order, error) {
	env, _, err := c.do(ctx, "order", request{method: http.MethodGet, path: ordersPath + "/" + url.PathEscape(orderID), token: token})
	if err != nil {
		return nil, err
	}
	return decodeData[*Order]("order", env)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, update OrderStatusUpdate) (*Order, error) {
	env, _, err := c.do(ctx, "update order", request{
		method: http.MethodPatch,
		path:   ordersPath + "/" + url.PathEscape(orderID),
		token:  token,
		body:   update,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[*Order]("update order", env)
}

func (c *Client) Dashboard(ctx context.Context, token string) (*DashboardStats, error) {
	env, _, err := c.do(ctx, "dashboard", request{method: http.MethodGet, path: dashboardPath, token: token})
	if err != nil {
		return nil, err
	}
	stats, err := decodeData[DashboardStats]("dashboard", env)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
