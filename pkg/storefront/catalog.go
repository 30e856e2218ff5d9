package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	productsPath   = "/product"
	categoriesPath = "/category"
)

// ListProducts returns one page of the public catalog.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		query.Set("search", s)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		query.Set("category", cat)
	}

	env, _, err := c.do(ctx, "list products", request{method: http.MethodGet, path: productsPath, query: query})
	if err != nil {
		return nil, err
	}
	products, err := decodeData[[]Product]("list products", env)
	if err != nil {
		return nil, err
	}
	list := &ProductList{Products: products}
	if env.Meta != nil {
		list.Meta = *env.Meta
	}
	return list, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	env, _, err := c.do(ctx, "product", request{method: http.MethodGet, path: productsPath + "/" + url.PathEscape(productID)})
	if err != nil {
		return nil, err
	}
	return decodeData[*Product]("product", env)
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	env, _, err := c.do(ctx, "list categories", request{method: http.MethodGet, path: categoriesPath})
	if err != nil {
		return nil, err
	}
	return decodeData[[]Category]("list categories", env)
}
