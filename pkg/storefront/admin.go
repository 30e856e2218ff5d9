package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	loginPath          = "/auth/login"
	changePasswordPath = "/auth/change-password"
	mePath             = "/user/me"
)

// Login exchanges admin credentials for a backend token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	env, _, err := c.do(ctx, "login", request{method: http.MethodPost, path: loginPath, body: creds})
	if err != nil {
		return nil, err
	}
	result, err := decodeData[LoginResult]("login", env)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.AccessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing token")
	}
	return &result, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, change PasswordChange) error {
	_, _, err := c.do(ctx, "change password", request{method: http.MethodPost, path: changePasswordPath, token: token, body: change})
	return err
}

func (c *Client) Me(ctx context.Context, token string) (*AdminProfile, error) {
	env, _, err := c.do(ctx, "profile", request{method: http.MethodGet, path: mePath, token: token})
	if err != nil {
		return nil, err
	}
	return decodeData[*AdminProfile]("profile", env)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, input AdminProfileInput) (*AdminProfile, error) {
	env, _, err := c.do(ctx, "update profile", request{method: http.MethodPatch, path: mePath, token: token, body: input})
	if err != nil {
		return nil, err
	}
	return decodeData[*AdminProfile]("update profile", env)
}

func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	env, _, err := c.do(ctx, "create product", request{method: http.MethodPost, path: productsPath, token: token, body: input})
	if err != nil {
		return nil, err
	}
	return decodeData[*Product]("create product", env)
}

func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input ProductInput) (*Product, error) {
	env, _, err := c.do(ctx, "update product", request{
		method: http.MethodPatch,
		path:   productsPath + "/" + url.PathEscape(productID),
		token:  token,
		body:   input,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[*Product]("update product", env)
}

func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	_, _, err := c.do(ctx, "delete product", request{method: http.MethodDelete, path: productsPath + "/" + url.PathEscape(productID), token: token})
	return err
}

func (c *Client) CreateCategory(ctx context.Context, token string, input CategoryInput) (*Category, error) {
	env, _, err := c.do(ctx, "create category", request{method: http.MethodPost, path: categoriesPath, token: token, body: input})
	if err != nil {
		return nil, err
	}
	return decodeData[*Category]("create category", env)
}

func (c *Client) UpdateCategory(ctx context.Context, token, categoryID string, input CategoryInput) (*Category, error) {
	env, _, err := c.do(ctx, "update category", request{
		method: http.MethodPatch,
		path:   categoriesPath + "/" + url.PathEscape(categoryID),
		token:  token,
		body:   input,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[*Category]("update category", env)
}

func (c *Client) DeleteCategory(ctx context.Context, token, categoryID string) error {
	_, _, err := c.do(ctx, "delete category", request{method: http.MethodDelete, path: categoriesPath + "/" + url.PathEscape(categoryID), token: token})
	return err
}
