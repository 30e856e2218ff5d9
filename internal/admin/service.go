package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	minPasswordLength         = 8
)

// Service exposes the back-office operations. Every call except Login
// forwards the caller's token to the backend, which stays the authority on
// what the admin may do.
type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, token string) (*storefront.AdminProfile, error)
	UpdateProfile(ctx context.Context, token string, input storefront.AdminProfileInput) (*storefront.AdminProfile, error)
	ChangePassword(ctx context.Context, token string, change storefront.PasswordChange) error

	CreateProduct(ctx context.Context, token string, input storefront.ProductInput) (*storefront.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input storefront.ProductInput) (*storefront.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error

	CreateCategory(ctx context.Context, token string, input storefront.CategoryInput) (*storefront.Category, error)
	UpdateCategory(ctx context.Context, token, categoryID string, input storefront.CategoryInput) (*storefront.Category, error)
	DeleteCategory(ctx context.Context, token, categoryID string) error

	ListOrders(ctx context.Context, token string, params pagination.Params) (*types.Page[storefront.Order], error)
	GetOrder(ctx context.Context, token, orderID string) (*storefront.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, update storefront.OrderStatusUpdate) (*storefront.Order, error)
	Dashboard(ctx context.Context, token string) (*storefront.DashboardStats, error)
}

// Session is returned on a successful admin login.
type Session struct {
	AccessToken string     `json:"access_token"`
	UserID      string     `json:"user_id,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type backend interface {
	Login(ctx context.Context, creds storefront.Credentials) (*storefront.LoginResult, error)
	Me(ctx context.Context, token string) (*storefront.AdminProfile, error)
	UpdateProfile(ctx context.Context, token string, input storefront.AdminProfileInput) (*storefront.AdminProfile, error)
	ChangePassword(ctx context.Context, token string, change storefront.PasswordChange) error
	CreateProduct(ctx context.Context, token string, input storefront.ProductInput) (*storefront.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input storefront.ProductInput) (*storefront.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	CreateCategory(ctx context.Context, token string, input storefront.CategoryInput) (*storefront.Category, error)
	UpdateCategory(ctx context.Context, token, categoryID string, input storefront.CategoryInput) (*storefront.Category, error)
	DeleteCategory(ctx context.Context, token, categoryID string) error
	ListOrders(ctx context.Context, token string, page, limit int) (*storefront.OrderList, error)
	GetOrder(ctx context.Context, token, orderID string) (*storefront.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, update storefront.OrderStatusUpdate) (*storefront.Order, error)
	Dashboard(ctx context.Context, token string) (*storefront.DashboardStats, error)
}

type categoryInvalidator interface {
	InvalidateCategories(ctx context.Context) error
}

// ServiceParams bundles the admin service dependencies.
type ServiceParams struct {
	Backend    backend
	Categories categoryInvalidator
	JWTConfig  config.JWTConfig
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	backend    backend
	categories categoryInvalidator
	jwtCfg     config.JWTConfig
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		backend:    params.Backend,
		categories: params.Categories,
		jwtCfg:     params.JWTConfig,
		logg:       params.Logger,
		now:        params.Now,
	}, nil
}

// Login exchanges credentials for the backend token and refuses tokens that
// do not carry the admin role.
func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	result, err := s.backend.Login(ctx, storefront.Credentials{Email: email, Password: password})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeRejected) || pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
		}
		return nil, err
	}

	claims, err := auth.ParseAdminToken(s.jwtCfg, result.AccessToken, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend issued an unreadable token")
	}
	if !claims.HasRole(s.adminRole()) {
		s.logg.Warn(s.logg.WithUserID(ctx, claims.UserID), "non-admin login refused")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	session := &Session{
		AccessToken: result.AccessToken,
		UserID:      claims.UserID,
		Email:       firstNonEmpty(claims.Email, email),
		Role:        claims.Role,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time.UTC()
		session.ExpiresAt = &exp
	}
	return session, nil
}

func (s *service) Me(ctx context.Context, token string) (*storefront.AdminProfile, error) {
	return s.backend.Me(ctx, token)
}

func (s *service) UpdateProfile(ctx context.Context, token string, input storefront.AdminProfileInput) (*storefront.AdminProfile, error) {
	input.Name = trimmed(input.Name)
	input.PhoneNumber = trimmed(input.PhoneNumber)
	input.ProfileImage = trimmed(input.ProfileImage)
	if input.Name == nil && input.PhoneNumber == nil && input.ProfileImage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields to update")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}
	return s.backend.UpdateProfile(ctx, token, input)
}

func (s *service) ChangePassword(ctx context.Context, token string, change storefront.PasswordChange) error {
	if change.OldPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "current password is required")
	}
	if len(change.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if change.NewPassword == change.OldPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must differ from the current one")
	}
	return s.backend.ChangePassword(ctx, token, change)
}

func (s *service) CreateProduct(ctx context.Context, token string, input storefront.ProductInput) (*storefront.Product, error) {
	input = normalizeProduct(input)
	var missing []string
	if input.Name == nil || *input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Price == nil {
		missing = append(missing, "price")
	}
	if input.Stock == nil {
		missing = append(missing, "stock")
	}
	if input.Category == nil || *input.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product fields missing").
			WithDetails(map[string]any{"missing": missing})
	}
	if err := validateProductValues(input); err != nil {
		return nil, err
	}
	return s.backend.CreateProduct(ctx, token, input)
}

func (s *service) UpdateProduct(ctx context.Context, token, productID string, input storefront.ProductInput) (*storefront.Product, error) {
	productID, err := requireID("product", productID)
	if err != nil {
		return nil, err
	}
	input = normalizeProduct(input)
	if input == (storefront.ProductInput{}) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no product fields to update")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}
	if err := validateProductValues(input); err != nil {
		return nil, err
	}
	return s.backend.UpdateProduct(ctx, token, productID, input)
}

func (s *service) DeleteProduct(ctx context.Context, token, productID string) error {
	productID, err := requireID("product", productID)
	if err != nil {
		return err
	}
	return s.backend.DeleteProduct(ctx, token, productID)
}

func (s *service) CreateCategory(ctx context.Context, token string, input storefront.CategoryInput) (*storefront.Category, error) {
	input = normalizeCategory(input)
	if input.Name == nil || *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.backend.CreateCategory(ctx, token, input)
	if err != nil {
		return nil, err
	}
	s.invalidateCategories(ctx)
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, token, categoryID string, input storefront.CategoryInput) (*storefront.Category, error) {
	categoryID, err := requireID("category", categoryID)
	if err != nil {
		return nil, err
	}
	input = normalizeCategory(input)
	if input == (storefront.CategoryInput{}) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no category fields to update")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be blank")
	}
	category, err := s.backend.UpdateCategory(ctx, token, categoryID, input)
	if err != nil {
		return nil, err
	}
	s.invalidateCategories(ctx)
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, token, categoryID string) error {
	categoryID, err := requireID("category", categoryID)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteCategory(ctx, token, categoryID); err != nil {
		return err
	}
	s.invalidateCategories(ctx)
	return nil
}

func (s *service) ListOrders(ctx context.Context, token string, params pagination.Params) (*types.Page[storefront.Order], error) {
	params = pagination.Normalize(params)
	list, err := s.backend.ListOrders(ctx, token, params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	items := list.Orders
	if items == nil {
		items = []storefront.Order{}
	}
	meta := pagination.Meta(params, list.Meta.Total)
	if list.Meta.TotalPage > 0 {
		meta.TotalPages = list.Meta.TotalPage
	}
	return &types.Page[storefront.Order]{Items: items, Meta: meta}, nil
}

func (s *service) GetOrder(ctx context.Context, token, orderID string) (*storefront.Order, error) {
	orderID, err := requireID("order", orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.backend.GetOrder(ctx, token, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// UpdateOrderStatus forwards the order flags. Delivery and payment can only be
// marked once the order has been accepted in the same or an earlier update.
func (s *service) UpdateOrderStatus(ctx context.Context, token, orderID string, update storefront.OrderStatusUpdate) (*storefront.Order, error) {
	orderID, err := requireID("order", orderID)
	if err != nil {
		return nil, err
	}
	if update == (storefront.OrderStatusUpdate{}) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no status fields to update")
	}
	if update.IsAccepted != nil && !*update.IsAccepted && (isTrue(update.DeliveryStatus) || isTrue(update.PaymentStatus)) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a rejected order cannot be delivered or paid")
	}
	order, err := s.backend.UpdateOrderStatus(ctx, token, orderID, update)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", orderID), "order status updated")
	return order, nil
}

func (s *service) Dashboard(ctx context.Context, token string) (*storefront.DashboardStats, error) {
	return s.backend.Dashboard(ctx, token)
}

func (s *service) adminRole() string {
	if role := strings.TrimSpace(s.jwtCfg.AdminRole); role != "" {
		return role
	}
	return "admin"
}

func (s *service) invalidateCategories(ctx context.Context) {
	if s.categories == nil {
		return
	}
	if err := s.categories.InvalidateCategories(ctx); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("category cache invalidation failed: %v", err))
	}
}

func normalizeProduct(input storefront.ProductInput) storefront.ProductInput {
	input.Name = trimmed(input.Name)
	input.Description = trimmed(input.Description)
	input.Photo = trimmed(input.Photo)
	input.Category = trimmed(input.Category)
	input.Brand = trimmed(input.Brand)
	return input
}

func validateProductValues(input storefront.ProductInput) error {
	if input.Price != nil && input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func normalizeCategory(input storefront.CategoryInput) storefront.CategoryInput {
	input.Name = trimmed(input.Name)
	input.Description = trimmed(input.Description)
	input.Image = trimmed(input.Image)
	return input
}

func requireID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, kind+" id required")
	}
	return id, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

func isTrue(value *bool) bool {
	return value != nil && *value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
