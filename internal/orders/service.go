package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storefront"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultInFlightTTL   = 30 * time.Second
	defaultSubmitTimeout = 20 * time.Second

	// maxDirectQuantity caps a single "buy now" order regardless of stock.
	maxDirectQuantity = 10

	outcomeConflict = "conflict"
)

// Service submits orders to the backend and keeps the submission log.
type Service interface {
	PlaceCartOrder(ctx context.Context, sessionID string, details ShippingDetails) (*Receipt, error)
	PlaceDirectOrder(ctx context.Context, sessionID string, input DirectOrderInput) (*Receipt, error)
	ListSubmissions(ctx context.Context, sessionID string, params pagination.Params) (*types.Page[Submission], error)
}

// DirectOrderInput is a single product "buy now" request.
type DirectOrderInput struct {
	ProductID string
	Quantity  int
	Option    enums.DeliveryOption
	Details   ShippingDetails
}

// Receipt is returned once the backend accepted an order.
type Receipt struct {
	SubmissionID uuid.UUID       `json:"submission_id"`
	OrderID      string          `json:"order_id,omitempty"`
	Message      string          `json:"message,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Cart         *cart.View      `json:"cart,omitempty"`
}

// Submission is the public view of a submission log row.
type Submission struct {
	ID              uuid.UUID              `json:"id"`
	Kind            enums.SubmissionKind   `json:"kind"`
	Status          enums.SubmissionStatus `json:"status"`
	District        string                 `json:"district,omitempty"`
	ItemCount       int                    `json:"item_count"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	UpstreamOrderID *string                `json:"order_id,omitempty"`
	UpstreamMessage *string                `json:"message,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	FinishedAt      *time.Time             `json:"finished_at,omitempty"`
}

type ServiceParams struct {
	Repo          Repository
	Cart          cartStore
	Gateway       orderGateway
	Guard         inFlightGuard
	Metrics       submissionRecorder
	Logger        *logger.Logger
	InFlightTTL   time.Duration
	SubmitTimeout time.Duration
	Now           func() time.Time
}

type service struct {
	repo          Repository
	cart          cartStore
	gateway       orderGateway
	guard         inFlightGuard
	metrics       submissionRecorder
	logg          *logger.Logger
	inFlightTTL   time.Duration
	submitTimeout time.Duration
	now           func() time.Time
}

// NewService wires the order submission service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("order gateway required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("in-flight guard required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.InFlightTTL <= 0 {
		params.InFlightTTL = defaultInFlightTTL
	}
	if params.SubmitTimeout <= 0 {
		params.SubmitTimeout = defaultSubmitTimeout
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:          params.Repo,
		cart:          params.Cart,
		gateway:       params.Gateway,
		guard:         params.Guard,
		metrics:       params.Metrics,
		logg:          params.Logger,
		inFlightTTL:   params.InFlightTTL,
		submitTimeout: params.SubmitTimeout,
		now:           params.Now,
	}, nil
}

func (s *service) PlaceCartOrder(ctx context.Context, sessionID string, details ShippingDetails) (*Receipt, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	details = details.trimmed()

	// The cart is read and cleared while the session slot is held, so a
	// submit queued behind an accepted order sees the emptied cart.
	submissionID := uuid.New()
	ctx = s.withSubmission(ctx, submissionID, enums.SubmissionKindCart)
	release, err := s.claim(ctx, sessionID, submissionID, enums.SubmissionKindCart)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if view == nil || len(view.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	district, err := resolveDistrict(details.District, view.District)
	if err != nil {
		return nil, err
	}
	details.District = district
	if err := requireShipping(details); err != nil {
		return nil, err
	}

	payload := BuildCartOrder(view.Items, details, view.Total)
	submission := &models.OrderSubmission{
		ID:          submissionID,
		SessionID:   sessionID,
		Kind:        enums.SubmissionKindCart,
		District:    district,
		ItemCount:   len(view.Items),
		Subtotal:    view.Subtotal,
		DeliveryFee: view.DeliveryFee,
		TotalAmount: view.Total,
	}

	result, err := s.send(ctx, submission, payload)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		SubmissionID: submission.ID,
		OrderID:      result.OrderID,
		Message:      result.Message,
		Subtotal:     view.Subtotal,
		DeliveryFee:  view.DeliveryFee,
		TotalAmount:  view.Total,
	}
	emptied, err := s.cart.ClearAll(context.WithoutCancel(ctx), sessionID)
	if err != nil {
		s.logg.Error(ctx, "failed to clear cart after accepted order", err)
		return receipt, nil
	}
	receipt.Cart = emptied
	return receipt, nil
}

func (s *service) PlaceDirectOrder(ctx context.Context, sessionID string, input DirectOrderInput) (*Receipt, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if !input.Option.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option").
			WithDetails(map[string]any{"delivery_option": input.Option.String()})
	}
	details := input.Details.trimmed()
	if details.District == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district required").
			WithDetails(map[string]any{"missing": []string{"district"}})
	}
	if err := requireShipping(details); err != nil {
		return nil, err
	}

	submissionID := uuid.New()
	ctx = s.withSubmission(ctx, submissionID, enums.SubmissionKindDirect)
	release, err := s.claim(ctx, sessionID, submissionID, enums.SubmissionKindDirect)
	if err != nil {
		return nil, err
	}
	defer release()

	product, err := s.gateway.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has an invalid price")
	}
	if product.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock").
			WithDetails(map[string]any{"product_id": productID})
	}
	if limit := min(product.Stock, maxDirectQuantity); input.Quantity > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d can be ordered", limit)).
			WithDetails(map[string]any{"max_quantity": limit})
	}

	subtotal := product.Price.Mul(decimal.NewFromInt(int64(input.Quantity)))
	charge := s.cart.FeeTable().FeeForOption(input.Option)
	total := subtotal.Add(charge)

	payload := BuildDirectOrder(firstNonEmpty(product.ID, productID), input.Quantity, details, input.Option, charge, total)
	submission := &models.OrderSubmission{
		ID:          submissionID,
		SessionID:   sessionID,
		Kind:        enums.SubmissionKindDirect,
		District:    details.District,
		ItemCount:   1,
		Subtotal:    subtotal,
		DeliveryFee: charge,
		TotalAmount: total,
	}

	result, err := s.send(ctx, submission, payload)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		SubmissionID: submission.ID,
		OrderID:      result.OrderID,
		Message:      result.Message,
		Subtotal:     subtotal,
		DeliveryFee:  charge,
		TotalAmount:  total,
	}, nil
}

func (s *service) ListSubmissions(ctx context.Context, sessionID string, params pagination.Params) (*types.Page[Submission], error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListBySession(ctx, sessionID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
	}
	items := make([]Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSubmission(row))
	}
	return &types.Page[Submission]{Items: items, Meta: pagination.Meta(params, total)}, nil
}

func (s *service) withSubmission(ctx context.Context, id uuid.UUID, kind enums.SubmissionKind) context.Context {
	return s.logg.WithFields(ctx, map[string]any{
		"submission_id": id.String(),
		"order_kind":    kind.String(),
	})
}

// claim takes the session's submission slot. The returned release must run
// after the cart has been settled.
func (s *service) claim(ctx context.Context, sessionID string, id uuid.UUID, kind enums.SubmissionKind) (func(), error) {
	key := s.guard.InFlightKey(sessionID)
	acquired, err := s.guard.SetNX(ctx, key, id.String(), s.inFlightTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim order slot")
	}
	if !acquired {
		s.record(kind.String(), outcomeConflict)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an order for this session is already being submitted")
	}
	return func() {
		if err := s.guard.Del(context.WithoutCancel(ctx), key); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("failed to release order slot: %v", err))
		}
	}, nil
}

// send logs the pending attempt, calls the backend and records the verdict.
// The caller holds the session slot. Only an accepted order returns a nil
// error.
func (s *service) send(ctx context.Context, submission *models.OrderSubmission, payload storefront.OrderRequest) (*storefront.OrderResult, error) {
	kind := submission.Kind.String()

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}
	now := s.now().UTC()
	submission.Status = enums.SubmissionStatusPending
	submission.Payload = string(raw)
	submission.CreatedAt = now
	submission.UpdatedAt = now
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order submission")
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
	defer cancel()
	started := time.Now()
	result, err := s.gateway.CreateOrder(callCtx, payload)
	if s.metrics != nil {
		s.metrics.ObserveUpstream(kind, time.Since(started))
	}

	switch {
	case err != nil:
		s.finish(ctx, submission, Outcome{Status: enums.SubmissionStatusFailed, ErrorMessage: err.Error()})
		s.logg.Error(ctx, "order submission failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
	case result == nil || !result.Success:
		msg := "order rejected by backend"
		if result != nil && strings.TrimSpace(result.Message) != "" {
			msg = result.Message
		}
		s.finish(ctx, submission, Outcome{Status: enums.SubmissionStatusRejected, UpstreamMessage: msg})
		s.logg.Warn(ctx, "order submission rejected")
		return nil, pkgerrors.New(pkgerrors.CodeRejected, msg).
			WithDetails(map[string]any{"submission_id": submission.ID.String()})
	default:
		s.finish(ctx, submission, Outcome{
			Status:          enums.SubmissionStatusAccepted,
			UpstreamOrderID: result.OrderID,
			UpstreamMessage: result.Message,
		})
		s.logg.Info(ctx, "order submission accepted")
		return result, nil
	}
}

func (s *service) finish(ctx context.Context, submission *models.OrderSubmission, outcome Outcome) {
	outcome.FinishedAt = s.now().UTC()
	s.record(submission.Kind.String(), outcome.Status.String())
	err := s.repo.MarkFinished(context.WithoutCancel(ctx), submission.ID, outcome)
	switch {
	case err == nil:
		submission.Status = outcome.Status
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logg.Warn(ctx, "submission already left pending before the backend answered")
	default:
		s.logg.Error(ctx, "failed to record submission outcome", err)
	}
}

func (s *service) record(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.IncSubmission(kind, outcome)
	}
}

// resolveDistrict picks the shipping district. The cart's selection wins when
// the form leaves it blank; a different district would ship at a fee the cart
// total does not include.
func resolveDistrict(requested, selected string) (string, error) {
	requested = strings.TrimSpace(requested)
	selected = strings.TrimSpace(selected)
	switch {
	case requested == "" && selected == "":
		return "", pkgerrors.New(pkgerrors.CodeValidation, "district required").
			WithDetails(map[string]any{"missing": []string{"district"}})
	case requested == "":
		return selected, nil
	case !strings.EqualFold(requested, selected):
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "district does not match the cart's delivery district").
			WithDetails(map[string]any{"requested": requested, "selected": selected})
	default:
		return selected, nil
	}
}

func requireShipping(details ShippingDetails) error {
	var missing []string
	if details.Name == "" {
		missing = append(missing, "name")
	}
	if details.Phone == "" {
		missing = append(missing, "phone")
	}
	if details.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping details incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	return nil
}

func toSubmission(row models.OrderSubmission) Submission {
	return Submission{
		ID:              row.ID,
		Kind:            row.Kind,
		Status:          row.Status,
		District:        row.District,
		ItemCount:       row.ItemCount,
		TotalAmount:     row.TotalAmount,
		UpstreamOrderID: row.UpstreamOrderID,
		UpstreamMessage: row.UpstreamMessage,
		CreatedAt:       row.CreatedAt,
		FinishedAt:      row.FinishedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
