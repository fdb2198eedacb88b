package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"checkout/internal/config"
	"checkout/internal/gateway"
	"checkout/internal/model"
)

// noteSource tags every order with the client that created it.
const noteSource = "checkout_web"

const GenericErrorMessage = "An unexpected error occurred. Please try again later."

type OrderCreator interface {
	CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.OrderResult, error)
}

// GatewayFactory builds the gateway client per request, so malformed
// credentials surface as GATEWAY_INIT_FAILED instead of a failed call.
type GatewayFactory func(keyID, keySecret string) (OrderCreator, error)

type OrderService struct {
	settings   *config.Settings
	newGateway GatewayFactory
}

func NewOrderService(settings *config.Settings, newGateway GatewayFactory) *OrderService {
	return &OrderService{settings: settings, newGateway: newGateway}
}

// CreateOrder runs the whole pipeline for one request body and returns the
// HTTP status plus the response to serialize. It never panics outward.
func (s *OrderService) CreateOrder(ctx context.Context, body []byte) (status int, response any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while creating order", "panic", r)
			status = http.StatusInternalServerError
			response = s.unexpected(fmt.Errorf("%v", r))
		}
	}()

	if !s.settings.HasCredentials() {
		slog.Error("gateway credentials are not configured")
		return http.StatusInternalServerError, model.ErrorResponse{
			Error: "Payment gateway not configured. Please contact support.",
			Code:  "MISSING_CREDENTIALS",
		}
	}

	gw, err := s.newGateway(s.settings.KeyID, s.settings.KeySecret)
	if err != nil {
		slog.Error("gateway client construction failed", "err", err)
		return http.StatusInternalServerError, model.ErrorResponse{
			Error: "Payment gateway not configured. Please contact support.",
			Code:  "GATEWAY_INIT_FAILED",
		}
	}

	var req model.OrderRequest
	if raw := bytes.TrimSpace(body); len(raw) > 0 {
		// Covers syntax errors and type-mismatched fields alike, e.g. a
		// string amount. The caller sent it, so the caller gets a 400.
		if err := sonic.Unmarshal(raw, &req); err != nil {
			slog.Warn("unparsable request body", "err", err)
			return http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"}
		}
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return http.StatusBadRequest, model.ErrorResponse{Error: err.Error()}
	}

	payload := req.BuildPayload(noteSource, s.settings.IsLiveKey(), time.Now())

	callCtx, cancel := context.WithTimeout(ctx, s.settings.GatewayTimeout)
	defer cancel()

	order, err := gw.CreateOrder(callCtx, payload)
	if err != nil {
		return s.mapGatewayError(err, payload.Receipt)
	}

	slog.Info("order created", "order_id", order.ID, "amount", order.Amount, "currency", order.Currency, "receipt", order.Receipt)
	return http.StatusOK, *order
}

func (s *OrderService) mapGatewayError(err error, receipt string) (int, any) {
	slog.Error("gateway order creation failed", "err", err, "receipt", receipt)

	var gatewayErr *gateway.Error
	if errors.As(err, &gatewayErr) {
		status := gatewayErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := gatewayErr.Code
		if code == "" {
			code = "GATEWAY_ORDER_FAILED"
		}
		return status, model.ErrorResponse{Error: gatewayErr.Error(), Code: code}
	}

	return http.StatusInternalServerError, model.ErrorResponse{Error: err.Error(), Code: "GATEWAY_ORDER_FAILED"}
}

// unexpected hides failure detail in production so internals never leak to
// callers.
func (s *OrderService) unexpected(err error) model.ErrorResponse {
	message := GenericErrorMessage
	if !s.settings.IsProduction() && err != nil {
		message = err.Error()
	}
	return model.ErrorResponse{Error: message, Code: "UNEXPECTED_ERROR"}
}
