package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"checkout/internal/config"
	"checkout/internal/model"
	"checkout/internal/service"
)

type stubGateway struct {
	result *model.OrderResult
	err    error
}

func (s *stubGateway) CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.OrderResult, error) {
	return s.result, s.err
}

func newTestApp(stub *stubGateway) *fiber.App {
	settings := &config.Settings{
		KeyID:          "rzp_test_abc",
		KeySecret:      "secret",
		GatewayTimeout: time.Second,
		Environment:    "production",
	}
	svc := service.NewOrderService(settings, func(keyID, keySecret string) (service.OrderCreator, error) {
		return stub, nil
	})
	return NewRouter(NewOrderHandler(svc))
}

func TestDisallowedMethodsReturn405(t *testing.T) {
	app := newTestApp(&stubGateway{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/create-order", nil)

			res, err := app.Test(req, 2000)
			if err != nil {
				t.Fatalf("Test request failed: %v", err)
			}
			defer res.Body.Close()

			if res.StatusCode != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405, got %d", res.StatusCode)
			}

			var body model.ErrorResponse
			if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.Error != "Method not allowed" {
				t.Errorf("Expected method error message, got %q", body.Error)
			}
		})
	}
}

func TestPreflightReturns200WithHeaders(t *testing.T) {
	app := newTestApp(&stubGateway{})

	req := httptest.NewRequest(http.MethodOptions, "/create-order", nil)

	res, err := app.Test(req, 2000)
	if err != nil {
		t.Fatalf("Test request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", res.StatusCode)
	}
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected permissive origin, got %q", got)
	}
	if got := res.Header.Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("Expected allowed methods header, got %q", got)
	}
	if got := res.Header.Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Errorf("Expected allowed headers header, got %q", got)
	}
	if got := res.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected frame-options DENY, got %q", got)
	}
	if got := res.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected nosniff, got %q", got)
	}
	if got := res.Header.Get("X-XSS-Protection"); got != "1; mode=block" {
		t.Errorf("Expected xss-protection header, got %q", got)
	}

	body, _ := io.ReadAll(res.Body)
	if len(body) != 0 {
		t.Errorf("Expected empty preflight body, got %q", body)
	}
}

func TestCreateOrderOverHTTP(t *testing.T) {
	stub := &stubGateway{
		result: &model.OrderResult{ID: "order_1", Amount: 50000, Currency: "INR", Receipt: "r1", Status: "created", CreatedAt: 169000000},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(`{"amount":50000,"currency":"INR","receipt":"r1"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, 2000)
	if err != nil {
		t.Fatalf("Test request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}

	var fields map[string]any
	if err := json.NewDecoder(res.Body).Decode(&fields); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(fields) != 6 {
		t.Errorf("Expected exactly six fields, got %d: %v", len(fields), fields)
	}
	if fields["id"] != "order_1" {
		t.Errorf("Expected order id, got %v", fields["id"])
	}
	if fields["status"] != "created" {
		t.Errorf("Expected created status, got %v", fields["status"])
	}
}

func TestValidationErrorOverHTTP(t *testing.T) {
	app := newTestApp(&stubGateway{})

	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(`{"currency":"INR"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, 2000)
	if err != nil {
		t.Fatalf("Test request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", res.StatusCode)
	}

	var body model.ErrorResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Amount is required" {
		t.Errorf("Expected amount validation message, got %q", body.Error)
	}
}
