package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"checkout/internal/model"
)

const ordersPath = "/v1/orders"

// Error carries whatever the gateway reported about a failed call. A zero
// StatusCode means the gateway never answered.
type Error struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *Error) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("gateway request failed with status %d", e.StatusCode)
}

type errorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client struct {
	client    *http.Client
	baseURL   string
	keyID     string
	keySecret string
}

// NewHTTPClient builds the pooled client the gateway calls ride on. Build it
// once at startup and share it: a transport per request would strand its
// keep-alive connections and their goroutines until the idle timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     120 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}

func NewClient(client *http.Client, baseURL, keyID, keySecret string) (*Client, error) {
	if !validCredentialPart(keyID) || !validCredentialPart(keySecret) {
		return nil, errors.New("malformed gateway credentials")
	}

	return &Client{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
	}, nil
}

// CreateOrder submits one order-creation request. No retries; the caller's
// context bounds the call and a deadline hit maps to a 504 gateway error.
func (c *Client) CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.OrderResult, error) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	res, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{
				StatusCode:  http.StatusGatewayTimeout,
				Code:        "GATEWAY_TIMEOUT",
				Description: "Payment gateway did not respond in time",
			}
		}
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		gatewayErr := &Error{StatusCode: res.StatusCode}
		var envelope errorEnvelope
		if err := sonic.Unmarshal(data, &envelope); err == nil {
			gatewayErr.Code = envelope.Error.Code
			gatewayErr.Description = envelope.Error.Description
		}
		return nil, gatewayErr
	}

	var order model.OrderResult
	if err := sonic.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &order, nil
}

// Credentials go into an HTTP basic auth header; whitespace or a colon would
// corrupt it, so such keys are rejected before any call is made.
func validCredentialPart(s string) bool {
	return s != "" && !strings.ContainsAny(s, ": \t\r\n")
}
