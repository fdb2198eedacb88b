package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bytedance/sonic"

	"checkout/internal/config"
	"checkout/internal/gateway"
	"checkout/internal/model"
	"checkout/internal/service"
)

var orderService *service.OrderService

var responseHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"X-XSS-Protection":             "1; mode=block",
}

func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	switch request.RequestContext.HTTP.Method {
	case http.MethodOptions:
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Headers: responseHeaders}, nil
	case http.MethodPost:
	default:
		return respond(http.StatusMethodNotAllowed, model.ErrorResponse{Error: "Method not allowed"})
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			slog.Error("base64 body decode failed", "err", err)
			return respond(http.StatusInternalServerError, model.ErrorResponse{
				Error: service.GenericErrorMessage,
				Code:  "UNEXPECTED_ERROR",
			})
		}
		body = decoded
	}

	status, response := orderService.CreateOrder(ctx, body)
	return respond(status, response)
}

func respond(status int, response any) (events.APIGatewayV2HTTPResponse, error) {
	body, err := sonic.Marshal(response)
	if err != nil {
		slog.Error("response marshal failed", "err", err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    responseHeaders,
			Body:       `{"error":"` + service.GenericErrorMessage + `","code":"UNEXPECTED_ERROR"}`,
		}, nil
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    responseHeaders,
		Body:       string(body),
	}, nil
}

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	settings := config.LoadEnvironmentConfig()
	httpClient := gateway.NewHTTPClient()
	orderService = service.NewOrderService(settings, func(keyID, keySecret string) (service.OrderCreator, error) {
		return gateway.NewClient(httpClient, settings.GatewayBaseURL, keyID, keySecret)
	})

	lambda.Start(handler)
}
