package main

import (
	"log/slog"
	"os"

	"checkout/internal/config"
	"checkout/internal/gateway"
	"checkout/internal/handler"
	"checkout/internal/service"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	settings := config.LoadEnvironmentConfig()
	httpClient := gateway.NewHTTPClient()

	orderService := service.NewOrderService(settings, func(keyID, keySecret string) (service.OrderCreator, error) {
		return gateway.NewClient(httpClient, settings.GatewayBaseURL, keyID, keySecret)
	})

	app := handler.NewRouter(handler.NewOrderHandler(orderService))

	slog.Info("server running",
		"port", settings.ServerPort,
		"environment", settings.Environment,
		"live_mode", settings.IsLiveKey(),
		"credentials_configured", settings.HasCredentials(),
	)

	if err := app.Listen(":" + settings.ServerPort); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
