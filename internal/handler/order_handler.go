package handler

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"checkout/internal/model"
	"checkout/internal/service"
)

type OrderHandler struct {
	service *service.OrderService
}

func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder owns the method gate so preflight and disallowed methods get
// the exact bodies the contract promises.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodOptions:
		// Not SendStatus: preflight answers 200 with an empty body.
		c.Status(fiber.StatusOK)
		return nil
	case fiber.MethodPost:
		status, response := h.service.CreateOrder(c.UserContext(), c.Body())
		return c.Status(status).JSON(response)
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(model.ErrorResponse{Error: "Method not allowed"})
	}
}

func NewRouter(h *OrderHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
	app.Use(corsHeaders())

	app.All("/create-order", h.CreateOrder)

	return app
}

// corsHeaders sets the permissive CORS headers on every response. Fiber's
// cors middleware answers preflight with 204 and its own header set, while
// this endpoint promises 200, so the headers are set here instead.
func corsHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		return c.Next()
	}
}
