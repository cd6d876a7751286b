package currency

import "github.com/gofiber/fiber/v2"

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/currencies", h.getCurrencies)
}

func (h *Handler) getCurrencies(c *fiber.Ctx) error {
	return c.JSON(List())
}
