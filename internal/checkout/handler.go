package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/oladizz/storefront-backend/internal/charge"
	"github.com/oladizz/storefront-backend/internal/currency"
	"github.com/oladizz/storefront-backend/internal/user"
)

// Handler exposes the checkout controller over HTTP. When payments are
// not configured the charge and status endpoints answer 503 instead of
// crashing on a missing API key.
type Handler struct {
	service         *Service
	paymentsEnabled bool
}

func NewHandler(service *Service, paymentsEnabled bool) *Handler {
	return &Handler{service: service, paymentsEnabled: paymentsEnabled}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout", h.getSession)
	app.Put("/api/v1/checkout/shipping", h.setShipping)
	app.Post("/api/v1/checkout/charge", h.startCharge)
	app.Post("/api/v1/checkout/status", h.paymentStatus)
	app.Post("/api/v1/checkout/cancel", h.cancel)
}

type shippingRequest struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

type chargeRequest struct {
	Currency string `json:"currency"`
}

type statusRequest struct {
	StatusName string `json:"statusName"`
}

func (h *Handler) getSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(h.service.Current(userID))
}

func (h *Handler) setShipping(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(shippingRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	sess := h.service.SetShipping(userID, ShippingInfo(*payload))
	return c.JSON(sess)
}

func (h *Handler) startCharge(c *fiber.Ctx) error {
	if !h.paymentsEnabled {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "payments are not configured"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(chargeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Currency == "" {
		payload.Currency = "USD"
	}

	sess, err := h.service.StartCharge(c.Context(), userID, payload.Currency)
	if err != nil {
		switch {
		case errors.Is(err, charge.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart cannot be empty"})
		case errors.Is(err, currency.ErrUnsupported):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unsupported currency"})
		case errors.Is(err, ErrChargeInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "a charge is already in progress"})
		default:
			// provider failure: user-retryable, nothing was corrupted
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not create charge, please try again", "session": sess})
		}
	}

	return c.JSON(sess)
}

func (h *Handler) paymentStatus(c *fiber.Ctx) error {
	if !h.paymentsEnabled {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "payments are not configured"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.StatusName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "statusName is required"})
	}

	sess, err := h.service.HandleStatus(c.Context(), userID, payload.StatusName)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "no payment awaiting confirmation"})
		case errors.Is(err, ErrOrderWrite):
			// cart and checkout info are preserved; the client may retry
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "there was an error placing your order, please try again"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(sess)
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	sess, err := h.service.Cancel(userID)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "no payment awaiting confirmation"})
	}
	return c.JSON(sess)
}
