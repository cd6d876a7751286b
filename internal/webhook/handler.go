package webhook

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oladizz/storefront-backend/internal/logger"
)

// SignatureHeader carries the provider's HMAC over the raw request body.
const SignatureHeader = "X-CC-Webhook-Signature"

// Handler receives asynchronous charge lifecycle events from the payment
// provider. It verifies authenticity over the raw bytes before doing
// anything else; confirmed charges are logged and recorded for
// reconciliation, never turned into orders here.
type Handler struct {
	secret string
	repo   Repository
}

func NewHandler(secret string, repo Repository) *Handler {
	return &Handler{secret: secret, repo: repo}
}

// Register mounts the webhook route. It must be reachable without JWT
// auth: the provider authenticates through the signature instead.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/webhook", h.handleEvent)
}

func (h *Handler) handleEvent(c *fiber.Ctx) error {
	if h.secret == "" {
		logger.Error("webhook secret is not configured")
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook secret is not configured.")
	}

	// c.Body() is the raw, unparsed payload; the signature is computed
	// over these exact bytes.
	body := c.Body()
	signature := c.Get(SignatureHeader)

	if err := VerifySignature(body, signature, h.secret); err != nil {
		logger.Warn("webhook signature verification failed", "err", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}

	ev, err := ParseEvent(body)
	if err != nil {
		logger.Warn("webhook payload rejected", "err", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}

	logger.Info("webhook event received and verified", "eventId", ev.ID, "type", ev.Type)

	if ev.Type != EventTypeChargeConfirmed {
		logger.Info("received unhandled event type", "type", ev.Type)
		return c.SendStatus(fiber.StatusOK)
	}

	h.recordConfirmation(ev)
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) recordConfirmation(ev Event) {
	conf := Confirmation{
		EventID:    ev.ID,
		ChargeID:   ev.Data.ID,
		ReceivedAt: time.Now().UTC(),
	}

	if len(ev.Data.Payments) > 0 {
		payment := ev.Data.Payments[0]
		conf.Network = payment.Network
		conf.CryptoAmount = payment.Value.Crypto.Amount
		conf.CryptoCurrency = payment.Value.Crypto.Currency

		if payment.Network == "base" {
			logger.Info("charge confirmed on base network",
				"chargeId", ev.Data.ID,
				"amount", conf.CryptoAmount, "currency", conf.CryptoCurrency,
				"orderId", ev.Data.Metadata["order_id"])
		} else {
			logger.Info("charge confirmed on another network",
				"chargeId", ev.Data.ID, "network", payment.Network,
				"amount", conf.CryptoAmount, "currency", conf.CryptoCurrency,
				"orderId", ev.Data.Metadata["order_id"])
		}
	} else {
		logger.Info("charge confirmed, but payment details were not available", "chargeId", ev.Data.ID)
	}

	fresh, err := h.repo.Record(conf)
	if err != nil {
		logger.Error("failed to record payment confirmation", "err", err, "eventId", ev.ID)
		return
	}
	if !fresh {
		logger.Info("duplicate webhook delivery ignored", "eventId", ev.ID)
	}
}
