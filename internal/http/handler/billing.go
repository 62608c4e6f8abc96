package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"leadengine/internal/service"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Webhook-Signature"

// BillingWebhook ingests payment events from the billing provider. The body
// signature is verified before anything is decoded.
func BillingWebhook(billing service.BillingService, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return writeError(c, fiber.StatusServiceUnavailable, "WEBHOOK_DISABLED", "webhook secret is not configured")
		}

		body := c.Body()
		if !verifySignature(secret, body, c.Get(signatureHeader)) {
			return writeError(c, fiber.StatusUnauthorized, "BAD_SIGNATURE", "signature verification failed")
		}

		var ev service.PaymentEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		tx, err := billing.RecordPayment(c.UserContext(), ev)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrPaymentInvalid):
				return writeError(c, fiber.StatusBadRequest, "INVALID_EVENT", "payment event is missing required fields")
			case errors.Is(err, service.ErrUnknownCommunity):
				// Acknowledge but flag: the provider should not retry.
				return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ignored", "reason": "unknown community"})
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(tx)
	}
}

func verifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
