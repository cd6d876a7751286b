package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// Event is the provider's webhook envelope, validated against this
// explicit schema at the boundary rather than trusted as loose JSON.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData is the charge the event describes.
type EventData struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
	Payments []Payment         `json:"payments"`
}

// Payment holds the settlement details of a confirmed charge.
type Payment struct {
	Network string       `json:"network"`
	Value   PaymentValue `json:"value"`
}

type PaymentValue struct {
	Crypto CryptoAmount `json:"crypto"`
}

type CryptoAmount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// EventTypeChargeConfirmed is the only event type this receiver acts on.
const EventTypeChargeConfirmed = "charge:confirmed"

var (
	errMissingSignature   = errors.New("missing signature header")
	errMalformedSignature = errors.New("malformed signature")
	errSignatureMismatch  = errors.New("signature mismatch")
)

// VerifySignature checks the hex HMAC-SHA256 of the exact raw payload
// bytes against the signature header. Any mutation of payload or
// signature fails the comparison.
func VerifySignature(payload []byte, signature, secret string) error {
	if signature == "" {
		return errMissingSignature
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return errMalformedSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return errSignatureMismatch
	}
	return nil
}

// ParseEvent decodes a verified payload into the event schema.
func ParseEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, errors.New("invalid event payload")
	}
	if ev.Type == "" {
		return Event{}, errors.New("event type missing")
	}
	return ev, nil
}
