package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "whsec_test"

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func makeApp(repo Repository, secret string) *fiber.App {
	app := fiber.New()
	NewHandler(secret, repo).Register(app)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(body)
}

var confirmedPayload = []byte(`{
	"id": "evt_1",
	"type": "charge:confirmed",
	"data": {
		"id": "charge_abc",
		"metadata": {"order_id": "order_1"},
		"payments": [{"network": "base", "value": {"crypto": {"amount": "0.031", "currency": "ETH"}}}]
	}
}`)

func TestWebhook_VerifiedConfirmationRecordedOnce(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	code, _ := postWebhook(t, app, confirmedPayload, sign(confirmedPayload, testSecret))
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	all := repo.All()
	if len(all) != 1 {
		t.Fatalf("expected one confirmation, got %d", len(all))
	}
	conf := all[0]
	if conf.ChargeID != "charge_abc" {
		t.Errorf("expected charge_abc, got %q", conf.ChargeID)
	}
	if conf.Network != "base" {
		t.Errorf("expected base network, got %q", conf.Network)
	}
	if conf.CryptoAmount != "0.031" || conf.CryptoCurrency != "ETH" {
		t.Errorf("unexpected crypto value %q %q", conf.CryptoAmount, conf.CryptoCurrency)
	}

	// provider redelivery of the same event id is recorded once
	code, _ = postWebhook(t, app, confirmedPayload, sign(confirmedPayload, testSecret))
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 on redelivery, got %d", code)
	}
	if len(repo.All()) != 1 {
		t.Fatalf("expected one confirmation after redelivery, got %d", len(repo.All()))
	}
}

func TestWebhook_MutatedPayloadRejected(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)
	signature := sign(confirmedPayload, testSecret)

	// flip a single byte of the payload
	mutated := bytes.Replace(confirmedPayload, []byte("charge_abc"), []byte("charge_abd"), 1)

	code, body := postWebhook(t, app, mutated, signature)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if !bytes.HasPrefix([]byte(body), []byte("Webhook Error: ")) {
		t.Fatalf("expected Webhook Error prefix, got %q", body)
	}
	if len(repo.All()) != 0 {
		t.Fatal("mutated payload must not be recorded")
	}
}

func TestWebhook_MutatedSignatureRejected(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	signature := sign(confirmedPayload, testSecret)
	// flip one hex digit
	b := []byte(signature)
	if b[0] == 'a' {
		b[0] = 'b'
	} else {
		b[0] = 'a'
	}

	code, _ := postWebhook(t, app, confirmedPayload, string(b))
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if len(repo.All()) != 0 {
		t.Fatal("bad signature must not be recorded")
	}
}

func TestWebhook_MissingSignatureHeader(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	code, body := postWebhook(t, app, confirmedPayload, "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body != "Webhook Error: missing signature header" {
		t.Fatalf("unexpected body %q", body)
	}
	if len(repo.All()) != 0 {
		t.Fatal("unsigned payload must not be recorded")
	}
}

func TestWebhook_WrongSecret(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	code, _ := postWebhook(t, app, confirmedPayload, sign(confirmedPayload, "other_secret"))
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if len(repo.All()) != 0 {
		t.Fatal("forged event must not be recorded")
	}
}

func TestWebhook_UnhandledEventType(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	payload := []byte(`{"id":"evt_2","type":"charge:created","data":{"id":"charge_abc"}}`)
	code, _ := postWebhook(t, app, payload, sign(payload, testSecret))
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(repo.All()) != 0 {
		t.Fatal("non-confirmed events must not be recorded")
	}
}

func TestWebhook_MalformedJSONAfterValidSignature(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	payload := []byte(`{"id":`)
	code, _ := postWebhook(t, app, payload, sign(payload, testSecret))
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestWebhook_MissingSecret(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, "")

	code, body := postWebhook(t, app, confirmedPayload, sign(confirmedPayload, testSecret))
	if code != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body != "Webhook secret is not configured." {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestWebhook_ConfirmationWithoutPaymentDetails(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeApp(repo, testSecret)

	payload := []byte(`{"id":"evt_3","type":"charge:confirmed","data":{"id":"charge_xyz"}}`)
	code, _ := postWebhook(t, app, payload, sign(payload, testSecret))
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	all := repo.All()
	if len(all) != 1 {
		t.Fatalf("expected one confirmation, got %d", len(all))
	}
	if all[0].Network != "" {
		t.Errorf("expected empty network, got %q", all[0].Network)
	}
}
