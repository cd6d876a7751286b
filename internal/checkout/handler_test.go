package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var errTest = errors.New("provider down")

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				claims := jwt.MapClaims{"user_id": id}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (map[string]interface{}, int) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.Itoa(testUserID))

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]interface{}{}
	json.NewDecoder(res.Body).Decode(&out)
	return out, res.StatusCode
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	f := newFixture(t)
	app := makeApp(NewHandler(f.svc, true))

	// shipping form
	body, code := doJSON(t, app, "PUT", "/api/v1/checkout/shipping", map[string]string{
		"fullName": "Ada Lovelace", "address": "1 Analytical Way", "city": "London", "zip": "E1", "country": "UK",
	})
	if code != 200 {
		t.Fatalf("shipping: expected 200, got %d (%v)", code, body)
	}

	// create the charge
	body, code = doJSON(t, app, "POST", "/api/v1/checkout/charge", map[string]string{"currency": "USD"})
	if code != 200 {
		t.Fatalf("charge: expected 200, got %d (%v)", code, body)
	}
	if body["chargeId"] != "charge_abc" {
		t.Fatalf("expected chargeId charge_abc, got %v", body["chargeId"])
	}
	if body["state"] != string(StateAwaitingPayment) {
		t.Fatalf("expected awaiting_payment, got %v", body["state"])
	}

	// embedded payment UI reports success
	body, code = doJSON(t, app, "POST", "/api/v1/checkout/status", map[string]string{"statusName": "success"})
	if code != 200 {
		t.Fatalf("status: expected 200, got %d (%v)", code, body)
	}
	if body["state"] != string(StateConfirmed) {
		t.Fatalf("expected confirmed, got %v", body["state"])
	}
	if body["orderId"] == "" || body["orderId"] == nil {
		t.Fatal("expected orderId in response")
	}

	orders := f.orderRepo.All()
	if len(orders) != 1 {
		t.Fatalf("expected one stored order, got %d", len(orders))
	}
	if orders[0].Total != 105.99 {
		t.Fatalf("expected total 105.99, got %v", orders[0].Total)
	}
}

func TestCheckoutCharge_EmptyCart(t *testing.T) {
	f := newFixture(t)
	if err := f.cartSvc.ClearCart(testUserID); err != nil {
		t.Fatal(err)
	}
	app := makeApp(NewHandler(f.svc, true))

	body, code := doJSON(t, app, "POST", "/api/v1/checkout/charge", map[string]string{"currency": "USD"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", code, body)
	}
}

func TestCheckoutCharge_UnsupportedCurrency(t *testing.T) {
	f := newFixture(t)
	app := makeApp(NewHandler(f.svc, true))

	body, code := doJSON(t, app, "POST", "/api/v1/checkout/charge", map[string]string{"currency": "JPY"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", code, body)
	}
}

func TestCheckoutCharge_ProviderDown(t *testing.T) {
	f := newFixture(t)
	f.charges.err = errTest
	app := makeApp(NewHandler(f.svc, true))

	body, code := doJSON(t, app, "POST", "/api/v1/checkout/charge", map[string]string{"currency": "USD"})
	if code != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d (%v)", code, body)
	}
}

func TestCheckout_PaymentsDisabled(t *testing.T) {
	f := newFixture(t)
	app := makeApp(NewHandler(f.svc, false))

	body, code := doJSON(t, app, "POST", "/api/v1/checkout/charge", map[string]string{"currency": "USD"})
	if code != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d (%v)", code, body)
	}
	body, code = doJSON(t, app, "POST", "/api/v1/checkout/status", map[string]string{"statusName": "success"})
	if code != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d (%v)", code, body)
	}
}

func TestCheckout_Unauthorized(t *testing.T) {
	f := newFixture(t)
	app := makeApp(NewHandler(f.svc, true))

	req := httptest.NewRequest("POST", "/api/v1/checkout/charge", bytes.NewBufferString(`{"currency":"USD"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}
