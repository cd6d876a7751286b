package product

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeAppWithProductHandler(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app
}

func seedCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Linen Shirt", Price: 60.00, Category: "shirts", Details: []string{"100% linen"}},
		{ID: 2, Name: "Wool Scarf", Price: 20.00, Category: "accessories"},
		{ID: 3, Name: "Silk Shirt", Price: 85.00, Category: "shirts"},
	}
}

func TestGetProducts(t *testing.T) {
	handler := NewHandler(NewService(NewInMemoryRepository(seedCatalog())))
	app := makeAppWithProductHandler(handler)

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var all []Product
	body, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	// category filter
	req2 := httptest.NewRequest("GET", "/api/v1/products?category=shirts", nil)
	res2, _ := app.Test(req2, -1)
	var shirts []Product
	b2, _ := io.ReadAll(res2.Body)
	if err := json.Unmarshal(b2, &shirts); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(shirts) != 2 {
		t.Fatalf("expected 2 shirts, got %d", len(shirts))
	}
}

func TestGetProductByID(t *testing.T) {
	handler := NewHandler(NewService(NewInMemoryRepository(seedCatalog())))
	app := makeAppWithProductHandler(handler)

	req := httptest.NewRequest("GET", "/api/v1/products/2", nil)
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var p Product
	body, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if p.Name != "Wool Scarf" {
		t.Fatalf("unexpected product %+v", p)
	}

	req2 := httptest.NewRequest("GET", "/api/v1/products/999", nil)
	res2, _ := app.Test(req2, -1)
	if res2.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res2.StatusCode)
	}

	req3 := httptest.NewRequest("GET", "/api/v1/products/abc", nil)
	res3, _ := app.Test(req3, -1)
	if res3.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", res3.StatusCode)
	}
}

func TestCreateUpdateDeleteProduct(t *testing.T) {
	repo := NewInMemoryRepository(seedCatalog())
	handler := NewHandler(NewService(repo))
	app := makeAppWithProductHandler(handler)

	req := httptest.NewRequest("POST", "/api/v1/products",
		strings.NewReader(`{"name":"Cotton Tee","price":25.00,"category":"shirts"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	var created Product
	body, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if created.ID != 4 {
		t.Fatalf("expected assigned id 4, got %d", created.ID)
	}

	// missing name rejected
	reqBad := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"price":10}`))
	reqBad.Header.Set("Content-Type", "application/json")
	resBad, _ := app.Test(reqBad, -1)
	if resBad.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", resBad.StatusCode)
	}

	req2 := httptest.NewRequest("PUT", "/api/v1/products/4",
		strings.NewReader(`{"name":"Cotton Tee","price":22.00,"category":"shirts"}`))
	req2.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req2, -1)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for update, got %d", res2.StatusCode)
	}
	if p, err := repo.GetByID(4); err != nil || p.Price != 22.00 {
		t.Fatalf("update not applied: %+v %v", p, err)
	}

	req3 := httptest.NewRequest("DELETE", "/api/v1/products/4", nil)
	res3, _ := app.Test(req3, -1)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", res3.StatusCode)
	}
	if _, err := repo.GetByID(4); err != ErrNotFound {
		t.Fatalf("expected product gone, got %v", err)
	}

	req4 := httptest.NewRequest("DELETE", "/api/v1/products/4", nil)
	res4, _ := app.Test(req4, -1)
	if res4.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", res4.StatusCode)
	}
}
