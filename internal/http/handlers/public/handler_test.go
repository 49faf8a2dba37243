package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/provider"
	"github.com/storefront-api/internal/repository"
	"github.com/storefront-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPublicHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}, &models.ShippingAddress{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-test-secret-key-xx"
	cfg.JWT.ExpireHours = 24
	cfg.Catalog.PageSize = 20
	cfg.Catalog.MaxPageSize = 100

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	shippingRepo := repository.NewShippingAddressRepository(db)

	container := &provider.Container{
		Config:          cfg,
		UserRepo:        userRepo,
		ProductRepo:     productRepo,
		OrderRepo:       orderRepo,
		ShippingRepo:    shippingRepo,
		UserAuthService: service.NewUserAuthService(cfg, userRepo),
		ProductService:  service.NewProductService(cfg, productRepo),
		CartService:     service.NewCartService(orderRepo, productRepo),
		CheckoutService: service.NewCheckoutService(orderRepo, shippingRepo, nil),
		OrderService:    service.NewOrderService(orderRepo, productRepo, shippingRepo),
	}
	return New(container), db
}

func seedHandlerProduct(t *testing.T, db *gorm.DB, name, slug string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Slug:        slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, json.RawMessage) {
	t.Helper()
	var resp struct {
		StatusCode int             `json:"status_code"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal envelope failed: %v, body: %s", err, w.Body.String())
	}
	return resp.StatusCode, resp.Data
}

func TestGetProductsSortedByName(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	seedHandlerProduct(t, db, "Water Bottle", "water-bottle", 10)
	seedHandlerProduct(t, db, "Coffee Mug", "coffee-mug", 12)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/public/products", nil)

	h.GetProducts(c)

	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		t.Fatalf("unmarshal products failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("product count want 2 got %d", len(products))
	}
	if products[0].Name != "Coffee Mug" || products[1].Name != "Water Bottle" {
		t.Fatalf("products should be sorted by name, got %s then %s", products[0].Name, products[1].Name)
	}
}

func TestGetProductUnknownSlug(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/public/products/missing", nil)
	c.Params = gin.Params{{Key: "slug", Value: "missing"}}

	h.GetProduct(c)

	code, _ := decodeEnvelope(t, w)
	if code != 404 {
		t.Fatalf("status_code want 404 got %d", code)
	}
}

func TestGetCartAnonymousPlaceholder(t *testing.T) {
	h, db := setupPublicHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)

	h.GetCart(c)

	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	var summary service.CartSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("unmarshal summary failed: %v", err)
	}
	if summary.CartItems != 0 || summary.CartTotal.String() != "0.00" {
		t.Fatalf("anonymous summary should be zeroed, got items=%d total=%s", summary.CartItems, summary.CartTotal.String())
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("anonymous summary must not persist orders, got %d", orderCount)
	}
}

func TestUpdateCartItemAddsQuantity(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := seedHandlerProduct(t, db, "Running Shoes", "running-shoes", 60)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := fmt.Sprintf(`{"product_id":%d,"action":"add"}`, product.ID)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uint(1))

		h.UpdateCartItem(c)

		code, data := decodeEnvelope(t, w)
		if code != 0 {
			t.Fatalf("status_code want 0 got %d", code)
		}
		if i == 1 {
			var result CartItemResult
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("unmarshal result failed: %v", err)
			}
			if result.CartItems != 2 {
				t.Fatalf("cart_items want 2 got %d", result.CartItems)
			}
		}
	}

	var item models.OrderItem
	if err := db.Where("product_id = ?", product.ID).First(&item).Error; err != nil {
		t.Fatalf("load order item failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", item.Quantity)
	}
}

func TestUpdateCartItemUnknownAction(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := seedHandlerProduct(t, db, "Desk Lamp", "desk-lamp", 34)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := fmt.Sprintf(`{"product_id":%d,"action":"clear"}`, product.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uint(1))

	h.UpdateCartItem(c)

	code, _ := decodeEnvelope(t, w)
	if code != 400 {
		t.Fatalf("status_code want 400 got %d", code)
	}
}

func TestProcessOrderWithoutActiveCart(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"shipping":{"address":"1 Main St","city":"Springfield","state":"IL","zipcode":"62704"}}`
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uint(9))

	h.ProcessOrder(c)

	code, _ := decodeEnvelope(t, w)
	if code != 404 {
		t.Fatalf("status_code want 404 got %d", code)
	}
}

func TestProcessOrderFinalizesCart(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := seedHandlerProduct(t, db, "Coffee Mug", "coffee-mug", 12)

	addBody := fmt.Sprintf(`{"product_id":%d,"action":"add"}`, product.ID)
	wAdd := httptest.NewRecorder()
	cAdd, _ := gin.CreateTestContext(wAdd)
	cAdd.Request = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addBody))
	cAdd.Request.Header.Set("Content-Type", "application/json")
	cAdd.Set("user_id", uint(3))
	h.UpdateCartItem(cAdd)
	if code, _ := decodeEnvelope(t, wAdd); code != 0 {
		t.Fatalf("add item status_code want 0 got %d", code)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"shipping":{"address":"1 Main St","city":"Springfield","state":"IL","zipcode":"62704"}}`
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uint(3))

	h.ProcessOrder(c)

	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	var result CheckoutResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal checkout result failed: %v", err)
	}
	if result.TransactionID == "" {
		t.Fatalf("transaction id should be set")
	}

	var order models.Order
	if err := db.First(&order, result.OrderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if !order.Complete {
		t.Fatalf("order should be complete after checkout")
	}
}

func TestGetOrderCrossUserForbidden(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	order := &models.Order{UserID: 1}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", order.ID)}}
	c.Set("user_id", uint(2))

	h.GetOrder(c)

	code, _ := decodeEnvelope(t, w)
	if code != 403 {
		t.Fatalf("status_code want 403 got %d", code)
	}
}

func TestUpdateOrderCompletedConflict(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := seedHandlerProduct(t, db, "Baseball Hat", "baseball-hat", 15)
	order := &models.Order{UserID: 5, Complete: true}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1}]}`, product.ID)
	c.Request = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/orders/%d", order.ID), strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", order.ID)}}
	c.Set("user_id", uint(5))

	h.UpdateOrder(c)

	code, _ := decodeEnvelope(t, w)
	if code != 409 {
		t.Fatalf("status_code want 409 got %d", code)
	}
}

func TestUpdateOrderZeroQuantityRemovesLine(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := seedHandlerProduct(t, db, "Notebook Set", "notebook-set", 7)
	order := &models.Order{UserID: 6}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	item := &models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 2, UnitPrice: product.PriceAmount}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed order item failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":0}]}`, product.ID)
	c.Request = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/orders/%d", order.ID), strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", order.ID)}}
	c.Set("user_id", uint(6))

	h.UpdateOrder(c)

	code, _ := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d, body %s", code, w.Body.String())
	}
	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count order items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("order item should be removed by explicit zero quantity, got %d rows", itemCount)
	}
}

func TestListOrdersAnonymousEmpty(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	if err := db.Create(&models.Order{UserID: 1}).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)

	h.ListOrders(c)

	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		t.Fatalf("unmarshal orders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("anonymous order list should be empty, got %d", len(orders))
	}
}

func TestUserRegisterAndLogin(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	wReg := httptest.NewRecorder()
	cReg, _ := gin.CreateTestContext(wReg)
	cReg.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"shopper@example.com","password":"Str0ngPassw0rd!"}`))
	cReg.Request.Header.Set("Content-Type", "application/json")

	h.UserRegister(cReg)
	if code, _ := decodeEnvelope(t, wReg); code != 0 {
		t.Fatalf("register status_code want 0 got %d, body %s", code, wReg.Body.String())
	}

	wLogin := httptest.NewRecorder()
	cLogin, _ := gin.CreateTestContext(wLogin)
	cLogin.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(`{"email":"shopper@example.com","password":"Str0ngPassw0rd!"}`))
	cLogin.Request.Header.Set("Content-Type", "application/json")

	h.UserLogin(cLogin)

	code, data := decodeEnvelope(t, wLogin)
	if code != 0 {
		t.Fatalf("login status_code want 0 got %d", code)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal login payload failed: %v", err)
	}
	if payload.Token == "" {
		t.Fatalf("login should return a token")
	}
}
