package service

import (
	"errors"
	"testing"

	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/repository"

	"gorm.io/gorm"
)

func setupCheckoutTest(t *testing.T) (*CheckoutService, *CartService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	cartSvc := NewCartService(orderRepo, repository.NewProductRepository(db))
	checkoutSvc := NewCheckoutService(orderRepo, repository.NewShippingAddressRepository(db), nil)
	return checkoutSvc, cartSvc, db
}

func validShipping() ShippingInput {
	return ShippingInput{Address: "1 Main St", City: "Lagos", State: "LA", Zipcode: "10001"}
}

func TestCompleteOrderFinalizesCart(t *testing.T) {
	checkoutSvc, cartSvc, db := setupCheckoutTest(t)
	product := seedProduct(t, db, "Mug", "mug", 15)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 1, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	order, err := checkoutSvc.CompleteOrder(1, validShipping())
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !order.Complete {
		t.Fatalf("order should be complete")
	}
	if order.TransactionID == "" {
		t.Fatalf("transaction id should be set")
	}
	if order.CompletedAt == nil {
		t.Fatalf("completed_at should be set")
	}

	var addressCount int64
	if err := db.Model(&models.ShippingAddress{}).Where("order_id = ?", order.ID).Count(&addressCount).Error; err != nil {
		t.Fatalf("count addresses failed: %v", err)
	}
	if addressCount != 1 {
		t.Fatalf("shipping address count want 1 got %d", addressCount)
	}
}

func TestCompleteOrderTwiceFails(t *testing.T) {
	checkoutSvc, cartSvc, db := setupCheckoutTest(t)
	product := seedProduct(t, db, "Shoes", "shoes", 60)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 2, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := checkoutSvc.CompleteOrder(2, validShipping()); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	if _, err := checkoutSvc.CompleteOrder(2, validShipping()); !errors.Is(err, ErrActiveOrderNotFound) {
		t.Fatalf("second complete want ErrActiveOrderNotFound got %v", err)
	}
}

func TestCompleteOrderWithoutActiveCart(t *testing.T) {
	checkoutSvc, _, _ := setupCheckoutTest(t)
	if _, err := checkoutSvc.CompleteOrder(9, validShipping()); !errors.Is(err, ErrActiveOrderNotFound) {
		t.Fatalf("want ErrActiveOrderNotFound got %v", err)
	}
}

func TestCompleteOrderRejectsEmptyShippingField(t *testing.T) {
	checkoutSvc, cartSvc, db := setupCheckoutTest(t)
	product := seedProduct(t, db, "Hat", "hat", 10)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 3, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	shipping := validShipping()
	shipping.City = "  "
	if _, err := checkoutSvc.CompleteOrder(3, shipping); !errors.Is(err, ErrInvalidShippingAddress) {
		t.Fatalf("want ErrInvalidShippingAddress got %v", err)
	}

	// 校验失败不应影响后续正常结算
	if _, err := checkoutSvc.CompleteOrder(3, validShipping()); err != nil {
		t.Fatalf("complete after validation failure: %v", err)
	}
}

func TestCompleteOrderStoresShippingVerbatim(t *testing.T) {
	checkoutSvc, cartSvc, db := setupCheckoutTest(t)
	product := seedProduct(t, db, "Lamp", "lamp", 34)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 3, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	shipping := ShippingInput{Address: "  1 Main St  ", City: "Lagos\t", State: " LA", Zipcode: "10001 "}
	order, err := checkoutSvc.CompleteOrder(3, shipping)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	var address models.ShippingAddress
	if err := db.Where("order_id = ?", order.ID).First(&address).Error; err != nil {
		t.Fatalf("load address failed: %v", err)
	}
	if address.Address != "  1 Main St  " {
		t.Fatalf("address want %q got %q", "  1 Main St  ", address.Address)
	}
	if address.City != "Lagos\t" {
		t.Fatalf("city want %q got %q", "Lagos\t", address.City)
	}
	if address.State != " LA" {
		t.Fatalf("state want %q got %q", " LA", address.State)
	}
	if address.Zipcode != "10001 " {
		t.Fatalf("zipcode want %q got %q", "10001 ", address.Zipcode)
	}
}
