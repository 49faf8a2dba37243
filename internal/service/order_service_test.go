package service

import (
	"errors"
	"testing"

	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/repository"

	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *CartService, *CheckoutService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	shippingRepo := repository.NewShippingAddressRepository(db)
	return NewOrderService(orderRepo, productRepo, shippingRepo),
		NewCartService(orderRepo, productRepo),
		NewCheckoutService(orderRepo, shippingRepo, nil),
		db
}

func TestOrderGetCrossUserDenied(t *testing.T) {
	svc, cartSvc, _, db := setupOrderServiceTest(t)
	product := seedProduct(t, db, "Mug", "mug", 15)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 1, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	var order models.Order
	if err := db.Where("user_id = ?", 1).First(&order).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}

	if _, err := svc.GetByIDForUser(order.ID, 2); !errors.Is(err, ErrOrderAccessDenied) {
		t.Fatalf("want ErrOrderAccessDenied got %v", err)
	}
	if _, err := svc.GetByIDForUser(9999, 1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestOrderCreateReusesActiveOrder(t *testing.T) {
	svc, _, _, _ := setupOrderServiceTest(t)

	first, err := svc.CreateForUser(4)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.CreateForUser(4)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("create should reuse active order, got %d and %d", first.ID, second.ID)
	}
}

func TestOrderListScopedToCaller(t *testing.T) {
	svc, cartSvc, _, db := setupOrderServiceTest(t)
	product := seedProduct(t, db, "Shoes", "shoes", 60)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 1, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add user1 failed: %v", err)
	}
	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 2, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add user2 failed: %v", err)
	}

	orders, total, err := svc.ListByUser(1, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].UserID != 1 {
		t.Fatalf("list should only contain caller's orders: total=%d", total)
	}

	anonymous, total, err := svc.ListByUser(0, 1, 20)
	if err != nil {
		t.Fatalf("anonymous list failed: %v", err)
	}
	if total != 0 || len(anonymous) != 0 {
		t.Fatalf("anonymous list should be empty")
	}
}

func TestOrderReplaceItems(t *testing.T) {
	svc, _, _, db := setupOrderServiceTest(t)
	mug := seedProduct(t, db, "Mug", "mug", 15)
	shoes := seedProduct(t, db, "Shoes", "shoes", 60)

	order, err := svc.CreateForUser(6)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.ReplaceItemsForUser(order.ID, 6, []OrderLineInput{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: shoes.ID, Quantity: 0}, // 数量 0 表示移除
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].ProductID != mug.ID || updated.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items after replace: %+v", updated.Items)
	}

	if _, err := svc.ReplaceItemsForUser(order.ID, 6, []OrderLineInput{{ProductID: 999, Quantity: 1}}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
	if _, err := svc.ReplaceItemsForUser(order.ID, 7, nil); !errors.Is(err, ErrOrderAccessDenied) {
		t.Fatalf("want ErrOrderAccessDenied got %v", err)
	}
}

func TestOrderReplaceItemsCompletedImmutable(t *testing.T) {
	svc, cartSvc, checkoutSvc, db := setupOrderServiceTest(t)
	product := seedProduct(t, db, "Hat", "hat", 10)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 8, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := checkoutSvc.CompleteOrder(8, ShippingInput{Address: "1 Main St", City: "Lagos", State: "LA", Zipcode: "10001"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if _, err := svc.ReplaceItemsForUser(order.ID, 8, []OrderLineInput{{ProductID: product.ID, Quantity: 5}}); !errors.Is(err, ErrOrderCompleted) {
		t.Fatalf("want ErrOrderCompleted got %v", err)
	}
}

func TestOrderDeleteRemovesChildren(t *testing.T) {
	svc, cartSvc, checkoutSvc, db := setupOrderServiceTest(t)
	product := seedProduct(t, db, "Mug", "mug", 15)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 9, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := checkoutSvc.CompleteOrder(9, ShippingInput{Address: "1 Main St", City: "Lagos", State: "LA", Zipcode: "10001"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if err := svc.DeleteForUser(order.ID, 9); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var itemCount, addressCount int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if err := db.Model(&models.ShippingAddress{}).Where("order_id = ?", order.ID).Count(&addressCount).Error; err != nil {
		t.Fatalf("count addresses failed: %v", err)
	}
	if itemCount != 0 || addressCount != 0 {
		t.Fatalf("children should be removed, items=%d addresses=%d", itemCount, addressCount)
	}

	if _, err := svc.GetByIDForUser(order.ID, 9); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("deleted order should be gone, got %v", err)
	}
}

func TestOrderHistoryOnlyCompleted(t *testing.T) {
	svc, cartSvc, checkoutSvc, db := setupOrderServiceTest(t)
	product := seedProduct(t, db, "Shoes", "shoes", 60)

	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 11, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := checkoutSvc.CompleteOrder(11, ShippingInput{Address: "1 Main St", City: "Lagos", State: "LA", Zipcode: "10001"}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	// 结算后再次加购会创建新的未结算订单
	if _, err := cartSvc.UpdateItem(UpdateCartItemInput{UserID: 11, ProductID: product.ID, Action: "add"}); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	history, total, err := svc.HistoryByUser(11, 1, 20)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if total != 1 || len(history) != 1 || !history[0].Complete {
		t.Fatalf("history should contain only the completed order, total=%d", total)
	}
}
