package service

import (
	"strings"
	"time"

	"github.com/storefront-api/internal/logger"
	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/queue"
	"github.com/storefront-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingInput 结算时提交的收货地址
type ShippingInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// CheckoutService 结算服务
// 把用户当前未结算订单置为已完成，写入收货地址与流水号
type CheckoutService struct {
	orderRepo    repository.OrderRepository
	shippingRepo repository.ShippingAddressRepository
	queueClient  *queue.Client
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(orderRepo repository.OrderRepository, shippingRepo repository.ShippingAddressRepository, queueClient *queue.Client) *CheckoutService {
	return &CheckoutService{
		orderRepo:    orderRepo,
		shippingRepo: shippingRepo,
		queueClient:  queueClient,
	}
}

// CompleteOrder 完成结算。
// 要求存在未结算订单，不存在时返回 ErrActiveOrderNotFound，
// 因此同一订单的第二次结算请求会失败，结算最多发生一次。
func (s *CheckoutService) CompleteOrder(userID uint, shipping ShippingInput) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrActiveOrderNotFound
	}
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	var completed *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		shippingRepo := s.shippingRepo.WithTx(tx)

		order, err := orderRepo.GetActiveByUser(userID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrActiveOrderNotFound
		}

		now := time.Now()
		order.Complete = true
		order.TransactionID = uuid.NewString()
		order.CompletedAt = &now
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		// 地址字段仅做非空校验，内容原样落库
		address := &models.ShippingAddress{
			OrderID: order.ID,
			UserID:  userID,
			Address: shipping.Address,
			City:    shipping.City,
			State:   shipping.State,
			Zipcode: shipping.Zipcode,
		}
		if err := shippingRepo.Create(address); err != nil {
			return err
		}

		order.ShippingAddress = address
		completed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 回执邮件尽力而为，失败不影响结算结果
	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderReceiptEmail(queue.OrderReceiptEmailPayload{OrderID: completed.ID}); err != nil {
			logger.Warnw("order_receipt_email_enqueue_failed", "order_id", completed.ID, "error", err)
		}
	}

	return completed, nil
}

func validateShipping(shipping ShippingInput) error {
	if strings.TrimSpace(shipping.Address) == "" ||
		strings.TrimSpace(shipping.City) == "" ||
		strings.TrimSpace(shipping.State) == "" ||
		strings.TrimSpace(shipping.Zipcode) == "" {
		return ErrInvalidShippingAddress
	}
	return nil
}
