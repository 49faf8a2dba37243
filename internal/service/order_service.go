package service

import (
	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/repository"

	"gorm.io/gorm"
)

// OrderLineInput 订单项输入（整单替换时使用）
type OrderLineInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderService 订单服务（面向 API 的订单资源）
// 所有读写都以调用方身份为边界，归属方以外不可见、不可改
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	shippingRepo repository.ShippingAddressRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, shippingRepo repository.ShippingAddressRepository) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		shippingRepo: shippingRepo,
	}
}

// ListByUser 当前用户的订单列表（按下单时间倒序）。
// 匿名用户返回空集合。
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return []models.Order{}, 0, nil
	}
	return s.orderRepo.List(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		WithItems: true,
	})
}

// HistoryByUser 当前用户已完成的订单（订单历史页）
func (s *OrderService) HistoryByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return []models.Order{}, 0, nil
	}
	return s.orderRepo.List(repository.OrderListFilter{
		Page:         page,
		PageSize:     pageSize,
		UserID:       userID,
		OnlyComplete: true,
		WithItems:    true,
	})
}

// GetByIDForUser 获取订单详情。
// 订单不存在返回 ErrOrderNotFound，归属他人返回 ErrOrderAccessDenied。
func (s *OrderService) GetByIDForUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID, true)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// CreateForUser 创建订单。
// 归属始终取调用方身份；已有未结算订单时直接返回它，
// 保证每个用户最多一个未结算订单。
func (s *OrderService) CreateForUser(userID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrOrderAccessDenied
	}
	var order *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.WithTx(tx).GetOrCreateActiveByUser(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID, true)
}

// ReplaceItemsForUser 整单替换订单项（PUT/PATCH 语义）。
// 已完成订单不可变，quantity <= 0 的行表示移除。
func (s *OrderService) ReplaceItemsForUser(orderID, userID uint, lines []OrderLineInput) (*models.Order, error) {
	order, err := s.GetByIDForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Complete {
		return nil, ErrOrderCompleted
	}

	// 同一商品多行先合并
	merged := make(map[uint]int, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, ErrInvalidOrderItem
		}
		if _, ok := merged[line.ProductID]; !ok {
			ids = append(ids, line.ProductID)
		}
		merged[line.ProductID] += line.Quantity
	}

	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if merged[id] <= 0 {
			continue
		}
		if _, ok := productByID[id]; !ok {
			return nil, ErrProductNotFound
		}
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.DeleteItemsByOrder(order.ID); err != nil {
			return err
		}
		for _, id := range ids {
			quantity := merged[id]
			if quantity <= 0 {
				continue
			}
			item := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: id,
				Quantity:  quantity,
				UnitPrice: productByID[id].PriceAmount,
			}
			if err := orderRepo.SaveItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID, true)
}

// DeleteForUser 删除订单及其订单项、收货地址
func (s *OrderService) DeleteForUser(orderID, userID uint) error {
	order, err := s.GetByIDForUser(orderID, userID)
	if err != nil {
		return err
	}
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.DeleteItemsByOrder(order.ID); err != nil {
			return err
		}
		if err := s.shippingRepo.WithTx(tx).DeleteByOrderID(order.ID); err != nil {
			return err
		}
		return orderRepo.Delete(order.ID)
	})
}
