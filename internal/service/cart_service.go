package service

import (
	"strings"

	"github.com/storefront-api/internal/constants"
	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/repository"

	"gorm.io/gorm"
)

// CartLine 购物车行（用于响应）
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   *models.Product `json:"product,omitempty"`
}

// CartSummary 购物车汇总
// 匿名访问时返回全零占位，不落库
type CartSummary struct {
	OrderID   uint         `json:"order_id"`
	Items     []CartLine   `json:"items"`
	CartItems int          `json:"cart_items"`
	CartTotal models.Money `json:"cart_total"`
}

// UpdateCartItemInput 购物车更新输入
type UpdateCartItemInput struct {
	UserID    uint
	ProductID uint
	Action    string
}

// CartService 购物车服务
// 购物车即该用户当前未结算的订单，订单项随 add/remove 增减
type CartService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// UpdateItem 增减购物车内商品数量，返回最新的商品总件数。
// add 加一，remove 减一，数量降到 0 时整行删除。
func (s *CartService) UpdateItem(input UpdateCartItemInput) (int, error) {
	action := strings.ToLower(strings.TrimSpace(input.Action))
	if action != constants.CartActionAdd && action != constants.CartActionRemove {
		return 0, ErrInvalidCartAction
	}
	if input.UserID == 0 || input.ProductID == 0 {
		return 0, ErrInvalidOrderItem
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrProductNotFound
	}

	var cartItems int
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		order, err := orderRepo.GetOrCreateActiveByUser(input.UserID)
		if err != nil {
			return err
		}

		item, err := orderRepo.GetItem(order.ID, product.ID)
		if err != nil {
			return err
		}
		if item == nil {
			item = &models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  0,
			}
		}

		switch action {
		case constants.CartActionAdd:
			item.Quantity++
		case constants.CartActionRemove:
			item.Quantity--
		}
		// 单价快照跟随当前售价
		item.UnitPrice = product.PriceAmount

		if item.Quantity <= 0 {
			if item.ID != 0 {
				if err := orderRepo.DeleteItem(order.ID, product.ID); err != nil {
					return err
				}
			}
		} else {
			if err := orderRepo.SaveItem(item); err != nil {
				return err
			}
		}

		cartItems, err = orderRepo.SumItemQuantity(order.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return cartItems, nil
}

// Summary 获取购物车汇总。
// 匿名用户（userID 为 0）返回全零占位；已登录用户懒创建购物车订单。
func (s *CartService) Summary(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return emptyCartSummary(0), nil
	}

	order, err := s.orderRepo.GetActiveByUser(userID, true)
	if err != nil {
		return nil, err
	}
	if order == nil {
		var created *models.Order
		err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
			created, err = s.orderRepo.WithTx(tx).GetOrCreateActiveByUser(userID)
			return err
		})
		if err != nil {
			return nil, err
		}
		return emptyCartSummary(created.ID), nil
	}

	summary := emptyCartSummary(order.ID)
	for i := range order.Items {
		item := &order.Items[i]
		line := CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
			Product:   item.Product,
		}
		summary.Items = append(summary.Items, line)
		summary.CartItems += item.Quantity
		summary.CartTotal = summary.CartTotal.Add(line.LineTotal)
	}
	return summary, nil
}

func emptyCartSummary(orderID uint) *CartSummary {
	return &CartSummary{
		OrderID:   orderID,
		Items:     []CartLine{},
		CartItems: 0,
		CartTotal: models.ZeroMoney(),
	}
}
