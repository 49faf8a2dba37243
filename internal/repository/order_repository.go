package repository

import (
	"errors"

	"github.com/storefront-api/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetActiveByUser(userID uint, withItems bool) (*models.Order, error)
	GetOrCreateActiveByUser(userID uint) (*models.Order, error)
	GetByID(id uint, withItems bool) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	Update(order *models.Order) error
	Delete(orderID uint) error
	GetItem(orderID, productID uint) (*models.OrderItem, error)
	SaveItem(item *models.OrderItem) error
	DeleteItem(orderID, productID uint) error
	DeleteItemsByOrder(orderID uint) error
	SumItemQuantity(orderID uint) (int, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetActiveByUser 获取用户当前未结算订单，不存在时返回 nil
func (r *GormOrderRepository) GetActiveByUser(userID uint, withItems bool) (*models.Order, error) {
	var order models.Order
	query := r.db.Where("user_id = ? AND complete = ?", userID, false)
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).Preload("Items.Product")
	}
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetOrCreateActiveByUser 获取或创建用户当前未结算订单。
// 调用方需自行包在事务里，保证每个用户最多一个未结算订单。
func (r *GormOrderRepository) GetOrCreateActiveByUser(userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("user_id = ? AND complete = ?", userID, false).
		Attrs(models.Order{UserID: userID, Complete: false}).
		FirstOrCreate(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID 根据 ID 获取订单，不存在时返回 nil
func (r *GormOrderRepository) GetByID(id uint, withItems bool) (*models.Order, error) {
	var order models.Order
	query := r.db.Model(&models.Order{})
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).Preload("Items.Product").Preload("ShippingAddress")
	}
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表（按下单时间倒序）
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OnlyComplete {
		query = query.Where("complete = ?", true)
	}
	if filter.WithItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).Preload("Items.Product").Preload("ShippingAddress")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("date_ordered DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// Delete 删除订单
func (r *GormOrderRepository) Delete(orderID uint) error {
	return r.db.Delete(&models.Order{}, orderID).Error
}

// GetItem 获取订单内指定商品的订单项，不存在时返回 nil
func (r *GormOrderRepository) GetItem(orderID, productID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.Where("order_id = ? AND product_id = ?", orderID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem 创建或更新订单项
func (r *GormOrderRepository) SaveItem(item *models.OrderItem) error {
	if item == nil {
		return nil
	}
	return r.db.Save(item).Error
}

// DeleteItem 物理删除订单项
func (r *GormOrderRepository) DeleteItem(orderID, productID uint) error {
	return r.db.Where("order_id = ? AND product_id = ?", orderID, productID).Delete(&models.OrderItem{}).Error
}

// DeleteItemsByOrder 清空订单的所有订单项
func (r *GormOrderRepository) DeleteItemsByOrder(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
}

// SumItemQuantity 统计订单内商品总件数
func (r *GormOrderRepository) SumItemQuantity(orderID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
