package repository

import (
	"errors"

	"github.com/storefront-api/internal/models"

	"gorm.io/gorm"
)

// ShippingAddressRepository 收货地址数据访问接口
type ShippingAddressRepository interface {
	Create(address *models.ShippingAddress) error
	GetByOrderID(orderID uint) (*models.ShippingAddress, error)
	DeleteByOrderID(orderID uint) error
	WithTx(tx *gorm.DB) ShippingAddressRepository
}

// GormShippingAddressRepository GORM 实现
type GormShippingAddressRepository struct {
	db *gorm.DB
}

// NewShippingAddressRepository 创建收货地址仓库
func NewShippingAddressRepository(db *gorm.DB) *GormShippingAddressRepository {
	return &GormShippingAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingAddressRepository) WithTx(tx *gorm.DB) ShippingAddressRepository {
	if tx == nil {
		return r
	}
	return &GormShippingAddressRepository{db: tx}
}

// Create 创建收货地址
func (r *GormShippingAddressRepository) Create(address *models.ShippingAddress) error {
	return r.db.Create(address).Error
}

// GetByOrderID 获取订单的收货地址，不存在时返回 nil
func (r *GormShippingAddressRepository) GetByOrderID(orderID uint) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	if err := r.db.Where("order_id = ?", orderID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// DeleteByOrderID 删除订单的收货地址
func (r *GormShippingAddressRepository) DeleteByOrderID(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.ShippingAddress{}).Error
}
