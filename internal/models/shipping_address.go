package models

import (
	"time"
)

// ShippingAddress 收货地址表（结算时创建，一个订单只有一条）
type ShippingAddress struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`     // 订单ID
	UserID    uint      `gorm:"index;not null" json:"user_id"`            // 用户ID
	Address   string    `gorm:"not null" json:"address"`                  // 街道地址
	City      string    `gorm:"not null" json:"city"`                     // 城市
	State     string    `gorm:"not null" json:"state"`                    // 省/州
	Zipcode   string    `gorm:"not null" json:"zipcode"`                  // 邮编
	CreatedAt time.Time `gorm:"index" json:"created_at"`                  // 创建时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
