package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（complete=false 的订单即该用户的购物车）
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                      // 主键
	UserID        uint           `gorm:"index;not null" json:"user_id"`             // 用户ID
	Complete      bool           `gorm:"index;not null;default:false" json:"complete"` // 是否已结算
	TransactionID string         `gorm:"index;default:''" json:"transaction_id"`    // 结算流水号（结算时生成）
	DateOrdered   time.Time      `gorm:"autoCreateTime;index" json:"date_ordered"`  // 下单时间
	CompletedAt   *time.Time     `gorm:"index" json:"completed_at"`                 // 结算时间
	UpdatedAt     time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间

	// 关联
	Items           []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`           // 订单项
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID" json:"shipping_address,omitempty"` // 收货地址
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ItemCount 订单内商品总件数
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount 订单总金额（各订单项小计之和）
func (o *Order) TotalAmount() Money {
	total := ZeroMoney()
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
