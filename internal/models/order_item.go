package models

import (
	"time"
)

// OrderItem 订单项表
// 同一订单内每个商品只有一行，数量减到 0 时整行物理删除，
// 因此不带软删除字段，避免唯一索引被已删行占用。
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID   uint      `gorm:"uniqueIndex:idx_order_product;not null" json:"order_id"`   // 订单ID
	ProductID uint      `gorm:"uniqueIndex:idx_order_product;not null" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`                       // 数量
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价快照
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                               // 更新时间

	// 关联
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 订单项小计（单价 × 数量）
func (i *OrderItem) LineTotal() Money {
	return i.UnitPrice.MulInt(i.Quantity)
}
