package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Name        string         `gorm:"not null;index" json:"name"`                                // 商品名称
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Category    string         `gorm:"index;default:''" json:"category"`                          // 分类名称
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 价格金额
	Image       string         `gorm:"default:''" json:"image"`                                   // 图片路径
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
