package model

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product;index" json:"product_id"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (Favorite) TableName() string {
	return "favorites"
}
