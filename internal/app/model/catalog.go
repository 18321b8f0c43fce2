package model

type Gender string

const (
	GenderBoys   Gender = "B"
	GenderGirls  Gender = "G"
	GenderUnisex Gender = "U"
)

type Category struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	ParentID    *uint      `gorm:"index" json:"parent_id,omitempty"`
	Gender      Gender     `gorm:"type:varchar(1);default:'U'" json:"gender"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

type Color struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Code string `gorm:"type:varchar(20)" json:"code"` // e.g. #FFFFFF
}

func (Color) TableName() string {
	return "colors"
}

// Size is either a letter size (XS..XL) or a height size (110, 116, ...).
type Size struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
}

func (Size) TableName() string {
	return "sizes"
}
