package model

import (
	"time"

	"gorm.io/gorm"
)

// BusinessCategory is a top level merchant category (e.g. Food & Beverage).
type BusinessCategory struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	SortOrder   int    `gorm:"default:0;index" json:"sort_order"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Types []BusinessType `gorm:"foreignKey:BusinessCategoryID" json:"types,omitempty"`
}

func (BusinessCategory) TableName() string {
	return "business_categories"
}

// BusinessType is a subtype within a category (e.g. Sari-Sari Store).
type BusinessType struct {
	ID                 uint   `gorm:"primarykey" json:"id"`
	BusinessCategoryID uint   `gorm:"not null;index:idx_category_type_name,unique" json:"business_category_id"`
	Name               string `gorm:"not null;index:idx_category_type_name,unique" json:"name"`
	SortOrder          int    `gorm:"default:0;index" json:"sort_order"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessCategory *BusinessCategory `gorm:"foreignKey:BusinessCategoryID" json:"-"`
}

func (BusinessType) TableName() string {
	return "business_types"
}
