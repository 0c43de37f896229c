package model

import (
	"time"

	"gorm.io/gorm"
)

// MerchantDocument is one uploaded registration document. A merchant holds
// at most one document per slot.
type MerchantDocument struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	MerchantID uint   `gorm:"not null;index:idx_merchant_slot,unique" json:"merchant_id"`
	SlotKey    string `gorm:"not null;index:idx_merchant_slot,unique;type:varchar(50)" json:"slot_key"`

	FileURL          string `gorm:"not null" json:"file_url"` // object storage URL
	OriginalFilename string `gorm:"not null" json:"original_filename"`
	MimeType         string `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes        int64  `gorm:"not null" json:"size_bytes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
}

func (MerchantDocument) TableName() string {
	return "merchant_documents"
}
