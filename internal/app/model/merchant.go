package model

import (
	"time"

	"gorm.io/gorm"
)

// MerchantStatus is the account lifecycle state of a merchant.
type MerchantStatus int

const (
	StatusActive     MerchantStatus = 0 // approved and trading
	StatusBanned     MerchantStatus = 1 // banned by an operator
	StatusFrozen     MerchantStatus = 2 // temporarily suspended
	StatusDeleted    MerchantStatus = 3 // soft deleted account
	StatusUnverified MerchantStatus = 4 // created, OTP not yet confirmed
	StatusPending    MerchantStatus = 5 // verified, awaiting document review
	StatusRejected   MerchantStatus = 6 // rejected during document review
)

func (s MerchantStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusBanned:
		return "banned"
	case StatusFrozen:
		return "frozen"
	case StatusDeleted:
		return "deleted"
	case StatusUnverified:
		return "unverified"
	case StatusPending:
		return "pending"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// BusinessRegistration is the declared tax registration classification.
// It mirrors the registration category the applicant picked in the wizard.
type BusinessRegistration int

const (
	RegistrationVAT          BusinessRegistration = 0 // Registered (VAT Included)
	RegistrationNonVAT       BusinessRegistration = 1 // Registered (NON-VAT)
	RegistrationUnregistered BusinessRegistration = 2 // Unregistered
)

type Merchant struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	BusinessName string `gorm:"not null" json:"business_name"`
	OwnerName    string `gorm:"not null" json:"owner_name"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Phone        string `gorm:"uniqueIndex;type:varchar(20);not null" json:"phone"` // +639XXXXXXXXX

	BusinessCategoryID   uint                 `gorm:"not null;index" json:"business_category_id"`
	BusinessTypeID       uint                 `gorm:"not null;index" json:"business_type_id"`
	BusinessRegistration BusinessRegistration `gorm:"not null;default:2" json:"business_registration"`

	Status MerchantStatus `gorm:"not null;default:4;index" json:"status"`

	// Address
	Zipcode          string  `gorm:"type:varchar(10);not null" json:"zipcode"`
	Province         string  `gorm:"not null" json:"province"`
	CityMunicipality string  `gorm:"not null" json:"city_municipality"`
	Barangay         string  `gorm:"not null" json:"barangay"`
	StreetName       string  `gorm:"not null" json:"street_name"`
	HouseNumber      string  `gorm:"not null" json:"house_number"`
	Latitude         float64 `gorm:"type:decimal(10,8);not null" json:"latitude"`  // WGS84
	Longitude        float64 `gorm:"type:decimal(11,8);not null" json:"longitude"` // WGS84

	VerifiedAt *time.Time `json:"verified_at,omitempty"` // OTP confirmed at

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessCategory *BusinessCategory  `gorm:"foreignKey:BusinessCategoryID" json:"business_category,omitempty"`
	BusinessType     *BusinessType      `gorm:"foreignKey:BusinessTypeID" json:"business_type,omitempty"`
	Documents        []MerchantDocument `gorm:"foreignKey:MerchantID" json:"documents,omitempty"`
}

func (Merchant) TableName() string {
	return "merchants"
}
