package models

// Store is a tenant. It is provisioned administratively and never mutated by
// catalogue or order operations.
type Store struct {
	Base
	Name     string `gorm:"size:255;not null"             json:"name"`
	Slug     string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Currency string `gorm:"size:3;not null"               json:"currency"`
	// Storefront pricing settings.
	DeliveryFeeCents int64 `gorm:"not null;default:0" json:"deliveryFeeCents"`
	TaxRateBps       int64 `gorm:"not null;default:0" json:"taxRateBps"`
}
