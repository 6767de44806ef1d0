package models

// User is a back-office account. StoreID is nil only for SUPER_ADMIN.
type User struct {
	Base
	Name         string  `gorm:"size:255"                      json:"name"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string  `gorm:"size:255;not null"             json:"-"`
	Role         string  `gorm:"size:32;not null"              json:"role"`
	StoreID      *string `gorm:"size:36;index"                 json:"storeId"`
}
