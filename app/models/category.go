package models

// Category is a taxonomy node; (StoreID, Slug) is unique.
type Category struct {
	Base
	StoreID     string  `gorm:"size:36;not null;uniqueIndex:idx_categories_store_slug" json:"storeId"`
	Title       string  `gorm:"size:255;not null"                                      json:"title"`
	Slug        string  `gorm:"size:255;not null;uniqueIndex:idx_categories_store_slug" json:"slug"`
	Description *string `gorm:"type:text"                                              json:"description,omitempty"`
	IconURL     *string `gorm:"size:1024"                                              json:"iconUrl,omitempty"`
}
