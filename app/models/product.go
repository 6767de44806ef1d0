package models

// ProductOption is one variant axis, e.g. {"name":"Size","values":["S","M"]}.
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Product is a sellable item. PriceCents is authoritative for storefront
// orders; (StoreID, Slug) is unique.
type Product struct {
	Base
	StoreID            string          `gorm:"size:36;not null;uniqueIndex:idx_products_store_slug;index" json:"storeId"`
	SKU                string          `gorm:"size:100;not null"                                           json:"sku"`
	Title              string          `gorm:"size:255;not null"                                           json:"title"`
	Slug               string          `gorm:"size:255;not null;uniqueIndex:idx_products_store_slug"       json:"slug"`
	Description        string          `gorm:"type:text"                                                   json:"description"`
	PriceCents         int64           `gorm:"not null;default:0"                                          json:"priceCents"`
	PreviousPriceCents *int64          `                                                                   json:"previousPriceCents,omitempty"`
	Currency           string          `gorm:"size:3;not null"                                             json:"currency"`
	Stock              int64           `gorm:"not null;default:0"                                          json:"stock"`
	Active             bool            `gorm:"not null"                                                    json:"active"`
	Featured           bool            `gorm:"not null"                                                    json:"featured"`
	ImageURL           string          `gorm:"size:1024"                                                   json:"imageUrl"`
	GalleryURLs        []string        `gorm:"serializer:json;type:text"                                   json:"galleryUrls"`
	Options            []ProductOption `gorm:"column:options_json;serializer:json;type:text"               json:"options"`
	Categories         []Category      `gorm:"many2many:product_categories"                                 json:"categories,omitempty"`
}

// MediaURLs lists every stored object referenced by the product.
func (p *Product) MediaURLs() []string {
	urls := make([]string, 0, len(p.GalleryURLs)+1)
	if p.ImageURL != "" {
		urls = append(urls, p.ImageURL)
	}
	for _, u := range p.GalleryURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
