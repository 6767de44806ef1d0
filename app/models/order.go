package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderFulfilled, OrderCancelled},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderFulfilled, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether s → next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod records how the customer pays.
type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "COD"
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "BANK_TRANSFER"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// OrderChannel records which trust path created the order.
type OrderChannel string

const (
	ChannelAdmin      OrderChannel = "ADMIN"
	ChannelStorefront OrderChannel = "STOREFRONT"
)

// Order is the aggregate root. Serial is the internal monotonic sequence; ID
// is the opaque identifier exposed through the API.
type Order struct {
	Serial          uint64        `gorm:"primaryKey;autoIncrement"        json:"serial"`
	ID              string        `gorm:"size:36;not null;uniqueIndex"    json:"id"`
	StoreID         string        `gorm:"size:36;not null;index"          json:"storeId"`
	OrderNumber     string        `gorm:"size:32;not null;uniqueIndex"    json:"orderNumber"`
	Status          OrderStatus   `gorm:"size:16;not null;index"          json:"status"`
	PaymentMethod   PaymentMethod `gorm:"size:32;not null"                json:"paymentMethod"`
	Channel         OrderChannel  `gorm:"size:16;not null"                json:"channel"`
	CustomerName    string        `gorm:"size:255;not null"               json:"customerName"`
	CustomerEmail   string        `gorm:"size:255"                        json:"customerEmail"`
	CustomerPhone   string        `gorm:"size:64"                         json:"customerPhone"`
	ShippingAddress string        `gorm:"type:text"                       json:"shippingAddress"`
	City            string        `gorm:"size:128"                        json:"city"`
	Notes           string        `gorm:"type:text"                       json:"notes"`
	SubtotalCents   int64         `gorm:"not null"                        json:"subtotalCents"`
	DeliveryCents   int64         `gorm:"not null"                        json:"deliveryCents"`
	TaxCents        int64         `gorm:"not null"                        json:"taxCents"`
	TotalCents      int64         `gorm:"not null"                        json:"totalCents"`
	Currency        string        `gorm:"size:3;not null"                 json:"currency"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns the opaque id.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is one line of an order. Price, title, SKU and image are
// snapshots taken when the order was placed; ProductID is a plain reference
// and may outlive the product.
type OrderItem struct {
	Base
	OrderID         string  `gorm:"size:36;not null;index" json:"orderId"`
	Line            int     `gorm:"not null"               json:"line"`
	ProductID       *string `gorm:"size:36;index"          json:"productId"`
	Quantity        int64   `gorm:"not null"               json:"quantity"`
	UnitPriceCents  int64   `gorm:"not null"               json:"unitPriceCents"`
	LineTotalCents  int64   `gorm:"not null"               json:"lineTotalCents"`
	ProductTitle    string  `gorm:"size:255;not null"      json:"productTitle"`
	ProductSKU      string  `gorm:"size:100"               json:"productSku"`
	ProductImageURL string  `gorm:"size:1024"              json:"productImageUrl"`
}
