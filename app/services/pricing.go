package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
)

// Totals are the money columns of an order.
type Totals struct {
	SubtotalCents int64
	DeliveryCents int64
	TaxCents      int64
	TotalCents    int64
}

// LineTotal returns unit × quantity, rejecting non-positive quantities,
// negative prices and overflow.
func LineTotal(unitPriceCents, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, apperr.New(apperr.Validation, "Quantity must be greater than zero")
	}
	if unitPriceCents < 0 {
		return 0, apperr.New(apperr.Validation, "Unit price cannot be negative")
	}
	if unitPriceCents > math.MaxInt64/quantity {
		return 0, apperr.New(apperr.Validation, "Line total is too large")
	}
	return unitPriceCents * quantity, nil
}

// PriceItems fills LineTotalCents on every item and returns the totals.
func PriceItems(items []models.OrderItem, deliveryCents, taxCents int64) (Totals, error) {
	if deliveryCents < 0 || taxCents < 0 {
		return Totals{}, apperr.New(apperr.Validation, "Delivery and tax cannot be negative")
	}

	var subtotal int64
	for i := range items {
		line, err := LineTotal(items[i].UnitPriceCents, items[i].Quantity)
		if err != nil {
			return Totals{}, err
		}
		items[i].LineTotalCents = line
		if subtotal > math.MaxInt64-line {
			return Totals{}, apperr.New(apperr.Validation, "Order total is too large")
		}
		subtotal += line
	}

	if subtotal > math.MaxInt64-deliveryCents-taxCents {
		return Totals{}, apperr.New(apperr.Validation, "Order total is too large")
	}
	return Totals{
		SubtotalCents: subtotal,
		DeliveryCents: deliveryCents,
		TaxCents:      taxCents,
		TotalCents:    subtotal + deliveryCents + taxCents,
	}, nil
}

// TaxCents applies a basis-point rate to subtotal, rounding half up.
func TaxCents(subtotalCents, rateBps int64) int64 {
	if subtotalCents <= 0 || rateBps <= 0 {
		return 0
	}
	whole := subtotalCents / 10000 * rateBps
	rest := (subtotalCents%10000*rateBps + 5000) / 10000
	return whole + rest
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber returns "ORD-YYYYMMDD-XXXXXX" for the UTC date of now.
// The suffix has 36^6 values per day; collisions are possible and are
// caught by the unique index, not retried.
func NewOrderNumber(now time.Time, random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	buf := make([]byte, 6)
	suffix := make([]byte, 0, 6)
	// Rejection sampling keeps the distribution uniform.
	limit := byte(256 - 256%len(orderNumberAlphabet))
	for len(suffix) < 6 {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", fmt.Errorf("order number: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			suffix = append(suffix, orderNumberAlphabet[int(b)%len(orderNumberAlphabet)])
			if len(suffix) == 6 {
				break
			}
		}
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix), nil
}
