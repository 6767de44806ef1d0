package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/cache"
	"github.com/shashiranjanraj/storehub/pkg/logger"
	"github.com/shashiranjanraj/storehub/pkg/metrics"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
)

// AdminOrderLine is one operator-entered line. The operator sets the price.
type AdminOrderLine struct {
	ProductID      string `json:"productId"      validate:"required"`
	Quantity       int64  `json:"quantity"       validate:"gte=1,lte=100000"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"gte=0"`
	Title          string `json:"title"          validate:"omitempty,max=255"`
	SKU            string `json:"sku"            validate:"omitempty,max=100"`
}

// AdminOrderInput is a back-office order. StoreID is honoured only for
// SUPER_ADMIN. SubtotalCents and TotalCents are optional cross-checks.
type AdminOrderInput struct {
	StoreID         string               `json:"storeId"`
	CustomerName    string               `json:"customerName"    validate:"required,max=255"`
	CustomerEmail   string               `json:"customerEmail"   validate:"omitempty,email"`
	CustomerPhone   string               `json:"customerPhone"   validate:"omitempty,max=64"`
	ShippingAddress string               `json:"shippingAddress"`
	City            string               `json:"city"            validate:"omitempty,max=128"`
	Notes           string               `json:"notes"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"   validate:"omitempty,oneof=COD CASH CARD BANK_TRANSFER"`
	Status          models.OrderStatus   `json:"status"          validate:"omitempty,oneof=PENDING PAID"`
	DeliveryCents   int64                `json:"deliveryCents"   validate:"gte=0"`
	TaxCents        int64                `json:"taxCents"        validate:"gte=0"`
	SubtotalCents   int64                `json:"subtotalCents"   validate:"gte=0"`
	TotalCents      int64                `json:"totalCents"      validate:"gte=0"`
	Items           []AdminOrderLine     `json:"items"           validate:"required,min=1,dive"`
}

// StorefrontOrderLine names a product and a quantity. Nothing else from the
// shopper is trusted.
type StorefrontOrderLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity"  validate:"gte=1,lte=1000"`
}

// StorefrontOrderInput is an anonymous checkout.
type StorefrontOrderInput struct {
	CustomerName    string                `json:"customerName"    validate:"required,max=255"`
	CustomerEmail   string                `json:"customerEmail"   validate:"omitempty,email"`
	CustomerPhone   string                `json:"customerPhone"   validate:"required,max=64"`
	ShippingAddress string                `json:"shippingAddress" validate:"required"`
	City            string                `json:"city"            validate:"omitempty,max=128"`
	Notes           string                `json:"notes"`
	Items           []StorefrontOrderLine `json:"items"           validate:"required,min=1,max=100,dive"`
}

// OrderQuery filters the back-office order listing.
type OrderQuery struct {
	StoreID string
	Status  models.OrderStatus
	repositories.Page
}

// TrackingItem is an order line as shown to the public.
type TrackingItem struct {
	ProductTitle    string `json:"productTitle"`
	ProductSKU      string `json:"productSku"`
	ProductImageURL string `json:"productImageUrl"`
	Quantity        int64  `json:"quantity"`
	UnitPriceCents  int64  `json:"unitPriceCents"`
	LineTotalCents  int64  `json:"lineTotalCents"`
}

// TrackingView is what anyone holding an order number may see. It carries no
// customer contact data.
type TrackingView struct {
	OrderNumber   string               `json:"orderNumber"`
	Status        models.OrderStatus   `json:"status"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	SubtotalCents int64                `json:"subtotalCents"`
	DeliveryCents int64                `json:"deliveryCents"`
	TaxCents      int64                `json:"taxCents"`
	TotalCents    int64                `json:"totalCents"`
	Currency      string               `json:"currency"`
	Items         []TrackingItem       `json:"items"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// OrderOption customises an OrderService.
type OrderOption func(*OrderService)

// WithClock replaces time.Now, for deterministic order numbers.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

// WithRandom replaces the order-number entropy source.
func WithRandom(r io.Reader) OrderOption {
	return func(s *OrderService) { s.random = r }
}

// WithTrackingCache caches public tracking views for ttl.
func WithTrackingCache(c cache.Store, ttl time.Duration) OrderOption {
	return func(s *OrderService) {
		s.cache = c
		s.trackingTTL = ttl
	}
}

type OrderService struct {
	repos       *repositories.Repos
	cache       cache.Store
	trackingTTL time.Duration
	now         func() time.Time
	random      io.Reader
}

func NewOrderService(repos *repositories.Repos, opts ...OrderOption) *OrderService {
	s := &OrderService{repos: repos, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAdmin records an order entered by a back-office operator.
func (s *OrderService) CreateAdmin(ctx context.Context, ac rbac.AuthContext, in AdminOrderInput) (*models.Order, error) {
	storeID, err := rbac.CreationTenant(ac, in.StoreID)
	if err != nil {
		return nil, err
	}
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.OrderPending
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = models.PaymentCash
	}

	order := &models.Order{
		StoreID:         storeID,
		Status:          status,
		PaymentMethod:   payment,
		Channel:         models.ChannelAdmin,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		ShippingAddress: in.ShippingAddress,
		City:            in.City,
		Notes:           in.Notes,
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		store, err := loadStore(ctx, tx, storeID)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(in.Items))
		for _, line := range in.Items {
			ids = append(ids, line.ProductID)
		}
		products, err := loadProducts(ctx, tx, ids)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			p := products[strings.TrimSpace(line.ProductID)]
			if p.StoreID != storeID {
				return apperr.New(apperr.Validation, "Every product must belong to the order's store")
			}
			item := snapshot(p, line.Quantity, line.UnitPriceCents)
			if t := strings.TrimSpace(line.Title); t != "" {
				item.ProductTitle = t
			}
			if sku := strings.TrimSpace(line.SKU); sku != "" {
				item.ProductSKU = sku
			}
			items = append(items, item)
		}

		totals, err := PriceItems(items, in.DeliveryCents, in.TaxCents)
		if err != nil {
			return err
		}
		if in.SubtotalCents != 0 && in.SubtotalCents != totals.SubtotalCents {
			return apperr.Newf(apperr.Validation, "Subtotal %d does not match the items (%d)", in.SubtotalCents, totals.SubtotalCents)
		}
		if in.TotalCents != 0 && in.TotalCents != totals.TotalCents {
			return apperr.Newf(apperr.Validation, "Total %d does not match subtotal + delivery + tax (%d)", in.TotalCents, totals.TotalCents)
		}

		order.Currency = store.Currency
		order.Items = items
		return s.persist(ctx, tx, order, totals)
	})
	if err != nil {
		return nil, err
	}

	s.created(ctx, order, ac.UserID())
	return order, nil
}

// CreateStorefront records an anonymous checkout. Prices, tenant and currency
// all come from the catalogue.
func (s *OrderService) CreateStorefront(ctx context.Context, in StorefrontOrderInput) (*models.Order, error) {
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}

	order := &models.Order{
		Status:          models.OrderPending,
		PaymentMethod:   models.PaymentCOD,
		Channel:         models.ChannelStorefront,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		ShippingAddress: in.ShippingAddress,
		City:            in.City,
		Notes:           in.Notes,
	}

	err := s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		ids := make([]string, 0, len(in.Items))
		for _, line := range in.Items {
			ids = append(ids, line.ProductID)
		}
		products, err := loadProducts(ctx, tx, ids)
		if err != nil {
			return err
		}

		var storeID, currency string
		for _, p := range products {
			if storeID == "" {
				storeID, currency = p.StoreID, p.Currency
				continue
			}
			if p.StoreID != storeID {
				return apperr.New(apperr.Validation, "An order cannot contain products from different stores")
			}
			if p.Currency != currency {
				return apperr.New(apperr.Validation, "An order cannot mix currencies")
			}
		}

		items := make([]models.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			p := products[strings.TrimSpace(line.ProductID)]
			if !p.Active {
				return apperr.Newf(apperr.Validation, "Product %q is not available", p.Title)
			}
			items = append(items, snapshot(p, line.Quantity, p.PriceCents))
		}

		store, err := loadStore(ctx, tx, storeID)
		if err != nil {
			return err
		}
		subtotal, err := PriceItems(items, 0, 0)
		if err != nil {
			return err
		}
		totals, err := PriceItems(items, store.DeliveryFeeCents, TaxCents(subtotal.SubtotalCents, store.TaxRateBps))
		if err != nil {
			return err
		}

		order.StoreID = storeID
		order.Currency = currency
		order.Items = items
		return s.persist(ctx, tx, order, totals)
	})
	if err != nil {
		return nil, err
	}

	s.created(ctx, order, "")
	return order, nil
}

func (s *OrderService) persist(ctx context.Context, tx *repositories.Repos, order *models.Order, totals Totals) error {
	number, err := NewOrderNumber(s.now(), s.random)
	if err != nil {
		return apperr.Wrap(apperr.Unexpected, err, "could not generate order number")
	}
	order.OrderNumber = number
	order.SubtotalCents = totals.SubtotalCents
	order.DeliveryCents = totals.DeliveryCents
	order.TaxCents = totals.TaxCents
	order.TotalCents = totals.TotalCents

	if err := tx.Orders.Create(ctx, order); err != nil {
		return apperr.Wrap(apperr.Unexpected, err, "could not save order")
	}
	return nil
}

func (s *OrderService) created(ctx context.Context, order *models.Order, userID string) {
	metrics.OrdersCreated.WithLabelValues(string(order.Channel)).Inc()
	logger.WithCtx(ctx).Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"store_id", order.StoreID,
		"channel", order.Channel,
		"total_cents", order.TotalCents,
		"user_id", userID,
	)
}

// loadProducts fetches every distinct id and fails if any is missing.
func loadProducts(ctx context.Context, repos *repositories.Repos, ids []string) (map[string]models.Product, error) {
	distinct := dedupe(ids)
	if len(distinct) == 0 {
		return nil, apperr.New(apperr.Validation, "An order needs at least one item")
	}
	list, err := repos.Products.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	if len(list) != len(distinct) {
		return nil, apperr.New(apperr.Validation, "One or more products no longer exist")
	}
	byID := make(map[string]models.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}
	return byID, nil
}

func snapshot(p models.Product, quantity, unitPriceCents int64) models.OrderItem {
	id := p.ID
	return models.OrderItem{
		ProductID:       &id,
		Quantity:        quantity,
		UnitPriceCents:  unitPriceCents,
		ProductTitle:    p.Title,
		ProductSKU:      p.SKU,
		ProductImageURL: p.ImageURL,
	}
}

// List is the back-office order listing, scoped to the caller's tenant.
func (s *OrderService) List(ctx context.Context, ac rbac.AuthContext, q OrderQuery) ([]models.Order, int64, error) {
	tenant, err := rbac.ListingTenant(ac, q.StoreID)
	if err != nil {
		return nil, 0, err
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, 0, apperr.Newf(apperr.Validation, "Unknown order status %q", q.Status)
	}
	list, total, err := s.repos.Orders.List(ctx, repositories.OrderFilter{StoreID: tenant, Status: q.Status, Page: q.Page})
	if err != nil {
		return nil, 0, storeErr(err, "Order")
	}
	return list, total, nil
}

// Get returns one order the caller may manage.
func (s *OrderService) Get(ctx context.Context, ac rbac.AuthContext, id string) (*models.Order, error) {
	return s.load(ctx, s.repos, ac, id)
}

func (s *OrderService) load(ctx context.Context, repos *repositories.Repos, ac rbac.AuthContext, id string) (*models.Order, error) {
	if err := rbac.RequireAdmin(ac); err != nil {
		return nil, err
	}
	order, err := repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order")
	}
	if err := rbac.AuthorizeResource(ac, order.StoreID); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, ac rbac.AuthContext, id string, next models.OrderStatus) (*models.Order, error) {
	var order *models.Order
	err := s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		var err error
		order, err = s.load(ctx, tx, ac, id)
		if err != nil {
			return err
		}
		if !next.Valid() {
			return apperr.Newf(apperr.Validation, "Unknown order status %q", next)
		}
		if !order.Status.CanTransitionTo(next) {
			return apperr.Newf(apperr.Validation, "Cannot change order status from %s to %s", order.Status, next)
		}

		changed, err := tx.Orders.UpdateStatus(ctx, order.ID, order.Status, next)
		if err != nil {
			return storeErr(err, "Order")
		}
		if !changed {
			return apperr.New(apperr.Conflict, "Order was modified concurrently, reload and retry")
		}
		order, err = tx.Orders.GetByID(ctx, order.ID)
		return storeErr(err, "Order")
	})
	if err != nil {
		return nil, err
	}

	s.forgetTracking(ctx, order.OrderNumber)
	logger.WithCtx(ctx).Info("order status changed",
		"order_id", order.ID,
		"status", order.Status,
		"user_id", ac.UserID(),
	)
	return order, nil
}

func trackingKey(number string) string { return "orders:track:" + number }

// Track looks an order up by its public number. No principal is needed.
func (s *OrderService) Track(ctx context.Context, number string) (*TrackingView, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}

	var view TrackingView
	if s.cache != nil && s.cache.Get(ctx, trackingKey(number), &view) {
		return &view, nil
	}

	order, err := s.repos.Orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, storeErr(err, "Order")
	}
	view = toTrackingView(order)

	if s.cache != nil && s.trackingTTL > 0 {
		if err := s.cache.Set(ctx, trackingKey(number), view, s.trackingTTL); err != nil {
			logger.WithCtx(ctx).Warn("tracking cache write failed", "order_number", number, "error", err.Error())
		}
	}
	return &view, nil
}

func (s *OrderService) forgetTracking(ctx context.Context, number string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, trackingKey(number)); err != nil {
		logger.WithCtx(ctx).Warn("tracking cache invalidation failed", "order_number", number, "error", err.Error())
	}
}

func toTrackingView(o *models.Order) TrackingView {
	items := make([]TrackingItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, TrackingItem{
			ProductTitle:    it.ProductTitle,
			ProductSKU:      it.ProductSKU,
			ProductImageURL: it.ProductImageURL,
			Quantity:        it.Quantity,
			UnitPriceCents:  it.UnitPriceCents,
			LineTotalCents:  it.LineTotalCents,
		})
	}
	return TrackingView{
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		SubtotalCents: o.SubtotalCents,
		DeliveryCents: o.DeliveryCents,
		TaxCents:      o.TaxCents,
		TotalCents:    o.TotalCents,
		Currency:      o.Currency,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
