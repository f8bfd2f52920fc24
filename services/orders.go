package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kariqs/tiendeo-api/metrics"
	"github.com/Kariqs/tiendeo-api/models"
	"github.com/Kariqs/tiendeo-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Matches the decimal(10,3) quantity column.
const maxQuantityScale = 3

// EventPublisher receives order events after the transaction that recorded them commits.
type EventPublisher interface {
	Publish(ctx context.Context, event models.OrderEvent)
}

type CustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderItemInput struct {
	StoreProductID    string          `json:"storeProductId"`
	MeasurementUnitID string          `json:"measurementUnitId"`
	Quantity          decimal.Decimal `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
}

type CreateOrderInput struct {
	Customer     CustomerInput       `json:"customer"`
	DeliveryType models.DeliveryType `json:"deliveryType"`
	Notes        string              `json:"notes"`
	Items        []OrderItemInput    `json:"items"`
}

type CreateOrderResult struct {
	OrderNumber string          `json:"orderNumber"`
	AccessToken string          `json:"accessToken"`
	Total       decimal.Decimal `json:"total"`
}

// ItemUpdateResult is the updated item with the recomputed order total alongside.
type ItemUpdateResult struct {
	models.OrderItem
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

type OrderFilter struct {
	StoreID string
	Status  string
	Page    int
	Limit   int
}

type OrderStats struct {
	TotalOrders     int64           `json:"totalOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	PendingOrders   int64           `json:"pendingOrders"`
	CompletedOrders int64           `json:"completedOrders"`
}

type OrderService struct {
	db        *gorm.DB
	publisher EventPublisher
	metrics   *metrics.OrderMetrics
}

func NewOrderService(db *gorm.DB, publisher EventPublisher, m *metrics.OrderMetrics) *OrderService {
	return &OrderService{db: db, publisher: publisher, metrics: m}
}

func (s *OrderService) Create(ctx context.Context, storeSlug string, input CreateOrderInput) (*CreateOrderResult, error) {
	store, err := findStoreBySlug(s.db.WithContext(ctx), storeSlug, true)
	if err != nil {
		return nil, err
	}
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	accessToken, err := utils.GenerateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	var order models.Order
	var event models.OrderEvent
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, total, err := priceItems(tx, store.ID, input.Items)
		if err != nil {
			return err
		}

		customer, err := upsertCustomer(tx, store.ID, input.Customer)
		if err != nil {
			return err
		}

		seq, err := nextOrderNumber(tx, store.ID)
		if err != nil {
			return err
		}

		order = models.Order{
			StoreID:      store.ID,
			CustomerID:   customer.ID,
			OrderNumber:  utils.FormatOrderNumber(seq),
			Status:       models.OrderPending,
			DeliveryType: input.DeliveryType,
			Notes:        strings.TrimSpace(input.Notes),
			Total:        total,
			AccessToken:  accessToken,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return dbError("order", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&items, 100).Error; err != nil {
			return fmt.Errorf("creating order items: %w", err)
		}
		order.Items = items
		order.Customer = *customer

		event, err = recordEvent(tx, models.EventOrderCreated, store, &order, models.OrderEventPayload{
			DeliveryType:  string(order.DeliveryType),
			CustomerName:  customer.Name,
			CustomerPhone: customer.Phone,
			ItemCount:     len(items),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order created", "store", store.Slug, "order_number", order.OrderNumber, "total", order.Total.String())
	s.metrics.OrderCreated(store.Slug, string(order.DeliveryType), order.Total)
	s.publish(ctx, event)

	return &CreateOrderResult{
		OrderNumber: order.OrderNumber,
		AccessToken: order.AccessToken,
		Total:       order.Total,
	}, nil
}

// GetForCustomer returns an order only when the access token matches. A
// missing token, a wrong token and an unknown order number all yield ErrNotFound.
func (s *OrderService) GetForCustomer(ctx context.Context, storeSlug, orderNumber, token string) (*models.Order, error) {
	if token == "" {
		return nil, notFound("order")
	}
	db := s.db.WithContext(ctx)

	store, err := findStoreBySlug(db, storeSlug, true)
	if err != nil {
		return nil, notFound("order")
	}

	var order models.Order
	err = withOrderDetails(db).
		Where("store_id = ? AND order_number = ?", store.ID, orderNumber).
		First(&order).Error
	if err != nil {
		return nil, dbError("order", err)
	}
	if subtle.ConstantTimeCompare([]byte(order.AccessToken), []byte(token)) != 1 {
		return nil, notFound("order")
	}
	return &order, nil
}

func (s *OrderService) ListForStore(ctx context.Context, auth AuthContext, storeSlug, status string) ([]models.Order, error) {
	db := s.db.WithContext(ctx)
	store, err := findStoreBySlug(db, storeSlug, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeStaff(db, auth, store); err != nil {
		return nil, err
	}

	query := withOrderDetails(db).Where("store_id = ?", store.ID)
	query, err = filterByStatus(query, status)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// UpdateItemStatus moves one order item through its fulfillment states and
// recomputes the order total in the same transaction.
func (s *OrderService) UpdateItemStatus(ctx context.Context, auth AuthContext, storeSlug, orderNumber, itemID, status string) (*ItemUpdateResult, error) {
	db := s.db.WithContext(ctx)
	store, err := findStoreBySlug(db, storeSlug, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeStaff(db, auth, store); err != nil {
		return nil, err
	}
	target := models.ItemStatus(status)
	if !target.Valid() {
		return nil, validationError("invalid item status %q", status)
	}

	var result ItemUpdateResult
	var previous models.ItemStatus
	var changed bool
	var event models.OrderEvent
	err = db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, store.ID, orderNumber)
		if err != nil {
			return dbError("order item", err)
		}

		var item models.OrderItem
		if err := tx.Where("id = ? AND order_id = ?", itemID, order.ID).First(&item).Error; err != nil {
			return dbError("order item", err)
		}
		previous = item.ItemStatus

		if order.Status.Terminal() {
			return preconditionFailed("order is already %s", order.Status)
		}
		changed, err = CheckItemTransition(item.ItemStatus, target)
		if err != nil {
			return err
		}

		if changed {
			res := tx.Model(&models.OrderItem{}).
				Where("id = ? AND item_status = ?", item.ID, item.ItemStatus).
				Update("item_status", target)
			if res.Error != nil {
				return fmt.Errorf("updating item status: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return conflict("item was changed by another request, reload the order")
			}
		}

		total, err := recalculateTotal(tx, order.ID)
		if err != nil {
			return err
		}
		order.Total = total

		if err := tx.Preload("StoreProduct.MasterProduct").Preload("MeasurementUnit").
			First(&result.OrderItem, "id = ?", item.ID).Error; err != nil {
			return dbError("order item", err)
		}
		result.OrderTotal = total

		if changed {
			event, err = recordEvent(tx, models.EventItemStatusChanged, store, order, models.OrderEventPayload{
				ItemID:       item.ID,
				ItemStatus:   string(target),
				PreviousItem: string(previous),
			})
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPrecondition) {
			s.metrics.TransitionRejected(store.Slug, "item")
		}
		return nil, err
	}

	if changed {
		slog.Info("order item updated", "store", store.Slug, "order_number", orderNumber, "item_id", itemID, "from", previous, "to", target)
		s.metrics.ItemTransition(store.Slug, string(previous), string(target))
		s.publish(ctx, event)
	}
	return &result, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, auth AuthContext, storeSlug, orderNumber, status string) (*models.Order, error) {
	db := s.db.WithContext(ctx)
	store, err := findStoreBySlug(db, storeSlug, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeStaff(db, auth, store); err != nil {
		return nil, err
	}
	target := models.OrderStatus(status)
	if !target.Valid() {
		return nil, validationError("invalid order status %q", status)
	}

	var order models.Order
	var previous models.OrderStatus
	var changed bool
	var event models.OrderEvent
	err = db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockOrder(tx, store.ID, orderNumber)
		if err != nil {
			return dbError("order", err)
		}
		order = *locked
		previous = order.Status

		var pending int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND item_status = ?", order.ID, models.ItemPending).
			Count(&pending).Error; err != nil {
			return fmt.Errorf("counting pending items: %w", err)
		}

		changed, err = CheckOrderTransition(OrderSnapshot{
			Status:       order.Status,
			DeliveryType: order.DeliveryType,
			PendingItems: pending,
		}, target)
		if err != nil {
			return err
		}

		if changed {
			update := tx.Model(&models.Order{}).Where("id = ? AND status = ?", order.ID, order.Status)
			if target == models.OrderReady {
				update = update.Where("NOT EXISTS (?)", tx.Model(&models.OrderItem{}).
					Select("1").
					Where("order_items.order_id = orders.id AND order_items.item_status = ?", models.ItemPending))
			}
			res := update.Update("status", target)
			if res.Error != nil {
				return fmt.Errorf("updating order status: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return conflict("order was changed by another request, reload the order")
			}
			order.Status = target

			event, err = recordEvent(tx, models.EventOrderStatusChanged, store, &order, models.OrderEventPayload{
				PreviousStatus: string(previous),
				DeliveryType:   string(order.DeliveryType),
			})
			if err != nil {
				return err
			}
		}

		return withOrderDetails(tx).First(&order, "id = ?", order.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrPrecondition) {
			s.metrics.TransitionRejected(store.Slug, "order")
		}
		return nil, err
	}

	if changed {
		slog.Info("order status updated", "store", store.Slug, "order_number", orderNumber, "from", previous, "to", target)
		s.metrics.OrderTransition(store.Slug, string(previous), string(target))
		s.publish(ctx, event)
	}
	return &order, nil
}

// ListAll is the superadmin view across stores.
func (s *OrderService) ListAll(ctx context.Context, auth AuthContext, filter OrderFilter) ([]models.Order, int64, error) {
	if err := authorizeSuperadmin(auth); err != nil {
		return nil, 0, err
	}
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Order{})
	if filter.StoreID != "" {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	query, err := filterByStatus(query, filter.Status)
	if err != nil {
		return nil, 0, err
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 15
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var orders []models.Order
	err = withOrderDetails(query).
		Preload("Store").
		Order("created_at desc").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	return orders, count, nil
}

func (s *OrderService) Stats(ctx context.Context, auth AuthContext, storeID string) (*OrderStats, error) {
	if err := authorizeSuperadmin(auth); err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Order{})
		if storeID != "" {
			q = q.Where("store_id = ?", storeID)
		}
		return q
	}

	var stats OrderStats
	if err := base().Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}
	if err := base().Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderReady, models.OrderDelivering}).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("counting open orders: %w", err)
	}
	if err := base().Where("status = ?", models.OrderCompleted).Count(&stats.CompletedOrders).Error; err != nil {
		return nil, fmt.Errorf("counting completed orders: %w", err)
	}

	var revenue struct{ Total decimal.Decimal }
	if err := base().Where("status <> ?", models.OrderCancelled).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("summing revenue: %w", err)
	}
	stats.TotalRevenue = revenue.Total.Round(2)
	return &stats, nil
}

func (s *OrderService) publish(ctx context.Context, event models.OrderEvent) {
	if s.publisher == nil || event.ID == "" {
		return
	}
	s.publisher.Publish(context.WithoutCancel(ctx), event)
}

func validateCreateInput(input *CreateOrderInput) error {
	input.Customer.Name = strings.TrimSpace(input.Customer.Name)
	input.Customer.Phone = strings.TrimSpace(input.Customer.Phone)
	input.Customer.Address = strings.TrimSpace(input.Customer.Address)

	if len(input.Items) == 0 {
		return validationError("order must contain at least one item")
	}
	if input.Customer.Name == "" || input.Customer.Phone == "" {
		return validationError("customer name and phone are required")
	}
	if !input.DeliveryType.Valid() {
		return validationError("invalid delivery type %q", input.DeliveryType)
	}
	if input.DeliveryType == models.DeliveryDelivery && input.Customer.Address == "" {
		return validationError("address is required for delivery orders")
	}
	for i, item := range input.Items {
		if item.StoreProductID == "" || item.MeasurementUnitID == "" {
			return validationError("item %d: product and measurement unit are required", i+1)
		}
		if !item.Quantity.IsPositive() {
			return validationError("item %d: quantity must be greater than zero", i+1)
		}
		if !item.Quantity.Equal(item.Quantity.Round(maxQuantityScale)) {
			return validationError("item %d: quantity allows at most %d decimal places", i+1, maxQuantityScale)
		}
		if !item.Price.IsPositive() {
			return validationError("item %d: price must be greater than zero", i+1)
		}
	}
	return nil
}

// priceItems checks every line against the store catalog and snapshots its subtotal.
func priceItems(tx *gorm.DB, storeID string, inputs []OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	total := decimal.Zero

	for i, in := range inputs {
		var product models.StoreProduct
		err := tx.Preload("MasterProduct").
			Where("id = ? AND store_id = ?", in.StoreProductID, storeID).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, total, validationError("item %d: product is not sold by this store", i+1)
		}
		if err != nil {
			return nil, total, fmt.Errorf("loading store product: %w", err)
		}
		if !product.IsAvailable || !product.MasterProduct.IsActive {
			return nil, total, validationError("item %d: %s is no longer available", i+1, product.MasterProduct.Name)
		}

		var price models.StoreProductPrice
		err = tx.Where("store_product_id = ? AND measurement_unit_id = ? AND is_active = ?", product.ID, in.MeasurementUnitID, true).
			First(&price).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, total, validationError("item %d: %s is not sold in this unit", i+1, product.MasterProduct.Name)
		}
		if err != nil {
			return nil, total, fmt.Errorf("loading product price: %w", err)
		}
		if !price.Price.Equal(in.Price) {
			return nil, total, validationError("item %d: price of %s changed to %s, refresh your cart", i+1, product.MasterProduct.Name, price.Price.StringFixed(2))
		}

		var measurements []models.ProductMeasurement
		if err := tx.Where("master_product_id = ? AND measurement_unit_id = ?", product.MasterProductID, in.MeasurementUnitID).
			Limit(1).Find(&measurements).Error; err != nil {
			return nil, total, fmt.Errorf("loading product measurement: %w", err)
		}
		if len(measurements) == 1 && in.Quantity.LessThan(measurements[0].MinQuantity) {
			return nil, total, validationError("item %d: minimum quantity for %s is %s", i+1, product.MasterProduct.Name, measurements[0].MinQuantity.String())
		}

		subtotal := in.Price.Mul(in.Quantity).Round(2)
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			StoreProductID:    product.ID,
			MeasurementUnitID: in.MeasurementUnitID,
			Quantity:          in.Quantity,
			Price:             in.Price,
			Subtotal:          subtotal,
			ItemStatus:        models.ItemPending,
		})
	}
	return items, total, nil
}

func upsertCustomer(tx *gorm.DB, storeID string, in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Where("store_id = ? AND phone = ?", storeID, in.Phone).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{StoreID: storeID, Name: in.Name, Phone: in.Phone, Address: in.Address}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, dbError("customer", err)
		}
		return &customer, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading customer: %w", err)
	}

	updates := map[string]any{"name": in.Name}
	if in.Address != "" {
		updates["address"] = in.Address
	}
	if err := tx.Model(&customer).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}
	return &customer, nil
}

// nextOrderNumber bumps the per-store counter. The row stays locked until the
// surrounding transaction ends, so concurrent checkouts are serialized.
func nextOrderNumber(tx *gorm.DB, storeID string) (int, error) {
	res := tx.Model(&models.Store{}).
		Where("id = ?", storeID).
		UpdateColumn("last_order_number", gorm.Expr("last_order_number + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("incrementing order counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, notFound("store")
	}

	var counter struct{ LastOrderNumber int }
	if err := tx.Model(&models.Store{}).Select("last_order_number").Where("id = ?", storeID).Scan(&counter).Error; err != nil {
		return 0, fmt.Errorf("reading order counter: %w", err)
	}
	return counter.LastOrderNumber, nil
}

// recalculateTotal sets the order total to the exact decimal sum of its
// available item subtotals. Callers hold the order row lock.
func recalculateTotal(tx *gorm.DB, orderID string) (decimal.Decimal, error) {
	var subtotals []decimal.Decimal
	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND item_status <> ?", orderID, models.ItemUnavailable).
		Pluck("subtotal", &subtotals).Error; err != nil {
		return decimal.Zero, fmt.Errorf("loading item subtotals: %w", err)
	}

	total := decimal.Zero
	for _, subtotal := range subtotals {
		total = total.Add(subtotal.Round(2))
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total", total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("recalculating order total: %w", err)
	}
	return total, nil
}

// lockOrder reads the order with a row lock so item and status changes on the
// same order run one after another. Statements after it see committed item state.
func lockOrder(tx *gorm.DB, storeID, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND order_number = ?", storeID, orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func recordEvent(tx *gorm.DB, kind models.OrderEventType, store *models.Store, order *models.Order, payload models.OrderEventPayload) (models.OrderEvent, error) {
	payload.StoreSlug = store.Slug
	payload.OrderNumber = order.OrderNumber
	payload.Status = string(order.Status)
	payload.Total = order.Total.StringFixed(2)

	raw, err := json.Marshal(payload)
	if err != nil {
		return models.OrderEvent{}, fmt.Errorf("encoding event payload: %w", err)
	}
	event := models.OrderEvent{
		StoreID: store.ID,
		OrderID: order.ID,
		Type:    kind,
		Payload: datatypes.JSON(raw),
	}
	if err := tx.Create(&event).Error; err != nil {
		return models.OrderEvent{}, fmt.Errorf("recording %s event: %w", kind, err)
	}
	return event, nil
}

func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		}).
		Preload("Items.StoreProduct.MasterProduct").
		Preload("Items.MeasurementUnit")
}

func filterByStatus(query *gorm.DB, status string) (*gorm.DB, error) {
	if status == "" || strings.EqualFold(status, "all") {
		return query, nil
	}
	if !models.OrderStatus(status).Valid() {
		return nil, validationError("invalid order status %q", status)
	}
	return query.Where("status = ?", status), nil
}

func findStoreBySlug(db *gorm.DB, slug string, activeOnly bool) (*models.Store, error) {
	var store models.Store
	query := db.Where("slug = ?", slug)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&store).Error; err != nil {
		return nil, dbError("store", err)
	}
	return &store, nil
}
