package models

import (
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderReady      OrderStatus = "READY"
	OrderDelivering OrderStatus = "DELIVERING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderReady, OrderDelivering, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "PICKUP"
	DeliveryDelivery DeliveryType = "DELIVERY"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryPickup || d == DeliveryDelivery
}

type ItemStatus string

const (
	ItemPending     ItemStatus = "PENDING"
	ItemReady       ItemStatus = "READY"
	ItemUnavailable ItemStatus = "UNAVAILABLE"
)

func (s ItemStatus) Valid() bool {
	return s == ItemPending || s == ItemReady || s == ItemUnavailable
}

type Order struct {
	Base
	StoreID      string          `json:"storeId" gorm:"size:36;not null;uniqueIndex:idx_store_order_number;index:idx_store_status"`
	Store        *Store          `json:"store,omitempty"`
	CustomerID   string          `json:"customerId" gorm:"size:36;not null;index"`
	Customer     Customer        `json:"customer"`
	OrderNumber  string          `json:"orderNumber" gorm:"size:12;not null;uniqueIndex:idx_store_order_number"`
	Status       OrderStatus     `json:"status" gorm:"size:20;not null;index:idx_store_status"`
	DeliveryType DeliveryType    `json:"deliveryType" gorm:"size:20;not null"`
	Notes        string          `json:"notes"`
	Total        decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	AccessToken  string          `json:"-" gorm:"size:64;not null;index"`
	Items        []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	Base
	OrderID           string           `json:"orderId" gorm:"size:36;not null;index"`
	StoreProductID    string           `json:"storeProductId" gorm:"size:36;not null"`
	StoreProduct      *StoreProduct    `json:"storeProduct,omitempty"`
	MeasurementUnitID string           `json:"measurementUnitId" gorm:"size:36;not null"`
	MeasurementUnit   *MeasurementUnit `json:"measurementUnit,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity" gorm:"type:decimal(10,3);not null"`
	Price             decimal.Decimal  `json:"price" gorm:"type:decimal(14,2);not null"`
	Subtotal          decimal.Decimal  `json:"subtotal" gorm:"type:decimal(14,2);not null"`
	ItemStatus        ItemStatus       `json:"itemStatus" gorm:"size:20;not null"`
}
