package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order.created"
	EventOrderStatusChanged OrderEventType = "order.status_changed"
	EventItemStatusChanged  OrderEventType = "order.item_status_changed"
)

// OrderEvent is appended in the same transaction as the mutation it records.
type OrderEvent struct {
	Base
	StoreID string         `json:"storeId" gorm:"size:36;not null;index"`
	OrderID string         `json:"orderId" gorm:"size:36;not null;index"`
	Type    OrderEventType `json:"type" gorm:"size:40;not null"`
	Payload datatypes.JSON `json:"payload"`
}

type OrderEventPayload struct {
	StoreSlug      string `json:"storeSlug"`
	OrderNumber    string `json:"orderNumber"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus,omitempty"`
	ItemID         string `json:"itemId,omitempty"`
	ItemStatus     string `json:"itemStatus,omitempty"`
	PreviousItem   string `json:"previousItemStatus,omitempty"`
	Total          string `json:"total"`
	DeliveryType   string `json:"deliveryType,omitempty"`
	CustomerName   string `json:"customerName,omitempty"`
	CustomerPhone  string `json:"customerPhone,omitempty"`
	ItemCount      int    `json:"itemCount,omitempty"`
}

func (e OrderEvent) DecodePayload() (OrderEventPayload, error) {
	var p OrderEventPayload
	err := json.Unmarshal(e.Payload, &p)
	return p, err
}
