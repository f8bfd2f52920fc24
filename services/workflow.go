package services

import "github.com/Kariqs/tiendeo-api/models"

var itemTransitions = map[models.ItemStatus][]models.ItemStatus{
	models.ItemPending:     {models.ItemReady, models.ItemUnavailable},
	models.ItemUnavailable: {models.ItemPending},
}

// CheckItemTransition reports whether an item may move from one status to
// another. Re-applying the current status is accepted as a no-op.
func CheckItemTransition(from, to models.ItemStatus) (changed bool, err error) {
	if !to.Valid() {
		return false, validationError("invalid item status %q", to)
	}
	if from == to {
		return false, nil
	}
	for _, next := range itemTransitions[from] {
		if next == to {
			return true, nil
		}
	}
	if from == models.ItemReady {
		return false, preconditionFailed("a ready item cannot be changed to %s", to)
	}
	return false, preconditionFailed("item cannot move from %s to %s", from, to)
}

// OrderSnapshot is the state the order status guards look at.
type OrderSnapshot struct {
	Status       models.OrderStatus
	DeliveryType models.DeliveryType
	PendingItems int64
}

// CheckOrderTransition applies the fulfillment guards to a requested order
// status change. Re-applying the current status is accepted as a no-op.
func CheckOrderTransition(order OrderSnapshot, to models.OrderStatus) (changed bool, err error) {
	if !to.Valid() {
		return false, validationError("invalid order status %q", to)
	}
	if order.Status == to {
		return false, nil
	}
	if order.Status.Terminal() {
		return false, preconditionFailed("order is already %s", order.Status)
	}
	if to == models.OrderCancelled {
		return true, nil
	}

	switch {
	case order.Status == models.OrderPending && to == models.OrderReady:
		if order.PendingItems > 0 {
			return false, preconditionFailed("mark all products first: %d still pending", order.PendingItems)
		}
		return true, nil
	case order.Status == models.OrderReady && to == models.OrderDelivering:
		if order.DeliveryType != models.DeliveryDelivery {
			return false, preconditionFailed("pickup orders are completed directly from READY")
		}
		return true, nil
	case order.Status == models.OrderReady && to == models.OrderCompleted:
		if order.DeliveryType != models.DeliveryPickup {
			return false, preconditionFailed("delivery orders must go through DELIVERING first")
		}
		return true, nil
	case order.Status == models.OrderDelivering && to == models.OrderCompleted:
		return true, nil
	}
	return false, preconditionFailed("order cannot move from %s to %s", order.Status, to)
}
