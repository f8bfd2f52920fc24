package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/go-resty/resty/v2"
)

// WebhookNotifier posts every order event as JSON to a configured URL.
type WebhookNotifier struct {
	url    string
	client *resty.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Deliver(ctx context.Context, event models.OrderEvent) error {
	payload, err := event.DecodePayload()
	if err != nil {
		return err
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Event-Type", string(event.Type)).
		SetHeader("X-Event-Id", event.ID).
		SetBody(map[string]any{
			"id":      event.ID,
			"type":    event.Type,
			"orderId": event.OrderID,
			"storeId": event.StoreID,
			"payload": payload,
		}).
		Post(w.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
