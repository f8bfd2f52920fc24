package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/Kariqs/tiendeo-api/utils"
	"gorm.io/gorm"
)

// Mailer delivers one rendered HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailNotifier emails the store owner when a new order arrives. Other event types are ignored.
type MailNotifier struct {
	db           *gorm.DB
	mailer       Mailer
	templatePath string
	frontendURL  string
}

func NewMailNotifier(db *gorm.DB, mailer Mailer, templatePath, frontendURL string) *MailNotifier {
	return &MailNotifier{
		db:           db,
		mailer:       mailer,
		templatePath: templatePath,
		frontendURL:  frontendURL,
	}
}

func (m *MailNotifier) Name() string { return "mail" }

func (m *MailNotifier) Deliver(ctx context.Context, event models.OrderEvent) error {
	if event.Type != models.EventOrderCreated {
		return nil
	}
	payload, err := event.DecodePayload()
	if err != nil {
		return err
	}

	var store models.Store
	if err := m.db.WithContext(ctx).First(&store, "id = ?", event.StoreID).Error; err != nil {
		return fmt.Errorf("loading store: %w", err)
	}
	var owner models.StoreUser
	err = m.db.WithContext(ctx).
		Where("store_id = ? AND role = ? AND is_active = ?", store.ID, models.StoreUserOwner, true).
		First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading store owner: %w", err)
	}

	body, err := utils.RenderEmail(m.templatePath, utils.OrderEmailData{
		StoreName:    store.Name,
		OrderNumber:  payload.OrderNumber,
		CustomerName: payload.CustomerName,
		Phone:        payload.CustomerPhone,
		DeliveryType: payload.DeliveryType,
		Total:        payload.Total,
		Items:        payload.ItemCount,
		AdminURL:     fmt.Sprintf("%s/%s/admin/orders", m.frontendURL, store.Slug),
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Nuevo pedido #%s", payload.OrderNumber)
	return m.mailer.Send(ctx, owner.Email, subject, body)
}
