package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/Kariqs/tiendeo-api/testutil"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderEvent(t *testing.T, kind models.OrderEventType, storeID string) models.OrderEvent {
	t.Helper()
	payload, err := json.Marshal(models.OrderEventPayload{
		StoreSlug:     "fruver",
		OrderNumber:   "000007",
		Status:        "PENDING",
		Total:         "4000",
		DeliveryType:  "PICKUP",
		CustomerName:  "Ana",
		CustomerPhone: "3001234567",
		ItemCount:     2,
	})
	require.NoError(t, err)
	return models.OrderEvent{
		Base:    models.Base{ID: "evt-1", CreatedAt: time.Now()},
		StoreID: storeID,
		OrderID: "order-1",
		Type:    kind,
		Payload: payload,
	}
}

type fakeSink struct {
	name string
	err  error

	mu        sync.Mutex
	delivered []models.OrderEvent
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Deliver(_ context.Context, event models.OrderEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, event)
	return f.err
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

func TestDispatcherFansOutToEverySink(t *testing.T) {
	ok := &fakeSink{name: "ok"}
	failing := &fakeSink{name: "failing", err: errors.New("boom")}
	d := NewDispatcher(time.Second, ok, failing)

	d.Publish(context.Background(), orderEvent(t, models.EventOrderCreated, "store-1"))
	d.Publish(context.Background(), orderEvent(t, models.EventOrderStatusChanged, "store-1"))
	d.Wait()

	assert.Equal(t, 2, ok.count())
	assert.Equal(t, 2, failing.count())
}

func TestDispatcherWithoutSinks(t *testing.T) {
	d := NewDispatcher(0)
	d.Publish(context.Background(), orderEvent(t, models.EventOrderCreated, "store-1"))
	d.Wait()
}

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByOrder(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &KafkaPublisher{writer: writer}

	event := orderEvent(t, models.EventOrderCreated, "store-1")
	require.NoError(t, publisher.Deliver(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "order-1", string(writer.messages[0].Key))

	var msg KafkaMessage
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &msg))
	assert.Equal(t, "evt-1", msg.EventID)
	assert.Equal(t, models.EventOrderCreated, msg.Type)
	assert.Equal(t, "store-1", msg.StoreID)
	assert.Equal(t, "000007", msg.Payload.OrderNumber)
	assert.True(t, event.CreatedAt.Equal(msg.CreatedAt), "createdAt lets consumers order events")

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestWebhookNotifierPostsEvent(t *testing.T) {
	var (
		gotType string
		gotID   string
		body    map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("X-Event-Type")
		gotID = r.Header.Get("X-Event-Id")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(srv.URL)
	require.NoError(t, notifier.Deliver(context.Background(), orderEvent(t, models.EventOrderCreated, "store-1")))

	assert.Equal(t, "order.created", gotType)
	assert.Equal(t, "evt-1", gotID)
	assert.Equal(t, "order-1", body["orderId"])
	payload, ok := body["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "000007", payload["orderNumber"])
}

func TestWebhookNotifierReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(srv.URL)
	err := notifier.Deliver(context.Background(), orderEvent(t, models.EventOrderCreated, "store-1"))
	assert.ErrorContains(t, err, "status 400")
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func TestMailNotifierEmailsStoreOwner(t *testing.T) {
	db := testutil.NewDB(t)
	store := models.Store{Name: "Fruver La 10", Slug: "fruver", IsActive: true}
	require.NoError(t, db.Create(&store).Error)
	require.NoError(t, db.Create(&models.StoreUser{
		StoreID: store.ID, Email: "owner@fruver.test", Password: "x", Name: "Owner",
		Role: models.StoreUserOwner, IsActive: true,
	}).Error)

	mailer := &fakeMailer{}
	notifier := NewMailNotifier(db, mailer, "../templates/new_order.html", "http://shop.test")

	require.NoError(t, notifier.Deliver(context.Background(), orderEvent(t, models.EventOrderStatusChanged, store.ID)))
	assert.Empty(t, mailer.sent)

	require.NoError(t, notifier.Deliver(context.Background(), orderEvent(t, models.EventOrderCreated, store.ID)))
	sent := mailer.sent
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@fruver.test", sent[0].to)
	assert.Equal(t, "Nuevo pedido #000007", sent[0].subject)
	assert.Contains(t, sent[0].body, "Fruver La 10")
	assert.Contains(t, sent[0].body, "http://shop.test/fruver/admin/orders")
}

func TestMailNotifierSkipsStoreWithoutActiveOwner(t *testing.T) {
	db := testutil.NewDB(t)
	store := models.Store{Name: "Sin dueño", Slug: "sin-dueno", IsActive: true}
	require.NoError(t, db.Create(&store).Error)

	mailer := &fakeMailer{}
	notifier := NewMailNotifier(db, mailer, "../templates/new_order.html", "http://shop.test")
	require.NoError(t, notifier.Deliver(context.Background(), orderEvent(t, models.EventOrderCreated, store.ID)))
	assert.Empty(t, mailer.sent)
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, nil
}

func TestSESMailerBuildsMessage(t *testing.T) {
	client := &fakeSES{}
	mailer := &SESMailer{client: client, from: "pedidos@tiendeo.com"}

	require.NoError(t, mailer.Send(context.Background(), "owner@fruver.test", "Nuevo pedido #000007", "<p>hola</p>"))
	require.NotNil(t, client.input)
	assert.Equal(t, "pedidos@tiendeo.com", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"owner@fruver.test"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Nuevo pedido #000007", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hola</p>", aws.ToString(client.input.Message.Body.Html.Data))

	assert.Error(t, mailer.Send(context.Background(), "", "s", "b"))
}
