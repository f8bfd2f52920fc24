package services

import (
	"testing"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/Kariqs/tiendeo-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	store    models.Store
	kilo     models.MeasurementUnit
	unit     models.MeasurementUnit
	apples   models.StoreProduct
	bread    models.StoreProduct
	staff    AuthContext
	admin    AuthContext
	orders   *OrderService
	password string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{db: db, password: "secret123", orders: NewOrderService(db, nil, nil)}

	f.kilo = models.MeasurementUnit{Name: "Kilogramo", Abbreviation: "kg", Type: models.MeasurementWeight, ConversionFactor: decimal.NewFromInt(1000)}
	f.unit = models.MeasurementUnit{Name: "Unidad", Abbreviation: "un", Type: models.MeasurementUnitCount, ConversionFactor: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(&f.kilo).Error)
	require.NoError(t, db.Create(&f.unit).Error)

	category := models.MasterCategory{Name: "Frutas", Slug: "frutas"}
	require.NoError(t, db.Create(&category).Error)

	f.store, f.staff = createStore(t, db, "fruver", f.password)
	f.apples = addProduct(t, db, f.store, category, f.kilo, "Manzana", 1000, "0.5", true)
	f.bread = addProduct(t, db, f.store, category, f.unit, "Pan", 2000, "", true)

	admin := models.User{Name: "Super Admin", Email: "admin@tiendeo.com", Password: mustHash(t, "admin123")}
	require.NoError(t, db.Create(&admin).Error)
	f.admin = AuthContext{UserID: admin.ID, Email: admin.Email, Role: RoleSuperadmin}
	return f
}

func createStore(t *testing.T, db *gorm.DB, slug, password string) (models.Store, AuthContext) {
	t.Helper()
	store := models.Store{Name: "Tienda " + slug, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(&store).Error)

	owner := models.StoreUser{
		StoreID:  store.ID,
		Email:    "owner@" + slug + ".test",
		Password: mustHash(t, password),
		Name:     "Owner",
		Role:     models.StoreUserOwner,
		IsActive: true,
	}
	require.NoError(t, db.Create(&owner).Error)

	return store, AuthContext{
		UserID:    owner.ID,
		Email:     owner.Email,
		Role:      RoleStoreOwner,
		StoreID:   store.ID,
		StoreSlug: store.Slug,
	}
}

func addProduct(t *testing.T, db *gorm.DB, store models.Store, category models.MasterCategory, unit models.MeasurementUnit, name string, price int64, minQty string, available bool) models.StoreProduct {
	t.Helper()
	master := models.MasterProduct{CategoryID: category.ID, Name: name, IsActive: true}
	require.NoError(t, db.Create(&master).Error)

	if minQty != "" {
		require.NoError(t, db.Create(&models.ProductMeasurement{
			MasterProductID:   master.ID,
			MeasurementUnitID: unit.ID,
			MinQuantity:       decimal.RequireFromString(minQty),
			StepQuantity:      decimal.RequireFromString(minQty),
		}).Error)
	}

	product := models.StoreProduct{StoreID: store.ID, MasterProductID: master.ID, IsAvailable: available}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&models.StoreProductPrice{
		StoreProductID:    product.ID,
		MeasurementUnitID: unit.ID,
		Price:             decimal.NewFromInt(price),
		IsActive:          true,
	}).Error)
	return product
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	return hashed
}

// orderInput is two apples-per-kilo at 1000 and one bread at 2000.
func (f *fixture) orderInput(delivery models.DeliveryType) CreateOrderInput {
	return CreateOrderInput{
		Customer:     CustomerInput{Name: "Ana", Phone: "3001234567", Address: "Calle 1 # 2-3"},
		DeliveryType: delivery,
		Items: []OrderItemInput{
			{StoreProductID: f.apples.ID, MeasurementUnitID: f.kilo.ID, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(1000)},
			{StoreProductID: f.bread.ID, MeasurementUnitID: f.unit.ID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(2000)},
		},
	}
}

func (f *fixture) placeOrder(t *testing.T, delivery models.DeliveryType) (*CreateOrderResult, models.Order) {
	t.Helper()
	res, err := f.orders.Create(t.Context(), f.store.Slug, f.orderInput(delivery))
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, f.db.Preload("Items").Where("store_id = ? AND order_number = ?", f.store.ID, res.OrderNumber).First(&order).Error)
	return res, order
}

func (f *fixture) itemFor(order models.Order, productID string) models.OrderItem {
	for _, item := range order.Items {
		if item.StoreProductID == productID {
			return item
		}
	}
	return models.OrderItem{}
}

func (f *fixture) storedTotal(t *testing.T, orderID string) decimal.Decimal {
	t.Helper()
	var order models.Order
	require.NoError(t, f.db.First(&order, "id = ?", orderID).Error)
	return order.Total
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
