package initializers

import (
	"fmt"
	"log/slog"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedProduct struct {
	name, category, description, unit string
	price                             int64
	minQuantity                       string
}

var seedUnits = []models.MeasurementUnit{
	{Name: "Unidad", Abbreviation: "un", Type: models.MeasurementUnitCount, ConversionFactor: decimal.NewFromInt(1)},
	{Name: "Gramo", Abbreviation: "g", Type: models.MeasurementWeight, ConversionFactor: decimal.NewFromInt(1)},
	{Name: "Libra", Abbreviation: "lb", Type: models.MeasurementWeight, ConversionFactor: decimal.RequireFromString("453.592")},
	{Name: "Kilogramo", Abbreviation: "kg", Type: models.MeasurementWeight, ConversionFactor: decimal.NewFromInt(1000)},
	{Name: "Onza", Abbreviation: "oz", Type: models.MeasurementWeight, ConversionFactor: decimal.RequireFromString("28.3495")},
}

var seedCategories = []models.MasterCategory{
	{Name: "Frutas", Slug: "frutas"},
	{Name: "Verduras", Slug: "verduras"},
	{Name: "Carnes", Slug: "carnes"},
	{Name: "Lácteos", Slug: "lacteos"},
	{Name: "Postres", Slug: "postres"},
	{Name: "Bebidas", Slug: "bebidas"},
	{Name: "Otros", Slug: "otros"},
}

var seedProducts = []seedProduct{
	{"Manzana Roja", "frutas", "Manzanas rojas frescas", "kg", 4500, "0.5"},
	{"Plátano", "frutas", "Plátanos frescos", "kg", 2800, "0.5"},
	{"Tomate", "verduras", "Tomates frescos", "lb", 1900, "1"},
	{"Lechuga", "verduras", "Lechuga fresca", "un", 2200, "1"},
	{"Pollo", "carnes", "Pechuga de pollo fresca", "kg", 16000, "0.5"},
	{"Leche Entera", "lacteos", "Leche entera 1 litro", "un", 3800, "1"},
}

const (
	seedSuperadminEmail = "admin@tiendeo.com"
	seedStoreSlug       = "tienda-prueba"
	seedStoreOwnerEmail = "tendero@tienda-prueba.com"
	seedStoreOwnerPass  = "tendero123"
)

// SeedDatabase creates the platform superadmin, reference catalog data and a
// demo store. It is idempotent.
func SeedDatabase(db *gorm.DB, superadminPassword string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		adminHash, err := bcrypt.GenerateFromPassword([]byte(superadminPassword), 10)
		if err != nil {
			return err
		}
		admin := models.User{Name: "Super Admin", Email: seedSuperadminEmail, Password: string(adminHash)}
		if err := tx.Where(models.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("seeding superadmin: %w", err)
		}

		units := map[string]models.MeasurementUnit{}
		for _, u := range seedUnits {
			unit := u
			if err := tx.Where(models.MeasurementUnit{Name: unit.Name}).FirstOrCreate(&unit).Error; err != nil {
				return fmt.Errorf("seeding measurement unit %s: %w", u.Name, err)
			}
			units[unit.Abbreviation] = unit
		}

		categories := map[string]models.MasterCategory{}
		for _, c := range seedCategories {
			category := c
			if err := tx.Where(models.MasterCategory{Slug: category.Slug}).FirstOrCreate(&category).Error; err != nil {
				return fmt.Errorf("seeding category %s: %w", c.Slug, err)
			}
			categories[category.Slug] = category
		}

		store := models.Store{Name: "Tienda de Prueba", Slug: seedStoreSlug, IsActive: true}
		if err := tx.Where(models.Store{Slug: seedStoreSlug}).FirstOrCreate(&store).Error; err != nil {
			return fmt.Errorf("seeding demo store: %w", err)
		}

		ownerHash, err := bcrypt.GenerateFromPassword([]byte(seedStoreOwnerPass), 10)
		if err != nil {
			return err
		}
		owner := models.StoreUser{
			StoreID:  store.ID,
			Email:    seedStoreOwnerEmail,
			Password: string(ownerHash),
			Name:     "Juan Tendero",
			Role:     models.StoreUserOwner,
			IsActive: true,
		}
		if err := tx.Where(models.StoreUser{StoreID: store.ID, Email: seedStoreOwnerEmail}).FirstOrCreate(&owner).Error; err != nil {
			return fmt.Errorf("seeding store owner: %w", err)
		}

		for _, p := range seedProducts {
			if err := seedStoreProduct(tx, store, categories[p.category], units[p.unit], p); err != nil {
				return err
			}
		}

		slog.Info("database seeded", "superadmin", seedSuperadminEmail, "store", seedStoreSlug)
		return nil
	})
}

func seedStoreProduct(tx *gorm.DB, store models.Store, category models.MasterCategory, unit models.MeasurementUnit, p seedProduct) error {
	master := models.MasterProduct{CategoryID: category.ID, Name: p.name, Description: p.description, IsActive: true}
	if err := tx.Where(models.MasterProduct{Name: p.name, CategoryID: category.ID}).FirstOrCreate(&master).Error; err != nil {
		return fmt.Errorf("seeding product %s: %w", p.name, err)
	}

	measurement := models.ProductMeasurement{
		MasterProductID:   master.ID,
		MeasurementUnitID: unit.ID,
		MinQuantity:       decimal.RequireFromString(p.minQuantity),
		StepQuantity:      decimal.RequireFromString(p.minQuantity),
	}
	if err := tx.Where(models.ProductMeasurement{MasterProductID: master.ID, MeasurementUnitID: unit.ID}).
		FirstOrCreate(&measurement).Error; err != nil {
		return fmt.Errorf("seeding measurement for %s: %w", p.name, err)
	}

	storeProduct := models.StoreProduct{StoreID: store.ID, MasterProductID: master.ID, IsAvailable: true}
	if err := tx.Where(models.StoreProduct{StoreID: store.ID, MasterProductID: master.ID}).
		FirstOrCreate(&storeProduct).Error; err != nil {
		return fmt.Errorf("seeding store product %s: %w", p.name, err)
	}

	price := models.StoreProductPrice{
		StoreProductID:    storeProduct.ID,
		MeasurementUnitID: unit.ID,
		Price:             decimal.NewFromInt(p.price),
		IsActive:          true,
	}
	if err := tx.Where(models.StoreProductPrice{StoreProductID: storeProduct.ID, MeasurementUnitID: unit.ID}).
		FirstOrCreate(&price).Error; err != nil {
		return fmt.Errorf("seeding price for %s: %w", p.name, err)
	}
	return nil
}
