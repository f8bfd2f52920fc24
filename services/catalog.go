package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogPrice struct {
	ID                string                 `json:"id"`
	MeasurementUnitID string                 `json:"measurementUnitId"`
	MeasurementUnit   models.MeasurementUnit `json:"measurementUnit"`
	Price             decimal.Decimal        `json:"price"`
	MinQuantity       decimal.Decimal        `json:"minQuantity"`
	StepQuantity      decimal.Decimal        `json:"stepQuantity"`
}

type CatalogCategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CatalogMasterProduct struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ImageURL    string             `json:"imageUrl"`
	Category    CatalogCategoryRef `json:"category"`
}

type CatalogProduct struct {
	ID            string               `json:"id"`
	IsAvailable   bool                 `json:"isAvailable"`
	Prices        []CatalogPrice       `json:"prices"`
	MasterProduct CatalogMasterProduct `json:"masterProduct"`
}

type CatalogCategory struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Slug     string           `json:"slug"`
	ImageURL string           `json:"imageUrl"`
	Products []CatalogProduct `json:"products"`
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListProducts groups the store's available products by category. Categories
// without products are left out.
func (s *CatalogService) ListProducts(ctx context.Context, storeSlug string) ([]CatalogCategory, error) {
	db := s.db.WithContext(ctx)
	store, err := findStoreBySlug(db, storeSlug, true)
	if err != nil {
		return nil, err
	}

	var products []models.StoreProduct
	err = db.Preload("MasterProduct.Category").
		Preload("Prices", "is_active = ?", true).
		Preload("Prices.MeasurementUnit").
		Where("store_id = ? AND is_available = ?", store.ID, true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("listing store products: %w", err)
	}
	if len(products) == 0 {
		return []CatalogCategory{}, nil
	}

	masterIDs := make([]string, 0, len(products))
	for _, p := range products {
		masterIDs = append(masterIDs, p.MasterProductID)
	}
	var measurements []models.ProductMeasurement
	if err := db.Where("master_product_id IN ?", masterIDs).Find(&measurements).Error; err != nil {
		return nil, fmt.Errorf("listing product measurements: %w", err)
	}
	type measurementKey struct{ product, unit string }
	limits := make(map[measurementKey]models.ProductMeasurement, len(measurements))
	for _, m := range measurements {
		limits[measurementKey{m.MasterProductID, m.MeasurementUnitID}] = m
	}

	one := decimal.NewFromInt(1)
	byCategory := map[string]*CatalogCategory{}
	for _, p := range products {
		master := p.MasterProduct
		if !master.IsActive || master.Category == nil {
			continue
		}

		prices := make([]CatalogPrice, 0, len(p.Prices))
		for _, price := range p.Prices {
			cp := CatalogPrice{
				ID:                price.ID,
				MeasurementUnitID: price.MeasurementUnitID,
				MeasurementUnit:   price.MeasurementUnit,
				Price:             price.Price,
				MinQuantity:       one,
				StepQuantity:      one,
			}
			if m, ok := limits[measurementKey{master.ID, price.MeasurementUnitID}]; ok {
				if m.MinQuantity.IsPositive() {
					cp.MinQuantity = m.MinQuantity
				}
				if m.StepQuantity.IsPositive() {
					cp.StepQuantity = m.StepQuantity
				}
			}
			prices = append(prices, cp)
		}
		sort.Slice(prices, func(i, j int) bool {
			return prices[i].MeasurementUnit.Name < prices[j].MeasurementUnit.Name
		})

		category, ok := byCategory[master.CategoryID]
		if !ok {
			category = &CatalogCategory{
				ID:       master.Category.ID,
				Name:     master.Category.Name,
				Slug:     master.Category.Slug,
				ImageURL: master.Category.ImageURL,
			}
			byCategory[master.CategoryID] = category
		}
		category.Products = append(category.Products, CatalogProduct{
			ID:          p.ID,
			IsAvailable: p.IsAvailable,
			Prices:      prices,
			MasterProduct: CatalogMasterProduct{
				ID:          master.ID,
				Name:        master.Name,
				Description: master.Description,
				ImageURL:    master.ImageURL,
				Category:    CatalogCategoryRef{ID: master.Category.ID, Name: master.Category.Name},
			},
		})
	}

	categories := make([]CatalogCategory, 0, len(byCategory))
	for _, c := range byCategory {
		sort.Slice(c.Products, func(i, j int) bool {
			return c.Products[i].MasterProduct.Name < c.Products[j].MasterProduct.Name
		})
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}
