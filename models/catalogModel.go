package models

import "github.com/shopspring/decimal"

type MeasurementType string

const (
	MeasurementUnitCount MeasurementType = "UNIT"
	MeasurementWeight    MeasurementType = "WEIGHT"
)

type MeasurementUnit struct {
	Base
	Name             string          `json:"name" gorm:"size:60;uniqueIndex;not null"`
	Abbreviation     string          `json:"abbreviation" gorm:"size:10;not null"`
	Type             MeasurementType `json:"type" gorm:"size:10;not null"`
	ConversionFactor decimal.Decimal `json:"conversionFactor" gorm:"type:decimal(14,4);not null;default:1"`
}

type MasterCategory struct {
	Base
	Name           string          `json:"name" gorm:"size:120;not null"`
	Slug           string          `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	ImageURL       string          `json:"imageUrl"`
	MasterProducts []MasterProduct `json:"-" gorm:"foreignKey:CategoryID"`
}

type MasterProduct struct {
	Base
	CategoryID          string               `json:"categoryId" gorm:"size:36;index;not null"`
	Category            *MasterCategory      `json:"category,omitempty"`
	Name                string               `json:"name" gorm:"size:160;not null"`
	Description         string               `json:"description"`
	ImageURL            string               `json:"imageUrl"`
	IsActive            bool                 `json:"isActive" gorm:"not null"`
	ProductMeasurements []ProductMeasurement `json:"-" gorm:"foreignKey:MasterProductID"`
}

// ProductMeasurement restricts the quantities a product may be sold in for one unit.
type ProductMeasurement struct {
	Base
	MasterProductID   string          `json:"masterProductId" gorm:"size:36;not null;uniqueIndex:idx_product_unit"`
	MeasurementUnitID string          `json:"measurementUnitId" gorm:"size:36;not null;uniqueIndex:idx_product_unit"`
	MeasurementUnit   MeasurementUnit `json:"measurementUnit"`
	MinQuantity       decimal.Decimal `json:"minQuantity" gorm:"type:decimal(10,3);not null;default:1"`
	StepQuantity      decimal.Decimal `json:"stepQuantity" gorm:"type:decimal(10,3);not null;default:1"`
}

type StoreProduct struct {
	Base
	StoreID         string              `json:"storeId" gorm:"size:36;not null;uniqueIndex:idx_store_product"`
	MasterProductID string              `json:"masterProductId" gorm:"size:36;not null;uniqueIndex:idx_store_product"`
	MasterProduct   MasterProduct       `json:"masterProduct"`
	IsAvailable     bool                `json:"isAvailable" gorm:"not null"`
	Prices          []StoreProductPrice `json:"prices" gorm:"foreignKey:StoreProductID;constraint:OnDelete:CASCADE"`
}

type StoreProductPrice struct {
	Base
	StoreProductID    string          `json:"storeProductId" gorm:"size:36;not null;index"`
	MeasurementUnitID string          `json:"measurementUnitId" gorm:"size:36;not null"`
	MeasurementUnit   MeasurementUnit `json:"measurementUnit"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	IsActive          bool            `json:"isActive" gorm:"not null"`
}
