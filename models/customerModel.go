package models

type Customer struct {
	Base
	StoreID string `json:"storeId" gorm:"size:36;not null;uniqueIndex:idx_customer_phone"`
	Name    string `json:"name" gorm:"size:160;not null"`
	Phone   string `json:"phone" gorm:"size:40;not null;uniqueIndex:idx_customer_phone"`
	Address string `json:"address"`
}
