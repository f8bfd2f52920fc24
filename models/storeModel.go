package models

type Store struct {
	Base
	Name            string      `json:"name" gorm:"size:120;not null"`
	Slug            string      `json:"slug" gorm:"size:80;uniqueIndex;not null"`
	IsActive        bool        `json:"isActive" gorm:"not null"`
	LastOrderNumber int         `json:"-" gorm:"not null;default:0"`
	Users           []StoreUser `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

type StoreUserRole string

const StoreUserOwner StoreUserRole = "OWNER"

type StoreUser struct {
	Base
	StoreID  string        `json:"storeId" gorm:"size:36;not null;uniqueIndex:idx_store_user_email"`
	Email    string        `json:"email" gorm:"size:160;not null;uniqueIndex:idx_store_user_email"`
	Password string        `json:"-" gorm:"not null"`
	Name     string        `json:"name" gorm:"size:120"`
	Role     StoreUserRole `json:"role" gorm:"size:20;not null;default:OWNER"`
	IsActive bool          `json:"isActive" gorm:"not null"`
}
