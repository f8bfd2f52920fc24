package models

// User is a platform superadmin. Store staff live in StoreUser.
type User struct {
	Base
	Name     string `json:"name" gorm:"size:120"`
	Email    string `json:"email" gorm:"size:160;uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
}

type LoginData struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	StoreSlug string `json:"storeSlug"`
}
