package services

import (
	"fmt"

	"github.com/Kariqs/tiendeo-api/models"
	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleStoreOwner Role = "STORE_OWNER"
)

// AuthContext is the caller identity resolved by the HTTP layer.
// The zero value is an anonymous caller.
type AuthContext struct {
	UserID    string
	Email     string
	Role      Role
	StoreID   string
	StoreSlug string
}

func (a AuthContext) Authenticated() bool {
	return a.UserID != "" && a.Role != ""
}

func (a AuthContext) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}

// authorizeStore allows only staff whose session is bound to the given store.
func authorizeStore(auth AuthContext, store *models.Store) error {
	if !auth.Authenticated() {
		return newError(ErrUnauthenticated, "authentication required")
	}
	if auth.Role != RoleStoreOwner || auth.StoreID != store.ID || auth.StoreSlug != store.Slug {
		return forbidden()
	}
	return nil
}

// authorizeStaff also rejects tokens and sessions that outlived a deactivated
// store or staff account.
func authorizeStaff(db *gorm.DB, auth AuthContext, store *models.Store) error {
	if err := authorizeStore(auth, store); err != nil {
		return err
	}
	if !store.IsActive {
		return newError(ErrForbidden, "store is inactive")
	}
	var n int64
	err := db.Model(&models.StoreUser{}).
		Where("id = ? AND store_id = ? AND is_active = ?", auth.UserID, store.ID, true).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("loading store user: %w", err)
	}
	if n == 0 {
		return newError(ErrForbidden, "store account is inactive")
	}
	return nil
}

func authorizeSuperadmin(auth AuthContext) error {
	if !auth.Authenticated() {
		return newError(ErrUnauthenticated, "authentication required")
	}
	if !auth.IsSuperadmin() {
		return newError(ErrForbidden, "superadmin access required")
	}
	return nil
}
