package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kariqs/tiendeo-api/models"
	"gorm.io/gorm"
)

type LoginInput struct {
	Email     string
	Password  string
	StoreSlug string
}

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func invalidCredentials() error {
	return newError(ErrUnauthenticated, "invalid email or password")
}

// Authenticate checks superadmin credentials when no store slug is given and
// store staff credentials otherwise.
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (AuthContext, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthContext{}, validationError("email and password are required")
	}
	db := s.db.WithContext(ctx)

	if in.StoreSlug == "" {
		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AuthContext{}, invalidCredentials()
			}
			return AuthContext{}, fmt.Errorf("loading user: %w", err)
		}
		if comparePasswords(user.Password, in.Password) != nil {
			return AuthContext{}, invalidCredentials()
		}
		return AuthContext{UserID: user.ID, Email: user.Email, Role: RoleSuperadmin}, nil
	}

	store, err := findStoreBySlug(db, in.StoreSlug, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthContext{}, invalidCredentials()
		}
		return AuthContext{}, err
	}

	var staff models.StoreUser
	err = db.Where("store_id = ? AND email = ? AND is_active = ?", store.ID, email, true).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthContext{}, invalidCredentials()
	}
	if err != nil {
		return AuthContext{}, fmt.Errorf("loading store user: %w", err)
	}
	if comparePasswords(staff.Password, in.Password) != nil {
		return AuthContext{}, invalidCredentials()
	}

	return AuthContext{
		UserID:    staff.ID,
		Email:     staff.Email,
		Role:      RoleStoreOwner,
		StoreID:   store.ID,
		StoreSlug: store.Slug,
	}, nil
}

// ChangePassword lets store staff replace their own password.
func (s *AccountService) ChangePassword(ctx context.Context, auth AuthContext, storeSlug, current, next string) error {
	db := s.db.WithContext(ctx)
	store, err := findStoreBySlug(db, storeSlug, false)
	if err != nil {
		return err
	}
	if err := authorizeStaff(db, auth, store); err != nil {
		return err
	}
	if len(next) < minPasswordLength {
		return validationError("password must be at least %d characters", minPasswordLength)
	}

	var staff models.StoreUser
	if err := db.Where("id = ? AND store_id = ?", auth.UserID, store.ID).First(&staff).Error; err != nil {
		return dbError("store user", err)
	}
	if comparePasswords(staff.Password, current) != nil {
		return validationError("current password is incorrect")
	}

	hashed, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := db.Model(&staff).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
