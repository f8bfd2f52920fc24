package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Kariqs/tiendeo-api/models"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Slugs that collide with fixed route segments under /api.
var reservedSlugs = map[string]bool{"admin": true, "auth": true}

const defaultOwnerName = "Administrador"

type CreateStoreInput struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateStoreInput struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"isActive"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type StoreDetail struct {
	models.Store
	OwnerEmail string `json:"ownerEmail"`
	OrderCount int64  `json:"orderCount"`
}

type StoreService struct {
	db *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

func (s *StoreService) List(ctx context.Context, auth AuthContext) ([]StoreDetail, error) {
	if err := authorizeSuperadmin(auth); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var stores []models.Store
	if err := db.Order("name asc").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}

	var counts []struct {
		StoreID string
		Count   int64
	}
	if err := db.Model(&models.Order{}).Select("store_id, COUNT(*) AS count").Group("store_id").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("counting store orders: %w", err)
	}
	byStore := make(map[string]int64, len(counts))
	for _, c := range counts {
		byStore[c.StoreID] = c.Count
	}

	owners, err := s.ownerEmails(db)
	if err != nil {
		return nil, err
	}

	details := make([]StoreDetail, 0, len(stores))
	for _, store := range stores {
		details = append(details, StoreDetail{Store: store, OwnerEmail: owners[store.ID], OrderCount: byStore[store.ID]})
	}
	return details, nil
}

// Create provisions a store together with its owner account.
func (s *StoreService) Create(ctx context.Context, auth AuthContext, in CreateStoreInput) (*StoreDetail, error) {
	if err := authorizeSuperadmin(auth); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Slug == "" || in.Email == "" || in.Password == "" {
		return nil, validationError("name, slug, email and password are required")
	}
	if err := validateSlug(in.Slug); err != nil {
		return nil, err
	}
	if !strings.Contains(in.Email, "@") {
		return nil, validationError("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	store := models.Store{Name: in.Name, Slug: in.Slug, IsActive: true}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, in.Slug, ""); err != nil {
			return err
		}
		if err := tx.Create(&store).Error; err != nil {
			return dbError("store", err)
		}
		owner := models.StoreUser{
			StoreID:  store.ID,
			Email:    in.Email,
			Password: hashed,
			Name:     defaultOwnerName,
			Role:     models.StoreUserOwner,
			IsActive: true,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return dbError("store user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &StoreDetail{Store: store, OwnerEmail: in.Email}, nil
}

func (s *StoreService) Get(ctx context.Context, auth AuthContext, id string) (*StoreDetail, error) {
	if err := authorizeSuperadmin(auth); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var store models.Store
	if err := db.First(&store, "id = ?", id).Error; err != nil {
		return nil, dbError("store", err)
	}
	owner, err := findOwner(db, store.ID)
	if err != nil {
		return nil, err
	}

	detail := StoreDetail{Store: store}
	if owner != nil {
		detail.OwnerEmail = owner.Email
	}
	if err := db.Model(&models.Order{}).Where("store_id = ?", store.ID).Count(&detail.OrderCount).Error; err != nil {
		return nil, fmt.Errorf("counting store orders: %w", err)
	}
	return &detail, nil
}

func (s *StoreService) Update(ctx context.Context, auth AuthContext, id string, in UpdateStoreInput) (*StoreDetail, error) {
	if err := authorizeSuperadmin(auth); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var store models.Store
		if err := tx.First(&store, "id = ?", id).Error; err != nil {
			return dbError("store", err)
		}

		updates := map[string]any{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return validationError("name cannot be empty")
			}
			updates["name"] = name
		}
		if in.Slug != nil && *in.Slug != store.Slug {
			slug := strings.TrimSpace(*in.Slug)
			if err := validateSlug(slug); err != nil {
				return err
			}
			if err := ensureSlugFree(tx, slug, store.ID); err != nil {
				return err
			}
			updates["slug"] = slug
		}
		if in.IsActive != nil {
			updates["is_active"] = *in.IsActive
		}
		if len(updates) > 0 {
			if err := tx.Model(&store).Updates(updates).Error; err != nil {
				return dbError("store", err)
			}
		}

		if in.Email == nil && in.Password == nil {
			return nil
		}
		owner, err := findOwner(tx, store.ID)
		if err != nil {
			return err
		}
		if owner == nil {
			return notFound("store owner")
		}

		ownerUpdates := map[string]any{}
		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			if !strings.Contains(email, "@") {
				return validationError("invalid email %q", email)
			}
			ownerUpdates["email"] = email
		}
		if in.Password != nil && *in.Password != "" {
			if len(*in.Password) < minPasswordLength {
				return validationError("password must be at least %d characters", minPasswordLength)
			}
			hashed, err := HashPassword(*in.Password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			ownerUpdates["password"] = hashed
		}
		if len(ownerUpdates) == 0 {
			return nil
		}
		if err := tx.Model(owner).Updates(ownerUpdates).Error; err != nil {
			return dbError("store user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, auth, id)
}

// GetOwn returns the store of the calling staff member.
func (s *StoreService) GetOwn(ctx context.Context, auth AuthContext, storeSlug string) (*models.Store, error) {
	db := s.db.WithContext(ctx)
	store, err := findStoreBySlug(db, storeSlug, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeStaff(db, auth, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StoreService) Rename(ctx context.Context, auth AuthContext, storeSlug, name string) (*models.Store, error) {
	store, err := s.GetOwn(ctx, auth, storeSlug)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name cannot be empty")
	}
	if err := s.db.WithContext(ctx).Model(store).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("renaming store: %w", err)
	}
	store.Name = name
	return store, nil
}

func (s *StoreService) ownerEmails(db *gorm.DB) (map[string]string, error) {
	var owners []models.StoreUser
	if err := db.Where("role = ?", models.StoreUserOwner).Order("created_at asc").Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("listing store owners: %w", err)
	}
	emails := make(map[string]string, len(owners))
	for _, o := range owners {
		if _, ok := emails[o.StoreID]; !ok {
			emails[o.StoreID] = o.Email
		}
	}
	return emails, nil
}

func findOwner(db *gorm.DB, storeID string) (*models.StoreUser, error) {
	var owner models.StoreUser
	err := db.Where("store_id = ? AND role = ?", storeID, models.StoreUserOwner).Order("created_at asc").First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading store owner: %w", err)
	}
	return &owner, nil
}

func validateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return validationError("slug may only contain lowercase letters, digits and hyphens")
	}
	if reservedSlugs[slug] {
		return validationError("slug %q is reserved", slug)
	}
	return nil
}

func ensureSlugFree(tx *gorm.DB, slug, exceptID string) error {
	query := tx.Model(&models.Store{}).Where("slug = ?", slug)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if n > 0 {
		return conflict("slug %q is already in use", slug)
	}
	return nil
}
