package services

import (
	"testing"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateStoreProvisionsOwner(t *testing.T) {
	f := newFixture(t)
	stores := NewStoreService(f.db)
	accounts := NewAccountService(f.db)

	created, err := stores.Create(t.Context(), f.admin, CreateStoreInput{
		Name:     "La Esquina",
		Slug:     "la-esquina",
		Email:    "Dueno@Esquina.test",
		Password: "esquina1",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "dueno@esquina.test", created.OwnerEmail)

	auth, err := accounts.Authenticate(t.Context(), LoginInput{Email: "dueno@esquina.test", Password: "esquina1", StoreSlug: "la-esquina"})
	require.NoError(t, err)
	assert.Equal(t, RoleStoreOwner, auth.Role)
	assert.Equal(t, created.ID, auth.StoreID)
	assert.Equal(t, "la-esquina", auth.StoreSlug)

	list, err := stores.List(t.Context(), f.admin)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "La Esquina", list[0].Name)
	assert.Equal(t, "dueno@esquina.test", list[0].OwnerEmail)
}

func TestCreateStoreValidation(t *testing.T) {
	f := newFixture(t)
	stores := NewStoreService(f.db)

	valid := CreateStoreInput{Name: "Nueva", Slug: "nueva", Email: "a@b.test", Password: "123456"}
	tests := []struct {
		name   string
		mutate func(in *CreateStoreInput)
		kind   error
	}{
		{"uppercase slug", func(in *CreateStoreInput) { in.Slug = "Nueva" }, ErrValidation},
		{"slug with spaces", func(in *CreateStoreInput) { in.Slug = "mi tienda" }, ErrValidation},
		{"reserved slug", func(in *CreateStoreInput) { in.Slug = "admin" }, ErrValidation},
		{"short password", func(in *CreateStoreInput) { in.Password = "12345" }, ErrValidation},
		{"missing email", func(in *CreateStoreInput) { in.Email = "" }, ErrValidation},
		{"taken slug", func(in *CreateStoreInput) { in.Slug = f.store.Slug }, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := stores.Create(t.Context(), f.admin, in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	_, err := stores.Create(t.Context(), f.staff, valid)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStore(t *testing.T) {
	f := newFixture(t)
	stores := NewStoreService(f.db)
	accounts := NewAccountService(f.db)
	other, _ := createStore(t, f.db, "otra", "secret123")

	_, err := stores.Update(t.Context(), f.admin, f.store.ID, UpdateStoreInput{Slug: ptr(other.Slug)})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := stores.Update(t.Context(), f.admin, f.store.ID, UpdateStoreInput{
		Name:     ptr("Fruver Central"),
		Slug:     ptr("fruver-central"),
		Email:    ptr("nuevo@fruver.test"),
		Password: ptr("nueva-clave"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fruver Central", updated.Name)
	assert.Equal(t, "fruver-central", updated.Slug)
	assert.Equal(t, "nuevo@fruver.test", updated.OwnerEmail)

	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: "nuevo@fruver.test", Password: "nueva-clave", StoreSlug: "fruver-central"})
	require.NoError(t, err)

	_, err = stores.Update(t.Context(), f.admin, f.store.ID, UpdateStoreInput{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: "nuevo@fruver.test", Password: "nueva-clave", StoreSlug: "fruver-central"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = stores.Get(t.Context(), f.admin, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffStoreProfile(t *testing.T) {
	f := newFixture(t)
	stores := NewStoreService(f.db)
	_, otherStaff := createStore(t, f.db, "otra", "secret123")

	own, err := stores.GetOwn(t.Context(), f.staff, f.store.Slug)
	require.NoError(t, err)
	assert.Equal(t, f.store.ID, own.ID)

	_, err = stores.GetOwn(t.Context(), otherStaff, f.store.Slug)
	assert.ErrorIs(t, err, ErrForbidden)

	renamed, err := stores.Rename(t.Context(), f.staff, f.store.Slug, "  Fruver Express ")
	require.NoError(t, err)
	assert.Equal(t, "Fruver Express", renamed.Name)

	_, err = stores.Rename(t.Context(), f.staff, f.store.Slug, " ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	accounts := NewAccountService(f.db)

	admin, err := accounts.Authenticate(t.Context(), LoginInput{Email: "ADMIN@tiendeo.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, RoleSuperadmin, admin.Role)
	assert.Empty(t, admin.StoreID)

	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: "admin@tiendeo.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: f.staff.Email, Password: f.password, StoreSlug: "otra"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, f.db.Model(&models.StoreUser{}).Where("id = ?", f.staff.UserID).Update("is_active", false).Error)
	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: f.staff.Email, Password: f.password, StoreSlug: f.store.Slug})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: "", Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	accounts := NewAccountService(f.db)

	err := accounts.ChangePassword(t.Context(), f.staff, f.store.Slug, "wrong", "another1")
	assert.ErrorIs(t, err, ErrValidation)
	err = accounts.ChangePassword(t.Context(), f.staff, f.store.Slug, f.password, "short")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, accounts.ChangePassword(t.Context(), f.staff, f.store.Slug, f.password, "another1"))
	_, err = accounts.Authenticate(t.Context(), LoginInput{Email: f.staff.Email, Password: "another1", StoreSlug: f.store.Slug})
	assert.NoError(t, err)
}

func TestInactiveStaffAccessIsRevoked(t *testing.T) {
	f := newFixture(t)
	stores := NewStoreService(f.db)
	res, _ := f.placeOrder(t, models.DeliveryPickup)

	_, err := f.orders.ListForStore(t.Context(), f.staff, f.store.Slug, "")
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.StoreUser{}).Where("id = ?", f.staff.UserID).Update("is_active", false).Error)
	_, err = f.orders.ListForStore(t.Context(), f.staff, f.store.Slug, "")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.db.Model(&models.StoreUser{}).Where("id = ?", f.staff.UserID).Update("is_active", true).Error)
	_, err = stores.Update(t.Context(), f.admin, f.store.ID, UpdateStoreInput{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = stores.GetOwn(t.Context(), f.staff, f.store.Slug)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.orders.UpdateStatus(t.Context(), f.staff, f.store.Slug, res.OrderNumber, "CANCELLED")
	assert.ErrorIs(t, err, ErrForbidden)
}
