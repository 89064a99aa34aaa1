package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/albt6x/rent-a-camera/config"
	"github.com/albt6x/rent-a-camera/models"
)

type fakeBootstrapStore struct {
	admins  int64
	created []*models.User
}

func (s *fakeBootstrapStore) CountAdmins(context.Context) (int64, error) {
	return s.admins, nil
}

func (s *fakeBootstrapStore) CreateUser(_ context.Context, u *models.User) error {
	s.created = append(s.created, u)
	return nil
}

func TestBootstrapFirstAdmin_CreatesOnFreshDatabase(t *testing.T) {
	store := &fakeBootstrapStore{}
	cfg := config.Config{
		BootstrapEmail:    "owner@rentacamera.local",
		BootstrapPassword: "first-admin-pass",
	}

	require.NoError(t, BootstrapFirstAdmin(context.Background(), cfg, store))

	require.Len(t, store.created, 1)
	u := store.created[0]
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "owner@rentacamera.local", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("first-admin-pass")))
}

func TestBootstrapFirstAdmin_SkipsWhenAdminExists(t *testing.T) {
	store := &fakeBootstrapStore{admins: 1}
	cfg := config.Config{BootstrapEmail: "owner@rentacamera.local"}

	require.NoError(t, BootstrapFirstAdmin(context.Background(), cfg, store))
	assert.Empty(t, store.created)
}

func TestBootstrapFirstAdmin_SkipsWithoutEmail(t *testing.T) {
	store := &fakeBootstrapStore{}

	require.NoError(t, BootstrapFirstAdmin(context.Background(), config.Config{}, store))
	assert.Empty(t, store.created)
}

func TestBootstrapFirstAdmin_GeneratesPasswordWhenUnset(t *testing.T) {
	store := &fakeBootstrapStore{}
	cfg := config.Config{BootstrapEmail: "owner@rentacamera.local"}

	require.NoError(t, BootstrapFirstAdmin(context.Background(), cfg, store))

	require.Len(t, store.created, 1)
	assert.NotEmpty(t, store.created[0].PasswordHash)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(store.created[0].PasswordHash), []byte("")))
}
