// app/bootstrap.go
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/albt6x/rent-a-camera/config"
	"github.com/albt6x/rent-a-camera/logging"
	"github.com/albt6x/rent-a-camera/models"
)

// bootstrapStore is the slice of db.Repo the bootstrap needs.
type bootstrapStore interface {
	CountAdmins(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// BootstrapFirstAdmin creates the initial admin account on a fresh
// database. Without it no one can reach the admin-gated user management
// endpoints to create staff or other admins. A no-op when BOOTSTRAP_EMAIL
// is unset or an admin already exists.
func BootstrapFirstAdmin(ctx context.Context, cfg config.Config, store bootstrapStore) error {
	log := logging.New("bootstrap")

	if cfg.BootstrapEmail == "" {
		return nil
	}
	n, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	password := cfg.BootstrapPassword
	generated := password == ""
	if generated {
		buf := make([]byte, 12)
		_, _ = rand.Read(buf)
		password = hex.EncodeToString(buf)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        cfg.BootstrapEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	log.Info("no admin found, created the first one", "email", cfg.BootstrapEmail)
	if generated {
		// printed once, on the fresh-deploy run only
		log.Info("generated bootstrap admin password", "password", password)
	}
	return nil
}
