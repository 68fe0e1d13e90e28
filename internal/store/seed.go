package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvargas/campana-go/internal/auth"
)

// Site configuration keys seeded with defaults on first run.
const (
	ConfigSiteName       = "site_name"
	ConfigSiteTagline    = "site_tagline"
	ConfigContactEmail   = "contact_email"
	ConfigContactPhone   = "contact_phone"
	ConfigWhatsAppNumber = "whatsapp_number"
	ConfigMapEmbedURL    = "map_embed_url"
	ConfigAddress        = "address"
)

// SeedParams controls first-run seeding of the database.
type SeedParams struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Seed creates the initial admin user and default site configuration.
// It is idempotent: existing rows are left untouched.
func Seed(ctx context.Context, db *sql.DB, params SeedParams) error {
	if !params.Enabled {
		return nil
	}

	queries := New(db)

	if err := seedAdminUser(ctx, queries, params); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	if err := seedSiteConfig(ctx, queries); err != nil {
		return fmt.Errorf("seeding site config: %w", err)
	}
	return nil
}

func seedAdminUser(ctx context.Context, queries *Queries, params SeedParams) error {
	_, err := queries.GetUserByEmail(ctx, params.AdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(params.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        params.AdminEmail,
		PasswordHash: passwordHash,
		Role:         "admin",
		Name:         params.AdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

func seedSiteConfig(ctx context.Context, queries *Queries) error {
	defaults := map[string]string{
		ConfigSiteName:       "Campaña",
		ConfigSiteTagline:    "Juntos por el cambio",
		ConfigContactEmail:   "",
		ConfigContactPhone:   "",
		ConfigWhatsAppNumber: "",
		ConfigMapEmbedURL:    "",
		ConfigAddress:        "",
	}

	now := time.Now()
	for key, value := range defaults {
		if _, err := queries.GetConfig(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking config %q: %w", key, err)
		}
		if err := queries.UpsertConfig(ctx, UpsertConfigParams{
			Key:       key,
			Value:     value,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("writing config %q: %w", key, err)
		}
	}
	return nil
}
