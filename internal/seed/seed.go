package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/app/repositories"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/auth"
	"github.com/deniz/coursehub/internal/pkg/helpers"
)

// Demo account credentials created on startup so the API is usable out of
// the box.
const (
	demoEmail    = "test@demo.com"
	demoPassword = "Test123!"
)

// CreateDefaultData creates the demo user account if it doesn't exist.
// Seeding is idempotent; re-running against a seeded database is a no-op.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (demo user)...")

	exists, err := userRepo.EmailExists(ctx, demoEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking demo user existence")
		return err
	}
	if exists {
		return nil
	}

	passwordHash, err := auth.HashPassword(demoPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing demo user password")
		return err
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test",
		LastName:     "Demo",
		Email:        demoEmail,
		PasswordHash: passwordHash,
		CreatedAt:    helpers.UTCNow(),
	}

	if err := userRepo.Create(ctx, user); err != nil {
		// A concurrent instance may have seeded the same account.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating demo user")
		return err
	}

	lgr.Info().Str("email", demoEmail).Msg("Demo user created")
	return nil
}
