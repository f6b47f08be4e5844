package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"
	"github.com/SanderFernadez/Api-DGA/internal/domain/lifecycle"
	"github.com/SanderFernadez/Api-DGA/internal/domain/repository"
	"github.com/SanderFernadez/Api-DGA/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// SeederParams defines the required parameters
type SeederParams struct {
	fx.In
	fx.Lifecycle

	DB     *gorm.DB
	Logger *slog.Logger
}

// RegisterSeeder migrates the schema and ensures the default roles exist
// before the server starts accepting requests.
func RegisterSeeder(params SeederParams) {
	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := migrate(ctx, params.DB); err != nil {
				return err
			}

			return seedRoles(ctx, params.DB, params.Logger)
		},
	})
}

func migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&model.UserModel{},
		&model.RoleModel{},
		&model.UserRoleModel{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}

func seedRoles(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	roleRepo := NewRoleRepository(db)

	defaults := []entity.Role{
		{Name: entity.RoleNameAdmin, Description: "Full administrative access", IsActive: true},
		{Name: entity.RoleNameUser, Description: "Standard account access", IsActive: true},
	}

	for i := range defaults {
		role := defaults[i]
		if _, err := roleRepo.FindByName(ctx, role.Name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrRoleNotFound) {
			return err
		}

		role.CreatedAt = time.Now()
		if err := roleRepo.Create(ctx, &role); err != nil {
			return err
		}

		logger.InfoContext(ctx, "seeded default role", slog.String("role", role.Name))
	}

	return nil
}
