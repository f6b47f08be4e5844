package postgres

import (
	"context"
	"time"

	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"
	domainerrors "github.com/SanderFernadez/Api-DGA/internal/domain/errors"
	"github.com/SanderFernadez/Api-DGA/internal/domain/repository"
	"github.com/SanderFernadez/Api-DGA/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// roleRepository implements the repository.RoleRepository interface.
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository is the constructor for roleRepository.
func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

// FindByName retrieves a role by its unique name.
func (repo *roleRepository) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	var roleM model.RoleModel
	if err := repo.db.WithContext(ctx).First(&roleM, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRoleDomain(&roleM), nil
}

// Create persists a new role and copies back generated fields.
func (repo *roleRepository) Create(ctx context.Context, role *entity.Role) error {
	roleM := fromRoleDomain(role)

	if err := repo.db.WithContext(ctx).Create(roleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("role name already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create role")
	}

	role.ID = roleM.ID
	role.CreatedAt = roleM.CreatedAt

	return nil
}

// AssignToUser links a role to a user with the current timestamp.
func (repo *roleRepository) AssignToUser(ctx context.Context, userID, roleID int64) error {
	userRoleM := &model.UserRoleModel{
		UserID:     userID,
		RoleID:     roleID,
		AssignedAt: time.Now(),
	}

	if err := repo.db.WithContext(ctx).Create(userRoleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// Already assigned; treat as success.
			return nil
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to assign role to user")
	}

	return nil
}

// --- Mapper Functions ---

func toRoleDomain(data *model.RoleModel) *entity.Role {
	if data == nil {
		return nil
	}

	return &entity.Role{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		IsActive:    data.IsActive,
		CreatedAt:   data.CreatedAt,
	}
}

func fromRoleDomain(data *entity.Role) *model.RoleModel {
	if data == nil {
		return nil
	}

	return &model.RoleModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		IsActive:    data.IsActive,
		CreatedAt:   data.CreatedAt,
	}
}
