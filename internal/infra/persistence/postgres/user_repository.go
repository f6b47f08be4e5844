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

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by exact, case-sensitive email match.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// FindByIDWithRoles retrieves a user together with their role assignments.
func (repo *userRepository) FindByIDWithRoles(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("UserRoles.Role").
		First(&userM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// FindByRefreshToken retrieves the user holding exactly this refresh token.
// The unique index on refresh_token makes this a point lookup.
func (repo *userRepository) FindByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, "refresh_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// ExistsByEmail reports whether an account with this email already exists.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, errors.WithStack(err)
	}

	return count > 0, nil
}

// Create persists a new user entity and copies back generated fields.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("email already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt

	return nil
}

// UpdateLastLogin stamps the user's last successful login time.
func (repo *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// SetRefreshToken unconditionally stores a new refresh token and expiry.
// Both columns change in one statement so they can never diverge.
func (repo *userRepository) SetRefreshToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"refresh_token":            token,
			"refresh_token_expires_at": expiresAt,
		})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// RotateRefreshToken replaces current with next only if current is still the
// stored token. The conditional WHERE clause is what serializes concurrent
// redemptions: the row matches for exactly one of them.
func (repo *userRepository) RotateRefreshToken(ctx context.Context, id int64, current, next string, expiresAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Updates(map[string]any{
			"refresh_token":            next,
			"refresh_token_expires_at": expiresAt,
		})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenSuperseded
	}

	return nil
}

// ClearRefreshToken removes token and expiry together, only if current is
// still the stored token.
func (repo *userRepository) ClearRefreshToken(ctx context.Context, id int64, current string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Updates(map[string]any{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenSuperseded
	}

	return nil
}

// List returns all users with their role assignments, ordered by id.
func (repo *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userModels []*model.UserModel
	if err := repo.db.WithContext(ctx).Preload("UserRoles.Role").Order("id").Find(&userModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	user := &entity.User{
		ID:                    data.ID,
		Email:                 data.Email,
		Name:                  data.Name,
		PasswordHash:          data.PasswordHash,
		IsActive:              data.IsActive,
		RefreshToken:          data.RefreshToken,
		RefreshTokenExpiresAt: data.RefreshTokenExpiresAt,
		CreatedAt:             data.CreatedAt,
		LastLoginAt:           data.LastLoginAt,
	}

	for _, urM := range data.UserRoles {
		ur := entity.UserRole{
			UserID:     urM.UserID,
			RoleID:     urM.RoleID,
			AssignedAt: urM.AssignedAt,
		}
		if urM.Role != nil {
			ur.Role = &entity.Role{
				ID:          urM.Role.ID,
				Name:        urM.Role.Name,
				Description: urM.Role.Description,
				IsActive:    urM.Role.IsActive,
				CreatedAt:   urM.Role.CreatedAt,
			}
		}
		user.UserRoles = append(user.UserRoles, ur)
	}

	return user
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:                    data.ID,
		Email:                 data.Email,
		Name:                  data.Name,
		PasswordHash:          data.PasswordHash,
		IsActive:              data.IsActive,
		RefreshToken:          data.RefreshToken,
		RefreshTokenExpiresAt: data.RefreshTokenExpiresAt,
		CreatedAt:             data.CreatedAt,
		LastLoginAt:           data.LastLoginAt,
	}
}
