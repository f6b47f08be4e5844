package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "github.com/SanderFernadez/Api-DGA/internal/domain/errors"
	"github.com/SanderFernadez/Api-DGA/internal/domain/repository"
	mockRepo "github.com/SanderFernadez/Api-DGA/internal/mocks/repository"
	"github.com/SanderFernadez/Api-DGA/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.RegisterInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockRoleRepo := mockRepo.NewMockRoleRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().RoleRepo().Return(mockRoleRepo)

			mockUserRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(true, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyExists))
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("entropy source failed"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "test@example.com", Password: "wrong"}

	user := newActiveUser(1)
	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Verify(input.Password, user.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

// An inactive account must be indistinguishable from a wrong password.
func TestAuthService_Login_InactiveAccountSameError(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}

	user := newActiveUser(1)
	user.IsActive = false

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByRefreshToken(ctx, "never_issued").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fx.service.Refresh(ctx, usecase.RefreshInput{RefreshToken: "never_issued"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := withRefreshToken(newActiveUser(1), "expired_refresh", time.Now().Add(-time.Minute))

	fx.userRepo.EXPECT().FindByRefreshToken(ctx, "expired_refresh").Return(user, nil)

	output, err := fx.service.Refresh(ctx, usecase.RefreshInput{RefreshToken: "expired_refresh"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Refresh_InactiveAccount(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := withRefreshToken(newActiveUser(1), "current_refresh", time.Now().Add(time.Hour))
	user.IsActive = false

	fx.userRepo.EXPECT().FindByRefreshToken(ctx, "current_refresh").Return(user, nil)

	output, err := fx.service.Refresh(ctx, usecase.RefreshInput{RefreshToken: "current_refresh"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

// When two redemptions race, the loser's conditional update matches no row
// and the token must be treated as invalid.
func TestAuthService_Refresh_SupersededByConcurrentRotation(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := withRefreshToken(newActiveUser(1), "current_refresh", time.Now().Add(time.Hour))

	fx.userRepo.EXPECT().FindByRefreshToken(ctx, "current_refresh").Return(user, nil)
	fx.userRepo.EXPECT().FindByIDWithRoles(ctx, int64(1)).Return(newActiveUser(1), nil)

	fx.tokenService.EXPECT().
		GenerateAccessToken(int64(1), user.Name, user.Email, []string{}).
		Return("new_access", time.Now().Add(time.Hour), nil)
	fx.tokenService.EXPECT().GenerateRefreshToken().Return("next_refresh", nil)
	fx.tokenService.EXPECT().RefreshTokenTTL().Return(7 * 24 * time.Hour)

	fx.userRepo.EXPECT().
		RotateRefreshToken(ctx, int64(1), "current_refresh", "next_refresh", mock.AnythingOfType("time.Time")).
		Return(repository.ErrRefreshTokenSuperseded)

	output, err := fx.service.Refresh(ctx, usecase.RefreshInput{RefreshToken: "current_refresh"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Revoke_UnknownToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByRefreshToken(ctx, "never_issued").
		Return(nil, repository.ErrRefreshTokenNotFound)

	err := fx.service.Revoke(ctx, usecase.RevokeInput{RefreshToken: "never_issued"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

// A token revoked once cannot be revoked or redeemed again: the lookup no
// longer finds it.
func TestAuthService_Revoke_ThenRefreshFails(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := withRefreshToken(newActiveUser(1), "current_refresh", time.Now().Add(time.Hour))

	fx.userRepo.EXPECT().FindByRefreshToken(ctx, "current_refresh").Return(user, nil).Once()
	fx.userRepo.EXPECT().ClearRefreshToken(ctx, int64(1), "current_refresh").Return(nil)

	require.NoError(t, fx.service.Revoke(ctx, usecase.RevokeInput{RefreshToken: "current_refresh"}))

	fx.userRepo.EXPECT().
		FindByRefreshToken(ctx, "current_refresh").
		Return(nil, repository.ErrRefreshTokenNotFound).Once()

	output, err := fx.service.Refresh(ctx, usecase.RefreshInput{RefreshToken: "current_refresh"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}
