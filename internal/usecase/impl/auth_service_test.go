package impl

import (
	"context"
	"testing"
	"time"

	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"
	"github.com/SanderFernadez/Api-DGA/internal/domain/repository"
	mockRepo "github.com/SanderFernadez/Api-DGA/internal/mocks/repository"
	"github.com/SanderFernadez/Api-DGA/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockRoleRepo := mockRepo.NewMockRoleRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().RoleRepo().Return(mockRoleRepo)

			mockUserRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, "hashed_password", user.PasswordHash)
					assert.True(t, user.IsActive)
					user.ID = 42
				}).
				Return(nil)

			mockRoleRepo.EXPECT().
				FindByName(ctx, entity.RoleNameUser).
				Return(&entity.Role{ID: 2, Name: entity.RoleNameUser, IsActive: true}, nil)
			mockRoleRepo.EXPECT().AssignToUser(ctx, int64(42), int64(2)).Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, int64(42), output.User.ID)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, []string{entity.RoleNameUser}, output.User.Roles)
}

func TestAuthService_Register_DefaultRoleMissing(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockRoleRepo := mockRepo.NewMockRoleRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().RoleRepo().Return(mockRoleRepo)

			mockUserRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)
			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = 7
				}).
				Return(nil)

			mockRoleRepo.EXPECT().
				FindByName(ctx, entity.RoleNameUser).
				Return(nil, repository.ErrRoleNotFound)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Empty(t, output.User.Roles)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}

	user := newActiveUser(1)
	userWithRoles := withRoles(newActiveUser(1), entity.RoleNameUser)
	accessExpiry := time.Now().Add(time.Hour)

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Verify(input.Password, user.PasswordHash).Return(true)
	fx.userRepo.EXPECT().FindByIDWithRoles(ctx, int64(1)).Return(userWithRoles, nil)

	fx.tokenService.EXPECT().
		GenerateAccessToken(int64(1), user.Name, user.Email, []string{entity.RoleNameUser}).
		Return("access_token", accessExpiry, nil)
	fx.tokenService.EXPECT().GenerateRefreshToken().Return("refresh_token", nil)
	fx.tokenService.EXPECT().RefreshTokenTTL().Return(7 * 24 * time.Hour)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				SetRefreshToken(ctx, int64(1), "refresh_token", mock.AnythingOfType("time.Time")).
				Return(nil)
			mockUserRepo.EXPECT().
				UpdateLastLogin(ctx, int64(1), mock.AnythingOfType("time.Time")).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, accessExpiry, output.ExpiresAt)
	assert.Equal(t, []string{entity.RoleNameUser}, output.User.Roles)
	assert.NotNil(t, output.User.LastLoginAt)
}

func TestAuthService_Login_NoRolesStillSucceeds(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}

	user := newActiveUser(1)

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Verify(input.Password, user.PasswordHash).Return(true)
	fx.userRepo.EXPECT().FindByIDWithRoles(ctx, int64(1)).Return(newActiveUser(1), nil)

	fx.tokenService.EXPECT().
		GenerateAccessToken(int64(1), user.Name, user.Email, []string{}).
		Return("access_token", time.Now().Add(time.Hour), nil)
	fx.tokenService.EXPECT().GenerateRefreshToken().Return("refresh_token", nil)
	fx.tokenService.EXPECT().RefreshTokenTTL().Return(7 * 24 * time.Hour)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Empty(t, output.User.Roles)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := usecase.RefreshInput{RefreshToken: "current_refresh"}

	user := withRefreshToken(newActiveUser(1), "current_refresh", time.Now().Add(time.Hour))
	userWithRoles := withRoles(
		withRefreshToken(newActiveUser(1), "current_refresh", time.Now().Add(time.Hour)),
		entity.RoleNameUser,
	)
	accessExpiry := time.Now().Add(time.Hour)

	fx.userRepo.EXPECT().FindByRefreshToken(ctx, "current_refresh").Return(user, nil)
	fx.userRepo.EXPECT().FindByIDWithRoles(ctx, int64(1)).Return(userWithRoles, nil)

	fx.tokenService.EXPECT().
		GenerateAccessToken(int64(1), user.Name, user.Email, []string{entity.RoleNameUser}).
		Return("new_access", accessExpiry, nil)
	fx.tokenService.EXPECT().GenerateRefreshToken().Return("next_refresh", nil)
	fx.tokenService.EXPECT().RefreshTokenTTL().Return(7 * 24 * time.Hour)

	fx.userRepo.EXPECT().
		RotateRefreshToken(ctx, int64(1), "current_refresh", "next_refresh", mock.AnythingOfType("time.Time")).
		Return(nil)

	output, err := fx.service.Refresh(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "new_access", output.AccessToken)
	assert.Equal(t, "next_refresh", output.RefreshToken)
	assert.Equal(t, accessExpiry, output.ExpiresAt)
}

func TestAuthService_Revoke_ClearsToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := withRefreshToken(newActiveUser(1), "current_refresh", time.Now().Add(time.Hour))

	fx.userRepo.EXPECT().FindByRefreshToken(ctx, "current_refresh").Return(user, nil)
	fx.userRepo.EXPECT().ClearRefreshToken(ctx, int64(1), "current_refresh").Return(nil)

	err := fx.service.Revoke(ctx, usecase.RevokeInput{RefreshToken: "current_refresh"})

	require.NoError(t, err)
}

func TestAuthService_ValidateAccessToken_Delegates(t *testing.T) {
	fx := createTestAuthService(t)

	fx.tokenService.EXPECT().Validate("some_token").Return(true)
	fx.tokenService.EXPECT().Validate("bad_token").Return(false)

	assert.True(t, fx.service.ValidateAccessToken(context.Background(), "some_token"))
	assert.False(t, fx.service.ValidateAccessToken(context.Background(), "bad_token"))
}

func TestAuthService_ListUsers_StripsCredentials(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	users := []*entity.User{
		withRoles(newActiveUser(1), entity.RoleNameAdmin),
		withRefreshToken(newActiveUser(2), "secret_refresh", time.Now().Add(time.Hour)),
	}

	fx.userRepo.EXPECT().List(ctx).Return(users, nil)

	infos, err := fx.service.ListUsers(ctx)

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, []string{entity.RoleNameAdmin}, infos[0].Roles)
	// UserInfo has no hash or token fields; verify identity survives the mapping.
	assert.Equal(t, int64(2), infos[1].ID)
	assert.Equal(t, "test@example.com", infos[1].Email)
}
