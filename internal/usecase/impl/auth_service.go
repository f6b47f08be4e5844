// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "github.com/SanderFernadez/Api-DGA/internal/delivery/context"
	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"
	domainerrors "github.com/SanderFernadez/Api-DGA/internal/domain/errors"
	"github.com/SanderFernadez/Api-DGA/internal/domain/repository"
	"github.com/SanderFernadez/Api-DGA/internal/domain/service"
	"github.com/SanderFernadez/Api-DGA/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	RoleRepo     repository.RoleRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		roleRepo:     params.RoleRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account with a hashed password and the default role.
// No tokens are issued; the caller authenticates through Login afterwards.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	var registered *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		roleRepo := repoFactory.RoleRepo()

		exists, err := userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email existence")
		}
		if exists {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("email already registered")
		}

		user := &entity.User{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hashed,
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}

		// A missing default role is a deployment gap, not a registration
		// failure. The account is created without it.
		defaultRole, err := roleRepo.FindByName(ctx, entity.RoleNameUser)
		switch {
		case errors.Is(err, repository.ErrRoleNotFound):
			srv.log(ctx).Warn("Default role missing, account created without role",
				slog.Int64("userID", user.ID), slog.String("role", entity.RoleNameUser))
		case err != nil:
			return errors.Wrap(err, "failed to look up default role")
		default:
			if err := roleRepo.AssignToUser(ctx, user.ID, defaultRole.ID); err != nil {
				return err
			}
			user.UserRoles = []entity.UserRole{{
				UserID: user.ID, RoleID: defaultRole.ID, AssignedAt: time.Now(), Role: defaultRole,
			}}
		}

		registered = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Registration completed", slog.Int64("userID", registered.ID))

	return &usecase.RegisterOutput{User: toUserInfo(registered)}, nil
}

// Login authenticates by email and password and mints a token pair. All
// failure modes collapse into the same invalid-credentials error so the
// response never reveals whether the account exists or is disabled.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Info("Login rejected: unknown email")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.IsActive {
		srv.log(ctx).Info("Login rejected: account inactive", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !srv.hasher.Verify(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected: password mismatch", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err = srv.userRepo.FindByIDWithRoles(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user roles")
	}

	accessToken, accessExpiresAt, refreshToken, refreshExpiresAt, err := srv.mintTokenPair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		if err := userRepo.SetRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt); err != nil {
			return errors.Wrap(err, "failed to store refresh token")
		}

		return errors.Wrap(userRepo.UpdateLastLogin(ctx, user.ID, now), "failed to update last login")
	})
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = &now
	srv.log(ctx).Info("Login succeeded", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiresAt,
		User:         toUserInfo(user),
	}, nil
}

// Refresh redeems a refresh token for a new token pair, rotating the stored
// token. A token that was already rotated or revoked loses the race and is
// rejected like any other invalid token.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	user, err := srv.userRepo.FindByRefreshToken(ctx, input.RefreshToken)
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		srv.log(ctx).Info("Refresh rejected: unknown token")

		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by refresh token")
	}

	if !user.IsActive || !user.HasValidRefreshToken(time.Now()) {
		srv.log(ctx).Info("Refresh rejected: token expired or account inactive", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err = srv.userRepo.FindByIDWithRoles(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user roles")
	}

	accessToken, accessExpiresAt, nextRefreshToken, refreshExpiresAt, err := srv.mintTokenPair(user)
	if err != nil {
		return nil, err
	}

	err = srv.userRepo.RotateRefreshToken(ctx, user.ID, input.RefreshToken, nextRefreshToken, refreshExpiresAt)
	if errors.Is(err, repository.ErrRefreshTokenSuperseded) {
		srv.log(ctx).Info("Refresh rejected: token superseded concurrently", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate refresh token")
	}

	srv.log(ctx).Info("Refresh succeeded", slog.Int64("userID", user.ID))

	return &usecase.RefreshOutput{
		AccessToken:  accessToken,
		RefreshToken: nextRefreshToken,
		ExpiresAt:    accessExpiresAt,
		User:         toUserInfo(user),
	}, nil
}

// Revoke invalidates a refresh token so it can no longer be redeemed.
func (srv *authService) Revoke(ctx context.Context, input usecase.RevokeInput) error {
	user, err := srv.userRepo.FindByRefreshToken(ctx, input.RefreshToken)
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		srv.log(ctx).Info("Revoke rejected: unknown token")

		return domainerrors.ErrRefreshTokenInvalid
	}
	if err != nil {
		return errors.Wrap(err, "failed to find user by refresh token")
	}

	err = srv.userRepo.ClearRefreshToken(ctx, user.ID, input.RefreshToken)
	if errors.Is(err, repository.ErrRefreshTokenSuperseded) {
		return domainerrors.ErrRefreshTokenInvalid
	}
	if err != nil {
		return errors.Wrap(err, "failed to clear refresh token")
	}

	srv.log(ctx).Info("Refresh token revoked", slog.Int64("userID", user.ID))

	return nil
}

// ValidateAccessToken reports whether the access token is well-formed,
// correctly signed and unexpired.
func (srv *authService) ValidateAccessToken(_ context.Context, token string) bool {
	return srv.tokenService.Validate(token)
}

// ListUsers returns every account without credential material.
func (srv *authService) ListUsers(ctx context.Context) ([]*usecase.UserInfo, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	infos := make([]*usecase.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}

	return infos, nil
}

// mintTokenPair issues an access token carrying the user's active role names
// plus a fresh opaque refresh token with its expiry.
func (srv *authService) mintTokenPair(user *entity.User) (accessToken string, accessExpiresAt time.Time, refreshToken string, refreshExpiresAt time.Time, err error) {
	accessToken, accessExpiresAt, err = srv.tokenService.GenerateAccessToken(user.ID, user.Name, user.Email, user.ActiveRoleNames())
	if err != nil {
		return "", time.Time{}, "", time.Time{}, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err = srv.tokenService.GenerateRefreshToken()
	if err != nil {
		return "", time.Time{}, "", time.Time{}, errors.Wrap(err, "failed to generate refresh token")
	}
	refreshExpiresAt = time.Now().Add(srv.tokenService.RefreshTokenTTL())

	return accessToken, accessExpiresAt, refreshToken, refreshExpiresAt, nil
}

// toUserInfo strips credential material from a user entity.
func toUserInfo(user *entity.User) *usecase.UserInfo {
	if user == nil {
		return nil
	}

	return &usecase.UserInfo{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		IsActive:    user.IsActive,
		Roles:       user.ActiveRoleNames(),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
