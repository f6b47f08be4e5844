package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"
	mockRepo "github.com/SanderFernadez/Api-DGA/internal/mocks/repository"
	mockSvc "github.com/SanderFernadez/Api-DGA/internal/mocks/service"
	"github.com/SanderFernadez/Api-DGA/internal/usecase"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	roleRepo     *mockRepo.MockRoleRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	roleRepo := mockRepo.NewMockRoleRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		RoleRepo:     roleRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       logger,
	})

	return authServiceFixtures{
		service:      service,
		txManager:    txManager,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func newActiveUser(id int64) *entity.User {
	return &entity.User{
		ID:           id,
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "stored_hash",
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}
}

func withRoles(user *entity.User, names ...string) *entity.User {
	for i, name := range names {
		roleID := int64(i + 1)
		user.UserRoles = append(user.UserRoles, entity.UserRole{
			UserID:     user.ID,
			RoleID:     roleID,
			AssignedAt: time.Now(),
			Role: &entity.Role{
				ID:       roleID,
				Name:     name,
				IsActive: true,
			},
		})
	}

	return user
}

func withRefreshToken(user *entity.User, token string, expiresAt time.Time) *entity.User {
	user.RefreshToken = &token
	user.RefreshTokenExpiresAt = &expiresAt

	return user
}
