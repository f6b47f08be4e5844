package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SanderFernadez/Api-DGA/internal/delivery/http/validator"
	mockUC "github.com/SanderFernadez/Api-DGA/internal/mocks/usecase"
	"github.com/SanderFernadez/Api-DGA/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder, *mockUC.MockAuthUsecase, *AuthHandler) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	uc := mockUC.NewMockAuthUsecase(t)
	h := NewAuthHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return c, rec, uc, h
}

func TestAuthHandler_Register_Success(t *testing.T) {
	body := `{"name":"Test User","email":"test@example.com","password":"Password123!"}`
	c, rec, uc, h := newTestContext(t, body)

	uc.EXPECT().
		Register(mock.Anything, usecase.RegisterInput{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "Password123!",
		}).
		Return(&usecase.RegisterOutput{
			User: &usecase.UserInfo{
				ID:        1,
				Name:      "Test User",
				Email:     "test@example.com",
				IsActive:  true,
				Roles:     []string{"User"},
				CreatedAt: time.Now(),
			},
		}, nil)

	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, `"success":true`)
	assert.Contains(t, responseBody, `"email":"test@example.com"`)
	// The response never carries credential material.
	assert.NotContains(t, responseBody, "password")
	assert.NotContains(t, responseBody, "refreshToken")
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	// Password shorter than the minimum; the usecase must never be called.
	body := `{"name":"Test User","email":"test@example.com","password":"short"}`
	c, _, _, h := newTestContext(t, body)

	err := h.Register(c)

	require.Error(t, err)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	body := `{"email":"test@example.com","password":"Password123!"}`
	c, rec, uc, h := newTestContext(t, body)

	uc.EXPECT().
		Login(mock.Anything, usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}).
		Return(&usecase.LoginOutput{
			AccessToken:  "access_token",
			RefreshToken: "refresh_token",
			ExpiresAt:    time.Now().Add(time.Hour),
			User:         &usecase.UserInfo{ID: 1, Email: "test@example.com", Roles: []string{"User"}},
		}, nil)

	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, `"accessToken":"access_token"`)
	assert.Contains(t, responseBody, `"refreshToken":"refresh_token"`)
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	body := `{"refreshToken":"current_refresh"}`
	c, rec, uc, h := newTestContext(t, body)

	uc.EXPECT().
		Refresh(mock.Anything, usecase.RefreshInput{RefreshToken: "current_refresh"}).
		Return(&usecase.RefreshOutput{
			AccessToken:  "new_access",
			RefreshToken: "next_refresh",
			ExpiresAt:    time.Now().Add(time.Hour),
			User:         &usecase.UserInfo{ID: 1, Roles: []string{}},
		}, nil)

	require.NoError(t, h.Refresh(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"refreshToken":"next_refresh"`)
}

func TestAuthHandler_Revoke_Success(t *testing.T) {
	body := `{"refreshToken":"current_refresh"}`
	c, rec, uc, h := newTestContext(t, body)

	uc.EXPECT().
		Revoke(mock.Anything, usecase.RevokeInput{RefreshToken: "current_refresh"}).
		Return(nil)

	require.NoError(t, h.Revoke(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"revoked":true`)
}

func TestAuthHandler_Validate_ReportsBothOutcomes(t *testing.T) {
	for _, valid := range []bool{true, false} {
		body := `{"accessToken":"some_token"}`
		c, rec, uc, h := newTestContext(t, body)

		uc.EXPECT().ValidateAccessToken(mock.Anything, "some_token").Return(valid)

		require.NoError(t, h.Validate(c))

		// An invalid token is a normal answer, not an error status.
		assert.Equal(t, http.StatusOK, rec.Code)
		if valid {
			assert.Contains(t, rec.Body.String(), `"valid":true`)
		} else {
			assert.Contains(t, rec.Body.String(), `"valid":false`)
		}
	}
}

func TestAuthHandler_ListUsers_Success(t *testing.T) {
	c, rec, uc, h := newTestContext(t, "")

	uc.EXPECT().
		ListUsers(mock.Anything).
		Return([]*usecase.UserInfo{
			{ID: 1, Name: "Admin", Email: "admin@example.com", Roles: []string{"Admin"}},
			{ID: 2, Name: "User", Email: "user@example.com", Roles: []string{"User"}},
		}, nil)

	require.NoError(t, h.ListUsers(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, `"admin@example.com"`)
	assert.Contains(t, responseBody, `"user@example.com"`)
	assert.NotContains(t, responseBody, "passwordHash")
}
