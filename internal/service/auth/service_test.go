package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-leave-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func setupAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	employees := testutil.NewEmployeeStore(
		employee.Employee{ID: 1, Name: "Ada", Email: "admin@example.com", PasswordHash: &hash, Role: employee.RoleAdmin},
		employee.Employee{ID: 2, Name: "Ben", Email: "ben@example.com", Role: employee.RoleEmployee},
	)
	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService(employees, jwtService), jwtService
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtService := setupAuthService(t)

	// Act
	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "Admin@Example.com", Password: "password123"})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(1), resp.EmployeeID)
	assert.Equal(t, "admin", resp.Role)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))

	token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, ok := jwtService.ParseClaims(token.PrivateClaims())
	require.True(t, ok)
	assert.Equal(t, int64(1), claims.EmployeeID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "nope"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ghost@example.com", Password: "password123"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_NoPasswordSet(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ben@example.com", Password: "anything"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	empty, err := HashPassword("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
