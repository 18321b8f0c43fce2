package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/internal/db"
	"github.com/ikkim/kidsshop-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAuthService(
		repository.NewUserRepository(testDB),
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    RegisterInput
		wantErr  error
		wantMail string
	}{
		{
			name: "Valid registration",
			input: RegisterInput{
				Email:    "Parent@Example.com ",
				Password: "password123",
				Name:     "Test Parent",
				Phone:    "+1 555 0100",
			},
			wantMail: "parent@example.com",
		},
		{
			name: "Duplicate email with different case",
			input: RegisterInput{
				Email:    "parent@example.COM",
				Password: "password456",
				Name:     "Another Parent",
			},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name: "Password too short",
			input: RegisterInput{
				Email:    "short@example.com",
				Password: "short",
				Name:     "Short",
			},
			wantErr: util.ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			require.NotNil(t, tokens)
			assert.Equal(t, tt.wantMail, user.Email)
			assert.Equal(t, tt.input.Name, user.Name)
			assert.Equal(t, model.RoleUser, user.Role)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)
	ctx := context.Background()

	registered, _, err := authService.Register(ctx, RegisterInput{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login User",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"Valid credentials", "login@example.com", "password123", nil},
		{"Email is case-insensitive", "LOGIN@example.com", "password123", nil},
		{"Wrong password", "login@example.com", "wrongpassword", ErrInvalidCredentials},
		{"Unknown email", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
			assert.NotEmpty(t, tokens.AccessToken)
		})
	}
}

func TestAuthService_TokenGeneration(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register(context.Background(), RegisterInput{
		Email:    "token@example.com",
		Password: "password123",
		Name:     "Token User",
	})
	require.NoError(t, err)

	claims, err := util.ValidateAccessToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, string(model.RoleUser), claims.Role)

	_, err = util.ValidateAccessToken(tokens.RefreshToken, testJWTSecret)
	assert.ErrorIs(t, err, util.ErrInvalidToken)

	_, err = util.ValidateAccessToken(tokens.AccessToken, "another-secret")
	assert.Error(t, err)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t)
	ctx := context.Background()

	user, _, err := authService.Register(ctx, RegisterInput{
		Email:    "get@example.com",
		Password: "password123",
		Name:     "Get User",
	})
	require.NoError(t, err)

	found, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetUserByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)
	ctx := context.Background()

	user, _, err := authService.Register(ctx, RegisterInput{
		Email:    "profile@example.com",
		Password: "password123",
		Name:     "Before",
		Phone:    "+1 555 0100",
	})
	require.NoError(t, err)

	name := " After "
	address := "2 Elm St"
	updated, err := authService.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Name:    &name,
		Address: &address,
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "2 Elm St", updated.Address)
	assert.Equal(t, "+1 555 0100", updated.Phone)

	reloaded, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", reloaded.Name)

	_, err = authService.UpdateProfile(ctx, 0, ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = authService.UpdateProfile(ctx, 99999, ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
