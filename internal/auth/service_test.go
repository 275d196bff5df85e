package auth_test

import (
	"context"
	"testing"

	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/0x029Ax0/starter-kit-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*auth.Service, *auth.TokenService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	tokens := testutil.CreateTestTokenService(db)
	return auth.NewService(db, tokens), tokens, db
}

func sessionFor(t *testing.T, tokens *auth.TokenService, user *models.User) *auth.Session {
	t.Helper()

	token := testutil.IssueTestToken(t, tokens, user)
	claims, err := tokens.Validate(context.Background(), token)
	require.NoError(t, err)

	return &auth.Session{User: user, TokenID: claims.TokenID}
}

func TestService_Login(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "login@example.com")

	t.Run("correct credentials", func(t *testing.T) {
		got, err := svc.Login(ctx, user.Email, testutil.TestPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, user.Email, "not-the-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", testutil.TestPassword)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_Register(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	t.Run("creates a verified user with a hashed password", func(t *testing.T) {
		user, err := svc.Register(ctx, auth.RegisterInput{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "securepassword123",
		})
		require.NoError(t, err)

		assert.True(t, user.EmailVerified())
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "securepassword123", user.PasswordHash)
		assert.True(t, auth.CheckPassword("securepassword123", user.PasswordHash))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{
			Name:     "Other User",
			Email:    "new@example.com",
			Password: "anotherpassword",
		})
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestService_RecoverAccount(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "recover@example.com")

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		err := svc.RecoverAccount(ctx, "nobody@example.com")
		require.NoError(t, err)

		var count int64
		db.Model(&models.User{}).Where("email = ?", "nobody@example.com").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("known email gets a fresh code each time", func(t *testing.T) {
		require.NoError(t, svc.RecoverAccount(ctx, user.Email))

		var first models.User
		require.NoError(t, db.First(&first, "id = ?", user.ID).Error)
		assert.NotEmpty(t, first.PasswordRecoveryCode)

		require.NoError(t, svc.RecoverAccount(ctx, user.Email))

		var second models.User
		require.NoError(t, db.First(&second, "id = ?", user.ID).Error)
		assert.NotEmpty(t, second.PasswordRecoveryCode)
		assert.NotEqual(t, first.PasswordRecoveryCode, second.PasswordRecoveryCode)
	})
}

func TestService_ResetPassword(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "reset@example.com")
	require.NoError(t, svc.RecoverAccount(ctx, user.Email))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	code := stored.PasswordRecoveryCode

	t.Run("wrong code leaves the password untouched", func(t *testing.T) {
		err := svc.ResetPassword(ctx, user.Email, "bogus-code", "newpassword123")
		assert.ErrorIs(t, err, auth.ErrInvalidRecoveryCode)

		_, err = svc.Login(ctx, user.Email, testutil.TestPassword)
		assert.NoError(t, err)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "nobody@example.com", code, "newpassword123")
		assert.ErrorIs(t, err, auth.ErrInvalidRecoveryCode)
	})

	t.Run("correct code resets and clears itself", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, user.Email, code, "newpassword123"))

		_, err := svc.Login(ctx, user.Email, "newpassword123")
		assert.NoError(t, err)

		_, err = svc.Login(ctx, user.Email, testutil.TestPassword)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		var after models.User
		require.NoError(t, db.First(&after, "id = ?", user.ID).Error)
		assert.Empty(t, after.PasswordRecoveryCode)

		// The code is single-use.
		err = svc.ResetPassword(ctx, user.Email, code, "yetanotherpassword")
		assert.ErrorIs(t, err, auth.ErrInvalidRecoveryCode)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "verify@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"email_verified_at":       nil,
		"email_verification_code": "verify-me-123",
	}).Error)

	t.Run("unknown email is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.VerifyEmail(ctx, "nobody@example.com", "whatever"))
	})

	t.Run("wrong code fails", func(t *testing.T) {
		err := svc.VerifyEmail(ctx, user.Email, "wrong-code")
		assert.ErrorIs(t, err, auth.ErrInvalidVerificationCode)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.False(t, stored.EmailVerified())
	})

	t.Run("matching code verifies and clears the code", func(t *testing.T) {
		require.NoError(t, svc.VerifyEmail(ctx, user.Email, "verify-me-123"))

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.True(t, stored.EmailVerified())
		assert.Empty(t, stored.EmailVerificationCode)
	})
}

func TestService_Logout(t *testing.T) {
	svc, tokens, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "logout@example.com")
	charID := uuid.New()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("active_character_id", &charID).Error)

	session := sessionFor(t, tokens, user)
	require.NoError(t, svc.Logout(ctx, session))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Nil(t, stored.ActiveCharacterID)

	var count int64
	db.Model(&models.AccessToken{}).Where("id = ?", session.TokenID).Count(&count)
	assert.Zero(t, count)
}

func TestService_ChangePassword(t *testing.T) {
	svc, tokens, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "changepw@example.com")
	session := sessionFor(t, tokens, user)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, session, "not-the-password", "brandnewpassword")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("correct current password", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, session, testutil.TestPassword, "brandnewpassword"))

		_, err := svc.Login(ctx, user.Email, "brandnewpassword")
		assert.NoError(t, err)

		_, err = svc.Login(ctx, user.Email, testutil.TestPassword)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	svc, tokens, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "profile@example.com")
	other := testutil.CreateTestUser(t, db, "taken@example.com")
	session := sessionFor(t, tokens, user)

	t.Run("updates name and email", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, session, "Renamed", "renamed@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "renamed@example.com", updated.Email)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.Equal(t, "Renamed", stored.Name)
		assert.Equal(t, "renamed@example.com", stored.Email)
	})

	t.Run("keeping own email is fine", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, session, "Renamed Again", "renamed@example.com", "")
		assert.NoError(t, err)
	})

	t.Run("colliding with another user fails", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, session, "Renamed", other.Email, "")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("stores the avatar path when given", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, session, "Renamed", "renamed@example.com", "storage/images/avatars/a.png")
		require.NoError(t, err)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.Equal(t, "storage/images/avatars/a.png", stored.AvatarURL)
	})
}

func TestService_DeleteAccount(t *testing.T) {
	svc, tokens, db := setupService(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "delete@example.com")

	// A second token simulates another device's session.
	testutil.IssueTestToken(t, tokens, user)
	session := sessionFor(t, tokens, user)

	require.NoError(t, svc.DeleteAccount(ctx, session))

	var userCount int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&userCount)
	assert.Zero(t, userCount)

	var tokenCount int64
	db.Model(&models.AccessToken{}).Where("user_id = ?", user.ID).Count(&tokenCount)
	assert.Zero(t, tokenCount)
}
