package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eadebayo/delicioso/config"
	"github.com/eadebayo/delicioso/pkg/helpers"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	cfg := &config.Config{ResetPasswordURL: "http://localhost/reset-password"}
	return NewAuthService(users, jwt, nil, nil, cfg), users
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	u, token, exp, err := svc.Register(ctx, "Ada", "Ada@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))
	assert.Equal(t, "ada@example.com", u.Email)

	// registering the same address again fails
	_, _, _, err = svc.Register(ctx, "Eve", "ada@example.com", "different-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, _, err = svc.Login(ctx, "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	u, token, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPasswordChangeRevokesOldTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	u, oldToken, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	// the change timestamp is backdated one second, so wait two to land it
	// strictly after the old token's iat second
	time.Sleep(2 * time.Second)

	newToken, _, err := svc.UpdatePassword(ctx, u.ID, "hunter2hunter2", "newpassword99")
	require.NoError(t, err)

	// the fresh token works, the pre-change one does not
	_, err = svc.Authenticate(ctx, newToken)
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, oldToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdatePasswordNeedsCurrentPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	u, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = svc.UpdatePassword(ctx, u.ID, "wrong-current", "newpassword99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeactivatedUserCannotAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthFixture()

	u, token, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, users.Deactivate(ctx, u.ID))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, _, err = svc.Login(ctx, "ada@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPasswordIsSilentForUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
}

func TestResetTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthFixture()

	u, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	// issue a token the way ForgotPassword would, keeping the raw value
	raw, hash, expires, err := helpers.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, users.SetResetToken(ctx, u.ID, hash, expires))

	got, token, _, err := svc.ResetPassword(ctx, raw, "brand-new-pass1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token)

	// consuming it again fails
	_, _, _, err = svc.ResetPassword(ctx, raw, "another-pass123")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	// and the new password is live
	_, _, _, err = svc.Login(ctx, "ada@example.com", "brand-new-pass1")
	assert.NoError(t, err)
}

func TestExpiredResetTokenRejected(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthFixture()

	u, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	raw, hash, _, err := helpers.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, users.SetResetToken(ctx, u.ID, hash, time.Now().Add(-time.Minute)))

	_, _, _, err = svc.ResetPassword(ctx, raw, "brand-new-pass1")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
