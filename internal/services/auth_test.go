package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/repos"
)

func newAuthFixture(t *testing.T) (AuthService, repos.UserRepo) {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	return NewAuthService(db, log, userRepo, "test-secret"), userRepo
}

func TestSignupAndSignin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "alice", "Alice@Example.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized to lowercase")
	assert.NotEqual(t, "password1", user.Password, "password must be stored hashed")

	signedIn, token2, err := svc.Signin(ctx, "ALICE@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotEmpty(t, token2)
}

func TestSignupDuplicates(t *testing.T) {
	svc, userRepo := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "bob", "alice@example.com", "password1")
	require.Error(t, err)
	apiErr := apierr.From(err)
	assert.Equal(t, 403, apiErr.Status)
	assert.Equal(t, apierr.CodeConflict, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "email")

	_, _, err = svc.Signup(ctx, "alice", "other@example.com", "password1")
	require.Error(t, err)
	apiErr = apierr.From(err)
	assert.Equal(t, apierr.CodeConflict, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "username")

	// Neither rejected attempt created a row.
	count, err := userRepo.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, _, err = svc.Signin(ctx, "nobody@example.com", "password1")
	require.Error(t, err)
	assert.Equal(t, 401, apierr.From(err).Status)

	_, _, err = svc.Signin(ctx, "alice@example.com", "wrongpassword")
	require.Error(t, err)
	assert.Equal(t, 401, apierr.From(err).Status)
}

func TestVerifyRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	verified, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, user.Email, verified.Email)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(ctx, token)
		require.Error(t, err)
		assert.Equal(t, 401, apierr.From(err).Status)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	svcA := NewAuthService(db, log, userRepo, "secret-a")
	svcB := NewAuthService(db, log, userRepo, "secret-b")
	ctx := context.Background()

	_, token, err := svcA.Signup(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = svcB.Verify(ctx, token)
	require.Error(t, err)
	assert.Equal(t, 401, apierr.From(err).Status)
}

func TestVerifyUnknownUser(t *testing.T) {
	svc, userRepo := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := svc.Signup(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = userRepo.DeleteAll(ctx, nil)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token)
	require.Error(t, err)
	assert.Equal(t, 401, apierr.From(err).Status)
}
