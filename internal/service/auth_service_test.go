package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plannersmart/internal/repository"
	"github.com/alexanderramin/plannersmart/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret-do-not-use")

func setupAuthService(t *testing.T, observers ...UseCaseObserver) (*authService, repository.UserRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := repository.NewSQLiteUserRepo(database)
	svc := NewAuthService(users, testutil.NewTestUoW(database), AuthConfig{
		Secret:     testSecret,
		BcryptCost: bcrypt.MinCost,
	}, observers...)
	return svc.(*authService), users
}

func TestRegister(t *testing.T) {
	svc, users := setupAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "secret1", "AIza-test-key-123")

	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
	assert.Equal(t, "AIza-test-key-123", stored.APIKey)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := setupAuthService(t)
	tests := []struct {
		name, user, pass, key, msg string
	}{
		{"missing username", "", "secret1", "key-0123456789", "required"},
		{"missing key", "bob", "secret1", "", "required"},
		{"short password", "bob", "12345", "key-0123456789", "at least 6"},
		{"short key", "bob", "secret1", "short", "too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.user, tt.pass, tt.key)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Msg, tt.msg)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "secret1", "key-0123456789")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "carol", "other-pass", "key-9876543210")

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, "dave", "secret1", "key-0123456789")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "dave", "secret1")

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "dave", claims.Username)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "erin", "secret1", "key-0123456789")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "erin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_Expired(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "frank", "secret1", "key-0123456789")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "frank", "secret1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Forged(t *testing.T) {
	svc, _ := setupAuthService(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsUnsignedToken(t *testing.T) {
	svc, _ := setupAuthService(t)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateAPIKey(t *testing.T) {
	svc, users := setupAuthService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, "gina", "secret1", "key-0123456789")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateAPIKey(ctx, u.ID, "  new-key-0123456789 "))
	key, err := users.GetAPIKey(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-key-0123456789", key)

	var verr *ValidationError
	assert.ErrorAs(t, svc.UpdateAPIKey(ctx, u.ID, "short"), &verr)
	assert.ErrorIs(t, svc.UpdateAPIKey(ctx, 9999, "key-0123456789"), repository.ErrNotFound)
}

func TestRegister_ObserverLogsUseCase(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := setupAuthService(t, NewLogUseCaseObserver(&buf))
	ctx := context.Background()

	_, err := svc.Register(ctx, "hank", "secret1", "key-0123456789")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "hank", "secret1", "key-0123456789")
	require.ErrorIs(t, err, ErrUsernameTaken)

	out := buf.String()
	assert.Contains(t, out, "use_case=register")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=WARN")
	assert.NotContains(t, out, "level=ERROR")
}
