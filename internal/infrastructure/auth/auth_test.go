package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
)

func newAccount(t *testing.T, role user.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(user.NewUserParams{
		ID:           "u1",
		Username:     "aziz",
		PasswordHash: "$2a$10$stub",
		FirstName:    "Aziz",
		LastName:     "Karimov",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func TestTokenService_IssueVerifyRoundtrip(t *testing.T) {
	svc, err := NewTokenService("test-secret", "coinmarkaz", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(newAccount(t, user.RoleStudent))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "coinmarkaz", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-one", "coinmarkaz", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-two", "coinmarkaz", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(newAccount(t, user.RoleAdmin))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, err := NewTokenService("test-secret", "coinmarkaz", time.Hour)
	require.NoError(t, err)

	// TTL below zero falls back to the default in the constructor, so expiry
	// is forced by swapping in an already negative lifetime.
	svc.ttl = -time.Minute

	token, err := svc.Issue(newAccount(t, user.RoleMentor))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc, err := NewTokenService("test-secret", "coinmarkaz", time.Hour)
	require.NoError(t, err)

	for _, tokenString := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err = svc.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", "coinmarkaz", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService("test-secret", "coinmarkaz", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, svc.TTL())
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Verify(hash, "correct horse battery"))
	assert.ErrorIs(t, hasher.Verify(hash, "wrong password"), ErrPasswordMismatch)
}

func TestPasswordHasher_RejectsShortPassword(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(-1).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}
