package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("  Mentor ")
	require.NoError(t, err)
	assert.Equal(t, RoleMentor, role)

	role, err = ParseRole("STUDENT")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, role)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRoleCanAuthorTests(t *testing.T) {
	assert.True(t, RoleAdmin.CanAuthorTests())
	assert.True(t, RoleMentor.CanAuthorTests())
	assert.False(t, RoleStudent.CanAuthorTests())
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(NewUserParams{
		ID:           "u1",
		Username:     "aziz",
		PasswordHash: "$2a$10$hash",
		FirstName:    " Aziz ",
		LastName:     "Karimov",
		Role:         RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, "aziz", u.Username)
	assert.Equal(t, "Aziz", u.FirstName)
	assert.Equal(t, RoleStudent, u.Role)
}

func TestNewUser_Validation(t *testing.T) {
	base := NewUserParams{
		ID:           "u1",
		Username:     "aziz",
		PasswordHash: "hash",
		Role:         RoleStudent,
	}

	short := base
	short.Username = "ab"
	_, err := NewUser(short)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	spaced := base
	spaced.Username = "aziz karimov"
	_, err = NewUser(spaced)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	noHash := base
	noHash.PasswordHash = ""
	_, err = NewUser(noHash)
	assert.Error(t, err)

	badRole := base
	badRole.Role = Role("root")
	_, err = NewUser(badRole)
	assert.ErrorIs(t, err, ErrInvalidRole)
}
