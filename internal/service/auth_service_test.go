package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasti/elearning-app/internal/domain"
)

const testJWTSecret = "test-secret-key"

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, testJWTSecret, 0), repo
}

func TestRegisterStudent(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), "Sara", "Alaoui", "sara@example.com", "password123", domain.RoleStudent, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.ID.IsZero())
}

func TestRegisterProfessorKeepsSpecialisation(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), "Hassan", "Laaouani", "laaouani@example.com", "password123", domain.RoleProfessor, "Physique")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProfessor, user.Role)
	assert.Equal(t, "Physique", user.Specialisation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Sara", "Alaoui", "sara@example.com", "password123", domain.RoleStudent, "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Autre", "Alaoui", "sara@example.com", "password456", domain.RoleStudent, "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _ := newAuthFixture()

	registered, err := svc.Register(context.Background(), "Sara", "Alaoui", "sara@example.com", "password123", domain.RoleStudent, "")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "sara@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Sara", "Alaoui", "sara@example.com", "password123", domain.RoleStudent, "")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "sara@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
