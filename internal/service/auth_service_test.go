package service

import (
	"context"
	"testing"
	"time"

	"sebino/rowing-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newAuthFixture() (*fakeUserRepo, AuthService) {
	users := newFakeUserRepo()
	return users, NewAuthService(users, testJWTSecret, time.Hour)
}

func TestRegister_DefaultsToAthleteRole(t *testing.T) {
	_, svc := newAuthFixture()

	user, err := svc.Register(context.Background(), "anna.rossi", "sicurissima1", "Anna", "Rossi", nil)
	require.NoError(t, err)
	require.True(t, user.HasRole(domain.RoleAthlete))
	require.Empty(t, user.PasswordHash, "hash must not leak out of registration")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), "anna.rossi", "sicurissima1", "Anna", "Rossi", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "anna.rossi", "altrapassword", "Annina", "Rossini", nil)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), "coach.bruno", "sicurissima1", "Bruno", "Verdi", []domain.Role{domain.RoleCoach, domain.RoleAthlete})
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "coach.bruno", "sicurissima1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, user.HasRole(domain.RoleCoach))

	// The token carries the user's full role set.
	claims := struct {
		UserID string        `json:"uid"`
		Roles  []domain.Role `json:"roles"`
		jwt.RegisteredClaims
	}{}
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), claims.UserID)
	require.ElementsMatch(t, []domain.Role{domain.RoleCoach, domain.RoleAthlete}, claims.Roles)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), "anna.rossi", "sicurissima1", "Anna", "Rossi", nil)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "anna.rossi", "sbagliata")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_UnknownUser(t *testing.T) {
	_, svc := newAuthFixture()

	_, _, err := svc.Login(context.Background(), "nessuno", "whatever")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}
