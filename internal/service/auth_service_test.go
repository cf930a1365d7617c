package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type mockAuthMentorRepo struct {
	byID  map[string]*models.Mentor
	byNIP map[string]*models.Mentor
}

func newMockAuthMentorRepo(mentors ...*models.Mentor) *mockAuthMentorRepo {
	m := &mockAuthMentorRepo{byID: map[string]*models.Mentor{}, byNIP: map[string]*models.Mentor{}}
	for _, mentor := range mentors {
		m.byID[mentor.ID] = mentor
		m.byNIP[mentor.NIP] = mentor
	}
	return m
}

func (m *mockAuthMentorRepo) GetByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *mentor
	return &clone, nil
}

func (m *mockAuthMentorRepo) GetByNIP(ctx context.Context, nip string) (*models.Mentor, error) {
	mentor, ok := m.byNIP[nip]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *mentor
	return &clone, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T) (*AuthService, *models.Mentor) {
	t.Helper()
	mentor := &models.Mentor{
		ID: "m1", Name: "Budi", NIP: "100",
		PasswordHash: mustHash(t, "rahasia1"),
	}
	svc := NewAuthService(newMockAuthMentorRepo(mentor), nil, nil, AuthConfig{
		Secret:            "test-secret",
		Expiry:            time.Hour,
		Issuer:            "pln-intern-api",
		AdminUsername:     "admin",
		AdminPasswordHash: mustHash(t, "admin123"),
	})
	return svc, mentor
}

func TestLoginMentor(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.LoginMentor(context.Background(), models.LoginRequest{NIP: "100", Password: "rahasia1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleMentor, resp.Role)
	require.NotNil(t, resp.Mentor)
	assert.Empty(t, resp.Mentor.PasswordHash)
}

func TestLoginMentorWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.LoginMentor(context.Background(), models.LoginRequest{NIP: "100", Password: "wrong"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorCode(t, err))
}

func TestLoginMentorUnknownNIP(t *testing.T) {
	svc, _ := newAuthFixture(t)

	// An unknown NIP yields the same error as a wrong password so login
	// responses leak nothing about which NIPs exist.
	_, err := svc.LoginMentor(context.Background(), models.LoginRequest{NIP: "999", Password: "rahasia1"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorCode(t, err))
}

func TestLoginAdmin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Nil(t, resp.Mentor)

	_, err = svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "nope"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorCode(t, err))

	_, err = svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Username: "root", Password: "admin123"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorCode(t, err))
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, mentor := newAuthFixture(t)

	resp, err := svc.LoginMentor(context.Background(), models.LoginRequest{NIP: "100", Password: "rahasia1"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, mentor.ID, claims.SubjectID)
	assert.Equal(t, models.RoleMentor, claims.Role)
	assert.Equal(t, mentor.Name, claims.Name)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newAuthFixture(t)
	other := NewAuthService(newMockAuthMentorRepo(), nil, nil, AuthConfig{Secret: "other", Expiry: time.Hour})

	resp, err := svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))

	_, err = svc.ValidateToken("not-a-token")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))
}

func TestResolveSessionMentorDeleted(t *testing.T) {
	svc, _ := newAuthFixture(t)

	claims := &models.JWTClaims{SubjectID: "gone", Role: models.RoleMentor}
	_, err := svc.ResolveSession(context.Background(), claims)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))
}

func TestResolveSessionRoles(t *testing.T) {
	svc, mentor := newAuthFixture(t)
	ctx := context.Background()

	session, err := svc.ResolveSession(ctx, &models.JWTClaims{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.Role)
	assert.Nil(t, session.Mentor)

	session, err = svc.ResolveSession(ctx, &models.JWTClaims{SubjectID: mentor.ID, Role: models.RoleMentor})
	require.NoError(t, err)
	require.NotNil(t, session.Mentor)
	assert.Empty(t, session.Mentor.PasswordHash)

	_, err = svc.ResolveSession(ctx, &models.JWTClaims{Role: "GUEST"})
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))
}
