package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
	appErrors "github.com/noah-isme/pln-intern-api/pkg/errors"
)

type authMentorRepository interface {
	GetByID(ctx context.Context, id string) (*models.Mentor, error)
	GetByNIP(ctx context.Context, nip string) (*models.Mentor, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret            string
	Expiry            time.Duration
	Issuer            string
	AdminUsername     string
	AdminPasswordHash string
}

// Session is the resolved identity for an authenticated request. Mentor
// sessions are re-validated against the store so a deleted mentor loses
// access on the next request even with a token that has not expired.
type Session struct {
	Role   models.Role
	Mentor *models.Mentor
}

// AuthService provides authentication use cases.
type AuthService struct {
	mentors   authMentorRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(mentors authMentorRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{mentors: mentors, validator: validate, logger: logger, config: config}
}

// LoginMentor authenticates a mentor by NIP and password.
func (s *AuthService) LoginMentor(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	mentor, err := s.mentors.GetByNIP(ctx, req.NIP)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid NIP or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mentor")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(mentor.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid NIP or password")
	}

	token, expiresAt, err := s.generateToken(mentor.ID, models.RoleMentor, mentor.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	clean := mentor.Sanitized()
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    time.Now().UTC(),
		Role:        models.RoleMentor,
		Mentor:      &clean,
	}, nil
}

// LoginAdmin authenticates against the shared admin credential.
func (s *AuthService) LoginAdmin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.AdminUsername)) == 1
	passwordOK := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(req.Password)) == nil
	if !usernameOK || !passwordOK {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	token, expiresAt, err := s.generateToken("admin", models.RoleAdmin, s.config.AdminUsername)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    time.Now().UTC(),
		Role:        models.RoleAdmin,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ResolveSession turns validated claims into a live session.
func (s *AuthService) ResolveSession(ctx context.Context, claims *models.JWTClaims) (*Session, error) {
	switch claims.Role {
	case models.RoleAdmin:
		return &Session{Role: models.RoleAdmin}, nil
	case models.RoleMentor:
		mentor, err := s.mentors.GetByID(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrUnauthorized, "mentor no longer exists")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
		}
		clean := mentor.Sanitized()
		return &Session{Role: models.RoleMentor, Mentor: &clean}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}
}

func (s *AuthService) generateToken(subjectID string, role models.Role, name string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.JWTClaims{
		SubjectID: subjectID,
		Role:      role,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
