package service

import (
	"crypto/subtle"
	"time"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/pkg/jwt"
)

// Subjects carried in issued tokens.
const (
	SubjectAnonymous = "anonymous"
	SubjectAdmin     = "admin"
)

type AuthService interface {
	// AnonymousSession issues the staff token every device gets on launch.
	AnonymousSession() (*LoginResponse, error)
	AdminLogin(username, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token      string      `json:"token"`
	ExpiresAt  time.Time   `json:"expires_at"`
	Role       *model.Role `json:"role"`
	Privileges []string    `json:"privileges"` // Flat privileges array for easy checking
}

type TokenValidationResponse struct {
	Subject    string      `json:"subject"`
	Role       *model.Role `json:"role"`
	Privileges []string    `json:"privileges"`
}

// AdminCredential is the shared administrator login.
type AdminCredential struct {
	Username string
	Password string
}

type authService struct {
	tokens *jwt.Manager
	admin  AdminCredential
}

func NewAuthService(tokens *jwt.Manager, admin AdminCredential) AuthService {
	return &authService{tokens: tokens, admin: admin}
}

func (s *authService) AnonymousSession() (*LoginResponse, error) {
	return s.issue(SubjectAnonymous, model.RoleStaff)
}

func (s *authService) AdminLogin(username, password string) (*LoginResponse, error) {
	// 1. Compare both fields in constant time
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !userOK || !passOK || s.admin.Username == "" {
		return nil, ErrInvalidCredentials
	}

	// 2. Generate token with the admin role
	return s.issue(SubjectAdmin, model.RoleAdmin)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, apperr.Auth(err.Error())
	}

	role := model.FindRole(claims.RoleCode)
	if role == nil {
		return nil, apperr.Auth("unknown role")
	}

	return &TokenValidationResponse{
		Subject:    claims.Subject,
		Role:       role,
		Privileges: claims.Privileges,
	}, nil
}

func (s *authService) issue(subject, roleCode string) (*LoginResponse, error) {
	role := model.FindRole(roleCode)
	privileges := model.PrivilegesFor(roleCode)

	token, claims, err := s.tokens.GenerateToken(subject, roleCode, privileges)
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		ExpiresAt:  claims.ExpiresAt.Time,
		Role:       role,
		Privileges: privileges,
	}, nil
}
