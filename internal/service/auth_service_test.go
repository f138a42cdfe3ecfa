package service

import (
	"testing"
	"time"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth() AuthService {
	return NewAuthService(jwt.NewManager("test-secret", time.Hour, "test"), AdminCredential{Username: "adm", Password: "Uerj@2008"})
}

func TestAuth_AnonymousSessionIsStaff(t *testing.T) {
	auth := newAuth()

	resp, err := auth.AnonymousSession()
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, resp.Role.Code)
	assert.Contains(t, resp.Privileges, model.PrivOrderCreate)
	assert.NotContains(t, resp.Privileges, model.PrivProductCreate)

	v, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, SubjectAnonymous, v.Subject)
	assert.Equal(t, resp.Privileges, v.Privileges)
}

func TestAuth_AdminLogin(t *testing.T) {
	auth := newAuth()

	resp, err := auth.AdminLogin("adm", "Uerj@2008")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role.Code)
	assert.Contains(t, resp.Privileges, model.PrivReportView)

	_, err = auth.AdminLogin("adm", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.AdminLogin("", "")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestAuth_ValidateRejectsGarbage(t *testing.T) {
	_, err := newAuth().ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}
