package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prizehub/competitions-api/internal/models"
	"github.com/prizehub/competitions-api/internal/service"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
	"github.com/prizehub/competitions-api/pkg/response"
)

type userStoreMock struct {
	accounts map[string]*models.Account
	admins   map[string]*models.AdminUser
	tokens   map[string]*models.RefreshToken
}

func newUserStoreMock() *userStoreMock {
	return &userStoreMock{
		accounts: map[string]*models.Account{},
		admins:   map[string]*models.AdminUser{},
		tokens:   map[string]*models.RefreshToken{},
	}
}

func (m *userStoreMock) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	account, ok := m.accounts[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return account, nil
}

func (m *userStoreMock) CreateAccount(_ context.Context, account *models.Account) error {
	m.accounts[account.Email] = account
	return nil
}

func (m *userStoreMock) CreateUser(_ context.Context, _ *models.User) error {
	return nil
}

func (m *userStoreMock) FindAdminByUserID(_ context.Context, userID string) (*models.AdminUser, error) {
	admin, ok := m.admins[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return admin, nil
}

func (m *userStoreMock) CreateAdminUser(_ context.Context, admin *models.AdminUser) error {
	m.admins[admin.UserID] = admin
	return nil
}

func (m *userStoreMock) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *userStoreMock) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (m *userStoreMock) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *userStoreMock) seedAccount(t *testing.T, id, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	m.accounts[email] = &models.Account{ID: id, Email: email, PasswordHash: string(hash), Role: role}
}

func newAuthHandlerUnderTest(store *userStoreMock) *AuthHandler {
	svc := service.NewAuthService(store, service.AuthConfig{
		JWTSecret:         "handler-test-secret",
		TokenExpiration:   time.Minute,
		RefreshExpiration: time.Hour,
		Issuer:            "competitions-api-test",
	}, nil, nil)
	return NewAuthHandler(svc)
}

func jsonContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestAuthHandlerLoginAdmin(t *testing.T) {
	store := newUserStoreMock()
	store.seedAccount(t, "u1", "admin@example.com", "secret1", "")
	store.admins["u1"] = &models.AdminUser{UserID: "u1"}
	handler := newAuthHandlerUnderTest(store)

	c, w := jsonContext(t, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"secret1"}`)
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, string(models.SessionAuthenticatedAdmin), data["state"])
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])
	assert.Equal(t, "u1", data["userId"])
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	store := newUserStoreMock()
	store.seedAccount(t, "u1", "admin@example.com", "secret1", "")
	store.admins["u1"] = &models.AdminUser{UserID: "u1"}
	handler := newAuthHandlerUnderTest(store)

	c, w := jsonContext(t, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"nope"}`)
	handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, envelope.Error.Code)
	assert.Nil(t, envelope.Data)
}

func TestAuthHandlerLoginNonAdminRefused(t *testing.T) {
	store := newUserStoreMock()
	store.seedAccount(t, "u2", "user@example.com", "secret1", "")
	handler := newAuthHandlerUnderTest(store)

	c, w := jsonContext(t, http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"secret1"}`)
	handler.Login(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotAdmin.Code, envelope.Error.Code)
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	handler := newAuthHandlerUnderTest(newUserStoreMock())

	c, w := jsonContext(t, http.MethodPost, "/auth/login", `{"email":"admin@example.com"`)
	handler.Login(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerSignUpAdmin(t *testing.T) {
	store := newUserStoreMock()
	handler := newAuthHandlerUnderTest(store)

	c, w := jsonContext(t, http.MethodPost, "/auth/signup",
		`{"email":"new-admin@example.com","password":"secret12","confirmPassword":"secret12","role":"admin"}`)
	handler.SignUp(c)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	accountID, _ := data["accountId"].(string)
	require.NotEmpty(t, accountID)
	assert.Equal(t, true, data["provisioned"])
	assert.Contains(t, store.admins, accountID, "signup writes the membership row up front")
}

func TestAuthHandlerSignUpDuplicateEmail(t *testing.T) {
	store := newUserStoreMock()
	store.seedAccount(t, "u1", "taken@example.com", "secret1", "")
	handler := newAuthHandlerUnderTest(store)

	c, w := jsonContext(t, http.MethodPost, "/auth/signup",
		`{"email":"taken@example.com","password":"secret12","confirmPassword":"secret12"}`)
	handler.SignUp(c)

	require.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, envelope.Error.Code)
}
