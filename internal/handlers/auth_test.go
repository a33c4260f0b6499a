package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/knufflepuffle/lfg-bot/internal/lib/jwt"
	"github.com/knufflepuffle/lfg-bot/internal/lib/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func login(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	password := gofakeit.Password(true, true, true, false, false, 16)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewAuthHandler(logger.NewDiscard(), string(hash), "secret", time.Hour)

	w := login(t, h, `{"password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	subject, err := jwt.Parse(resp.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, operatorSubject, subject)
}

func TestAuthHandler_Login_Rejects(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewAuthHandler(logger.NewDiscard(), string(hash), "secret", time.Hour)

	assert.Equal(t, http.StatusUnauthorized, login(t, h, `{"password":"wrong"}`).Code)
	assert.Equal(t, http.StatusBadRequest, login(t, h, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, login(t, h, `not json`).Code)
}

func TestAuthHandler_Login_Disabled(t *testing.T) {
	h := NewAuthHandler(logger.NewDiscard(), "", "secret", time.Hour)

	assert.Equal(t, http.StatusNotFound, login(t, h, `{"password":"anything"}`).Code)
}
