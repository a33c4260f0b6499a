package handlers

import (
	"log/slog"
	"net/http"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/knufflepuffle/lfg-bot/internal/lib/jwt"
	"golang.org/x/crypto/bcrypt"
)

const operatorSubject = "operator"

// AuthHandler trades the operator password for a status api token.
type AuthHandler struct {
	log      *slog.Logger
	passHash []byte
	secret   string
	tokenTTL time.Duration
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// NewAuthHandler takes a bcrypt hash. An empty hash disables login.
func NewAuthHandler(log *slog.Logger, passHash, secret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		log:      log,
		passHash: []byte(passHash),
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	if len(h.passHash) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "login is disabled"})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passHash, []byte(req.Password)); err != nil {
		h.log.Info("invalid credentials", slog.String("ip", c.ClientIP()), sl.Err(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := jwt.NewToken(operatorSubject, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Error("failed to generate token", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": int64(h.tokenTTL.Seconds())})
}
