package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/knufflepuffle/lfg-bot/internal/lib/jwt"
)

const SubjectKey = "subject"

type AuthMiddleware struct {
	log    *slog.Logger
	secret string
}

func NewAuthMiddleware(log *slog.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{log: log, secret: secret}
}

// Middleware rejects requests without a valid bearer token.
func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractTokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		subject, err := jwt.Parse(token, m.secret)
		if err != nil {
			m.log.Debug("rejected status api token", slog.String("path", c.Request.URL.Path), sl.Err(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
