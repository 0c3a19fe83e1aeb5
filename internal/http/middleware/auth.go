package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/botanex/marketplace-backend/internal/http/response"
	"github.com/botanex/marketplace-backend/internal/logger"
)

// AdminMiddleware gates the batch-trigger endpoints behind a bearer token
// carrying role=admin. Full user auth lives in the auth service; the engine
// only needs to know the caller is an operator.
type AdminMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAdminMiddleware(log *logger.Logger, secret string) *AdminMiddleware {
	return &AdminMiddleware{
		log:    log.With("middleware", "AdminMiddleware"),
		secret: []byte(secret),
	}
}

func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.RespondError(c, http.StatusUnauthorized, "missing_token", fmt.Errorf("missing bearer token"))
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			response.RespondError(c, http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid bearer token"))
			c.Abort()
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
