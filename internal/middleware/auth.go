package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/festy23/league_engine/internal/apperror"
	"github.com/festy23/league_engine/internal/config"
)

// RoleAdmin is the role claim required on write routes.
const RoleAdmin = "ADMIN"

// Claims are the bearer token claims the guard reads.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errMissingToken = errors.New("missing bearer token")

// AdminOnly rejects requests without an HS256 bearer token carrying the ADMIN
// role. A disabled config lets every request through.
func AdminOnly(cfg config.AuthConfig, logger *zap.SugaredLogger) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	secret := []byte(cfg.JWTSecret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		claims, err := parseBearer(parser, secret, c.GetHeader("Authorization"))
		if err == nil && claims.Role == RoleAdmin {
			c.Set("subject", claims.Subject)
			c.Next()
			return
		}
		logger.Debugw("admin guard rejected request",
			"path", c.FullPath(),
			"request_id", RequestIDFrom(c),
			"error", err,
		)
		c.AbortWithStatusJSON(http.StatusForbidden, apperror.Envelope{
			Code:    apperror.CodeForbidden,
			Message: "administrator role required",
			Level:   apperror.LevelWarning,
		})
	}
}

func parseBearer(parser *jwt.Parser, secret []byte, header string) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errMissingToken
	}
	claims := &Claims{}
	_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
