package middleware

import (
	"context"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextPrincipalKey = "principal"

// TokenVerifier 由 AuthService 实现
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*service.Principal, *util.Claims, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c, "missing bearer token")
			return
		}

		principal, claims, err := verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("Token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.HandleError(c, err)
			return
		}

		c.Set(util.ContextClaimsKey, claims)
		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

func RoleMiddleware(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			util.Unauthorized(c, "Unauthorized")
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
	}
}

func GetPrincipal(c *gin.Context) *service.Principal {
	v, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := v.(*service.Principal)
	if !ok {
		return nil
	}
	return principal
}
