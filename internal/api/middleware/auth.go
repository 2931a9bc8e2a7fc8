package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Toms422/trial-master-pro/internal/pkg/jwthelper"
)

const (
	ContextKeyUserID = "userID"
	ContextKeyRoles  = "userRoles"
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Set(ContextKeyRoles, claims.Roles)
		ctx.Next()
	}
}

// RequireRoles passes when the principal holds at least one of the given
// roles. It must run after VerifyJWT.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		held, exists := ctx.Get(ContextKeyRoles)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no roles assigned"})
			return
		}

		heldRoles, ok := held.([]string)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no roles assigned"})
			return
		}

		for _, required := range roles {
			for _, role := range heldRoles {
				if role == required {
					ctx.Next()
					return
				}
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CallerID returns the authenticated user's id, or 0 for anonymous routes.
func CallerID(ctx *gin.Context) uint {
	id, exists := ctx.Get(ContextKeyUserID)
	if !exists {
		return 0
	}

	userID, ok := id.(uint)
	if !ok {
		return 0
	}

	return userID
}
