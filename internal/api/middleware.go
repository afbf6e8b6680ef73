package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sebino/rowing-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextUserRolesKey = "userRoles"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT.
type jwtClaims struct {
	UserID string        `json:"uid"`
	Roles  []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" || len(claims.Roles) == 0 {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		// Token is valid; expose the caller to downstream handlers.
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRolesKey, claims.Roles)

		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware creates middleware to check if the user carries any of
// the required role tags. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesRaw, exists := c.Get(ContextUserRolesKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "User roles not found in context")
			return
		}
		userRoles, ok := rolesRaw.([]domain.Role)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid user roles type in context")
			return
		}

		// A user with a set of roles passes when any of them matches.
		allowed := false
		for _, allowedRole := range allowedRoles {
			for _, userRole := range userRoles {
				if userRole == allowedRole {
					allowed = true
					break
				}
			}
			if allowed {
				break
			}
		}
		if !allowed {
			abortWithError(c, http.StatusForbidden, "Access denied: insufficient role")
			return
		}

		c.Next()
	}
}

// getUserIDFromContext returns the authenticated user's ObjectID.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return primitive.ObjectIDFromHex(idStr)
}

// getUserRolesFromContext returns the authenticated user's role set.
func getUserRolesFromContext(c *gin.Context) ([]domain.Role, error) {
	rolesRaw, exists := c.Get(ContextUserRolesKey)
	if !exists {
		return nil, errors.New("user roles not found in context")
	}
	roles, ok := rolesRaw.([]domain.Role)
	if !ok {
		return nil, errors.New("invalid user roles type in context")
	}
	return roles, nil
}

// callerHasRole reports whether the authenticated caller carries the role.
func callerHasRole(c *gin.Context, role domain.Role) bool {
	roles, err := getUserRolesFromContext(c)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// callerIsStaff reports whether the caller is a coach or admin.
func callerIsStaff(c *gin.Context) bool {
	return callerHasRole(c, domain.RoleCoach) || callerHasRole(c, domain.RoleAdmin)
}
