package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	"github.com/jobnest/jobnest-backend/internal/errors"
	"github.com/jobnest/jobnest-backend/internal/guard"
	"github.com/jobnest/jobnest-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
	SessionKey   = "session"
)

var errMalformedAuthHeader = stderrors.New("malformed authorization header")

// IdentityLookup reloads the identity behind a session
type IdentityLookup interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type AuthMiddleware struct {
	jwtSecret  string
	cookieName string
	identities IdentityLookup
}

// NewAuthMiddleware builds the session guard. When identities is non-nil every
// request reloads the identity so role changes and deactivation apply at once.
func NewAuthMiddleware(jwtSecret, cookieName string, identities IdentityLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:  jwtSecret,
		cookieName: cookieName,
		identities: identities,
	}
}

// Authenticate requires a valid session; anything unreadable is rejected with 401.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := m.tokenFromRequest(c)
		if err != nil {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Malformed authorization header")
			return
		}
		if token == "" {
			log.Warn("Missing session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Login required")
			return
		}

		claims, err := util.ValidateSessionToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Session validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid session")
			}
			return
		}

		session := &guard.Session{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   model.UserRole(claims.Role),
		}

		if m.identities != nil {
			user, err := m.identities.GetUserByID(c.Request.Context(), claims.UserID)
			if err != nil {
				if stderrors.Is(err, service.ErrUserNotFound) {
					log.Warn("Session refers to unknown user", map[string]interface{}{
						"user_id": claims.UserID,
					})
					errors.Unauthorized(c, "Invalid session")
					return
				}
				log.Error("Failed to revalidate session", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				errors.StorageUnavailable(c)
				return
			}
			if !user.Active {
				log.Warn("Session of deactivated user rejected", map[string]interface{}{
					"user_id": user.ID,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthAccountInactive, "Account is deactivated")
				return
			}
			if user.Role != session.Role {
				log.Info("Session role is stale, using current role", map[string]interface{}{
					"user_id":      user.ID,
					"session_role": session.Role,
					"current_role": user.Role,
				})
				session.Role = user.Role
			}
		}

		if decision := guard.Decide(session); !decision.Authenticated {
			log.Warn("Session carries unknown role", map[string]interface{}{
				"user_id": claims.UserID,
				"role":    claims.Role,
			})
			errors.Unauthorized(c, "Invalid session")
			return
		}

		c.Set(SessionKey, session)
		c.Set(UserIDKey, session.UserID)
		c.Set(UserEmailKey, session.Email)
		c.Set(UserRoleKey, session.Role)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": session.UserID,
			"role":    session.Role,
		})

		c.Next()
	}
}

// RequireRole admits sessions whose role is one of roles. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		session, _ := GetSession(c)
		decision := guard.Decide(session, roles...)

		switch decision.Reason {
		case guard.ReasonAdmitted:
			c.Next()
		case guard.ReasonUnauthenticated:
			log.Warn("Role check without session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthzRoleNotFound, "Login required")
		default:
			log.Warn("Insufficient permissions", map[string]interface{}{
				"user_id":        decision.Identity,
				"user_role":      decision.Role,
				"required_roles": roles,
				"path":           c.Request.URL.Path,
			})
			errors.Forbidden(c, "")
		}
	}
}

func (m *AuthMiddleware) tokenFromRequest(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errMalformedAuthHeader
		}
		return parts[1], nil
	}

	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", nil
	}
	return token, nil
}

// GetSession extracts the authenticated session from context
func GetSession(c *gin.Context) (*guard.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*guard.Session)
	return session, ok
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}
