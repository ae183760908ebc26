package middleware

import (
	"carrental/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// SetIdentity stores an authenticated identity. JWTAuth passes an empty role;
// LoadProfile fills it in later.
func SetIdentity(c *gin.Context, userID uuid.UUID, role access.Role) {
	c.Set(ctxUserID, userID)
	if role != "" {
		c.Set(ctxRole, role)
	}
}

func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func CurrentEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

func CurrentRole(c *gin.Context) (access.Role, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(access.Role)
	return role, ok
}

// CurrentActor returns the identity and loaded role of the caller.
func CurrentActor(c *gin.Context) (access.Actor, bool) {
	id, ok := CurrentUserID(c)
	if !ok {
		return access.Actor{}, false
	}
	role, ok := CurrentRole(c)
	if !ok {
		return access.Actor{}, false
	}
	return access.Actor{UserID: id, Role: role}, true
}

func subject(c *gin.Context) access.Subject {
	_, authed := CurrentUserID(c)
	role, loaded := CurrentRole(c)
	return access.Subject{Authenticated: authed, ProfileLoaded: loaded, Role: role}
}
