package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ActorIDHeader carries the authenticated user id set by the upstream gateway
	ActorIDHeader = "X-Actor-ID"

	// ActorOrgHeader carries the actor's organization id
	ActorOrgHeader = "X-Actor-Org"

	// ActorRoleHeader carries the actor's role; "admin" bypasses ownership checks
	ActorRoleHeader = "X-Actor-Role"

	actorIDKey    = "actor_id"
	actorOrgKey   = "actor_org_id"
	actorAdminKey = "actor_is_admin"
)

// Actor middleware extracts the authenticated actor identity from the trusted
// gateway headers. Authentication itself happens upstream; requests without a
// parseable actor id proceed with a nil actor and are rejected by handlers
// that require one.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorID, err := uuid.Parse(c.GetHeader(ActorIDHeader)); err == nil {
			c.Set(actorIDKey, actorID)
		}
		if orgID, err := uuid.Parse(c.GetHeader(ActorOrgHeader)); err == nil {
			c.Set(actorOrgKey, orgID)
		}
		c.Set(actorAdminKey, c.GetHeader(ActorRoleHeader) == "admin")

		c.Next()
	}
}

// GetActorID retrieves the actor id from the gin context, uuid.Nil if absent
func GetActorID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(actorIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetActorOrgID retrieves the actor's organization id, uuid.Nil if absent
func GetActorOrgID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(actorOrgKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// IsActorAdmin reports whether the actor carries the admin role
func IsActorAdmin(c *gin.Context) bool {
	if v, exists := c.Get(actorAdminKey); exists {
		if admin, ok := v.(bool); ok {
			return admin
		}
	}
	return false
}
