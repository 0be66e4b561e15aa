package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestActorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(req *http.Request) (uuid.UUID, uuid.UUID, bool) {
		router := gin.New()
		router.Use(Actor())
		var gotActor, gotOrg uuid.UUID
		var gotAdmin bool
		router.GET("/test", func(c *gin.Context) {
			gotActor = GetActorID(c)
			gotOrg = GetActorOrgID(c)
			gotAdmin = IsActorAdmin(c)
			c.Status(http.StatusOK)
		})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return gotActor, gotOrg, gotAdmin
	}

	t.Run("ExtractsActorIdentityFromHeaders", func(t *testing.T) {
		actorID := uuid.New()
		orgID := uuid.New()

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(ActorIDHeader, actorID.String())
		req.Header.Set(ActorOrgHeader, orgID.String())

		gotActor, gotOrg, gotAdmin := serve(req)

		assert.Equal(t, actorID, gotActor)
		assert.Equal(t, orgID, gotOrg)
		assert.False(t, gotAdmin)
	})

	t.Run("AdminRoleHeader", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(ActorIDHeader, uuid.New().String())
		req.Header.Set(ActorRoleHeader, "admin")

		_, _, gotAdmin := serve(req)

		assert.True(t, gotAdmin)
	})

	t.Run("NonAdminRoleIsNotAdmin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(ActorIDHeader, uuid.New().String())
		req.Header.Set(ActorRoleHeader, "accountant")

		_, _, gotAdmin := serve(req)

		assert.False(t, gotAdmin)
	})

	t.Run("MissingHeadersYieldNilActor", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)

		gotActor, gotOrg, gotAdmin := serve(req)

		assert.Equal(t, uuid.Nil, gotActor)
		assert.Equal(t, uuid.Nil, gotOrg)
		assert.False(t, gotAdmin)
	})

	t.Run("UnparseableActorIDYieldsNilActor", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(ActorIDHeader, "not-a-uuid")

		gotActor, _, _ := serve(req)

		assert.Equal(t, uuid.Nil, gotActor)
	})
}

func TestActorContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ReturnNilValuesOnEmptyContext", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Equal(t, uuid.Nil, GetActorID(c))
		assert.Equal(t, uuid.Nil, GetActorOrgID(c))
		assert.False(t, IsActorAdmin(c))
	})

	t.Run("IgnoreWronglyTypedValues", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(actorIDKey, "not-a-uuid-type")
		c.Set(actorAdminKey, "yes")

		assert.Equal(t, uuid.Nil, GetActorID(c))
		assert.False(t, IsActorAdmin(c))
	})
}
