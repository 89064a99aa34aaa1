package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/session"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the session cookie, confirms the user still
// exists, and puts userID/username/role into the request context. Role
// comes from the session payload; a role edit revokes the user's
// sessions, so a stale cached role cannot outlive the change.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil || !as.Role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("username", u.Username)
		c.Set("role", as.Role)

		c.Next()
	}
}

// Can gates a route group on one capability of the closed role enum.
// The decision happens here, once, instead of ad hoc role-string checks
// inside handlers.
func Can(check func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("role")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		role, _ := v.(models.Role)
		if !role.Valid() || !check(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUserID reads the id set by AuthRequired.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	id, _ := v.(string)
	return id
}

// CurrentRole reads the role set by AuthRequired.
func CurrentRole(c *gin.Context) models.Role {
	v, _ := c.Get("role")
	role, _ := v.(models.Role)
	return role
}
