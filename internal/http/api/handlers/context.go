package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/models"
	"github.com/router-for-me/calculator-api/internal/settings"
	"github.com/router-for-me/calculator-api/internal/store"
)

const currentUserKey = "currentUser"

// Outward messages for authentication failures.
const (
	MessageNotAuthenticated   = "Not authenticated"
	MessageUnauthorized       = "Could not validate credentials"
	MessageInvalidCredentials = "Incorrect username or password"
)

// SetCurrentUser stores the authenticated principal on the request context.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated principal set by the auth middleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	raw, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := raw.(models.User)
	return user, ok && user.ID != 0
}

// RespondUnauthorized aborts with a 401 and a bearer challenge.
func RespondUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// pageQuery binds skip/limit query parameters.
type pageQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=0"`
}

// bindPage parses pagination parameters, writing a 422 on failure.
func bindPage(c *gin.Context) (store.Page, bool) {
	query := pageQuery{Limit: settings.DefaultPageLimit}
	if errBind := c.ShouldBindQuery(&query); errBind != nil {
		respondBindError(c, errBind, "invalid pagination parameters")
		return store.Page{}, false
	}
	return store.Page{Skip: query.Skip, Limit: query.Limit}, true
}

// userJSON renders a user without its password hash.
func userJSON(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	}
}
