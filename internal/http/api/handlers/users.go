package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/security"
	"github.com/router-for-me/calculator-api/internal/store"
	log "github.com/sirupsen/logrus"
)

// UserHandler manages user account endpoints.
type UserHandler struct {
	users *store.UserStore
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// createUserRequest defines the request body for registration.
type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,emailaddr"`
	Password string `json:"password" binding:"required,min=8"`
}

// Create registers a new user account.
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondBindError(c, errBind, "invalid json")
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		log.WithError(errHash).Error("users: hash password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	user, errCreate := h.users.Create(c.Request.Context(), body.Username, body.Email, hash)
	if errCreate != nil {
		switch {
		case errors.Is(errCreate, store.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		case errors.Is(errCreate, store.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		case errors.Is(errCreate, store.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		default:
			log.WithError(errCreate).Error("users: create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		}
		return
	}
	log.WithField("user_id", user.ID).Info("users: registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    userJSON(user),
	})
}

// List returns a page of users in ascending id order.
func (h *UserHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	rows, errList := h.users.List(c.Request.Context(), page)
	if errList != nil {
		log.WithError(errList).Error("users: list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, userJSON(row))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	user, errFind := h.users.Get(c.Request.Context(), id)
	if errFind != nil {
		if errors.Is(errFind, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.WithError(errFind).Error("users: get failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get user failed"})
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

// Delete removes a user and everything they own.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	if errDelete := h.users.Delete(c.Request.Context(), id); errDelete != nil {
		if errors.Is(errDelete, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.WithError(errDelete).Error("users: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete user failed"})
		return
	}
	log.WithField("user_id", id).Info("users: deleted")
	c.Status(http.StatusNoContent)
}

// parseUserID rejects non-integer ids with 422. Integers that cannot name a
// row (zero or negative) get the same 404 as an unknown id.
func parseUserID(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseInt(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
		return 0, false
	}
	if id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return 0, false
	}
	return uint64(id), true
}
