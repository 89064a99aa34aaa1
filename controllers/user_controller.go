package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/models"
)

// UserController is the admin account management surface. Borrower
// self-registration lives in AuthController.
type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateStaff provisions a staff or admin account. Borrowers register
// themselves.
func (uc *UserController) CreateStaff(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required,min=3,max=80"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	role := models.Role(in.Role)
	if role != models.RoleStaff && role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, app.H{"error": "role must be staff or admin"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "hash password"})
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, app.H{"error": "username or email already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (uc *UserController) Update(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	var in struct {
		Username string `json:"username" binding:"omitempty,min=3,max=80"`
		Email    string `json:"email" binding:"omitempty,email"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	roleChanged := false
	if in.Role != "" && models.Role(in.Role) != u.Role {
		role := models.Role(in.Role)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, app.H{"error": "unknown role"})
			return
		}
		u.Role = role
		roleChanged = true
	}
	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Email != "" {
		u.Email = in.Email
	}

	if err := uc.Repo.UpdateUser(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	// A role change must not leave sessions around that still carry the
	// old role.
	if roleChanged {
		if err := uc.AppSess.RevokeAllForUser(c.Request.Context(), u.ID); err != nil {
			uc.Log.Warn("revoke sessions after role change failed", "user", u.ID, "err", err)
		}
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == app.CurrentUserID(c) {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete your own account"})
		return
	}
	target, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if target.Role == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, app.H{"error": "admin accounts cannot be deleted"})
		return
	}
	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrHasRentalHistory) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := uc.AppSess.RevokeAllForUser(c.Request.Context(), id); err != nil {
		uc.Log.Warn("revoke sessions after delete failed", "user", id, "err", err)
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
