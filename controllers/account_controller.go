package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/uploads"
)

// AccountController lets an authenticated user maintain their own
// profile. Role and password stay out of reach here; roles are edited by
// admins only.
type AccountController struct{ *Srv }

func NewAccountController(s *Srv) *AccountController { return &AccountController{Srv: s} }

const defaultProfilePic = "default.jpg"

// UpdateProfile changes username/email and optionally replaces the
// profile picture. The old picture file is removed unless it is the
// shared default.
func (ac *AccountController) UpdateProfile(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		Username string `form:"username" binding:"omitempty,min=3,max=80"`
		Email    string `form:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	oldPic := ""
	if fh, err := c.FormFile("picture"); err == nil {
		name, err := ac.Uploads.Save(uploads.FolderProfilePics, fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		if u.ImageFile != defaultProfilePic {
			oldPic = u.ImageFile
		}
		u.ImageFile = name
	}

	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Email != "" {
		u.Email = in.Email
	}

	if err := ac.Repo.UpdateUser(c.Request.Context(), u); err != nil {
		// roll the new picture back so it doesn't orphan
		if u.ImageFile != defaultProfilePic && oldPic != u.ImageFile {
			_ = ac.Uploads.Remove(uploads.FolderProfilePics, u.ImageFile)
		}
		c.JSON(http.StatusConflict, app.H{"error": "username or email already taken"})
		return
	}

	if oldPic != "" {
		if err := ac.Uploads.Remove(uploads.FolderProfilePics, oldPic); err != nil {
			ac.Log.Warn("remove old profile picture failed", "file", oldPic, "err", err)
		}
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// ProfileImage serves a stored profile picture.
func (ac *AccountController) ProfileImage(c *gin.Context) {
	p, err := ac.Uploads.Path(uploads.FolderProfilePics, c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "image not found"})
		return
	}
	c.File(p)
}
