package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/uploads"
)

// BookingController is the borrower's view of their own rentals.
type BookingController struct{ *Srv }

func NewBookingController(s *Srv) *BookingController { return &BookingController{Srv: s} }

func (bc *BookingController) ListMine(c *gin.Context) {
	q := db.RentalsQuery{
		UserID: app.CurrentUserID(c),
		Status: c.Query("status"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))

	res, err := bc.Repo.ListRentals(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (bc *BookingController) GetMine(c *gin.Context) {
	rt, err := bc.Repo.FindRentalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "rental not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// Borrowers only see their own rentals; a wrong id and someone
	// else's id look the same from outside.
	if rt.UserID != app.CurrentUserID(c) {
		c.JSON(http.StatusNotFound, app.H{"error": "rental not found"})
		return
	}
	c.JSON(http.StatusOK, rt)
}

// UploadProof stores a transfer receipt against an approved, unpaid
// rental and moves it to awaiting confirmation.
func (bc *BookingController) UploadProof(c *gin.Context) {
	fh, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "proof file is required"})
		return
	}
	name, err := bc.Uploads.Save(uploads.FolderPaymentProofs, fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	err = bc.Repo.AttachPaymentProof(c.Request.Context(), c.Param("id"), app.CurrentUserID(c), name)
	if err != nil {
		// the rental rejected the proof, don't leave the file behind
		if rmErr := bc.Uploads.Remove(uploads.FolderPaymentProofs, name); rmErr != nil {
			bc.Log.Warn("remove refused proof failed", "file", name, "err", rmErr)
		}
		if errors.Is(err, db.ErrNotPayable) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "paymentProof": name})
}
