package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/rental"
	"github.com/albt6x/rent-a-camera/uploads"
)

// ReservationController is the staff/admin side of the order workflow:
// every status change goes through the lifecycle engine, never through
// direct column updates.
type ReservationController struct{ *Srv }

func NewReservationController(s *Srv) *ReservationController {
	return &ReservationController{Srv: s}
}

func (rc *ReservationController) List(c *gin.Context) {
	q := db.RentalsQuery{Status: c.Query("status")}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))

	res, err := rc.Repo.ListRentals(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rc *ReservationController) Get(c *gin.Context) {
	rt, err := rc.Repo.FindRentalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "rental not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *ReservationController) Approve(c *gin.Context) {
	rt, err := rc.Engine.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *ReservationController) Reject(c *gin.Context) {
	var in struct {
		Reason string `json:"reason" binding:"max=500"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	rt, err := rc.Engine.Reject(c.Request.Context(), c.Param("id"), in.Reason)
	if err != nil {
		rc.renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *ReservationController) ConfirmPayment(c *gin.Context) {
	rt, err := rc.Engine.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *ReservationController) MarkReturned(c *gin.Context) {
	rt, err := rc.Engine.MarkReturned(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// ViewProof serves the stored payment proof image, admin only.
func (rc *ReservationController) ViewProof(c *gin.Context) {
	rt, err := rc.Repo.FindRentalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "rental not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if rt.PaymentProof == "" {
		c.JSON(http.StatusNotFound, app.H{"error": "no payment proof uploaded"})
		return
	}
	p, err := rc.Uploads.Path(uploads.FolderPaymentProofs, rt.PaymentProof)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "proof file missing"})
		return
	}
	c.File(p)
}

func (rc *ReservationController) renderEngineError(c *gin.Context, err error) {
	var invalid *rental.InvalidTransitionError
	var stock *rental.InsufficientStockError
	switch {
	case errors.Is(err, rental.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "rental not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.As(err, &stock):
		c.JSON(http.StatusUnprocessableEntity, app.H{"error": err.Error()})
	default:
		rc.Log.Error("lifecycle operation failed",
			"rental", c.Param("id"), "op", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}
