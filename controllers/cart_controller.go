package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/cart"
	"github.com/albt6x/rent-a-camera/models"
)

type CartController struct{ *Srv }

func NewCartController(s *Srv) *CartController { return &CartController{Srv: s} }

func (cc *CartController) GetCart(c *gin.Context) {
	uid := app.CurrentUserID(c)
	ct, err := cc.Carts.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"cart": ct, "subtotal": ct.Subtotal()})
}

func (cc *CartController) AddLine(c *gin.Context) {
	var in struct {
		ItemID        string `json:"itemId" binding:"required,uuid"`
		DurationHours int    `json:"durationHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.DurationHours != 12 && in.DurationHours != 24 {
		c.JSON(http.StatusBadRequest, app.H{"error": "duration must be 12 or 24 hours"})
		return
	}

	it, err := cc.Repo.FindItemByID(c.Request.Context(), in.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if it.Stock <= 0 {
		c.JSON(http.StatusConflict, app.H{"error": "item is out of stock"})
		return
	}

	uid := app.CurrentUserID(c)
	ct, err := cc.Carts.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	line := cart.Line{
		ItemID:        it.ID,
		Name:          it.Name,
		DurationHours: in.DurationHours,
		PricePerDay:   it.PricePerDay,
	}
	if err := ct.Add(line); err != nil {
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
		return
	}
	if err := cc.Carts.Save(c.Request.Context(), uid, ct); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"cart": ct, "subtotal": ct.Subtotal()})
}

func (cc *CartController) RemoveLine(c *gin.Context) {
	uid := app.CurrentUserID(c)
	ct, err := cc.Carts.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !ct.Remove(c.Param("key")) {
		c.JSON(http.StatusNotFound, app.H{"error": "line not in cart"})
		return
	}
	if err := cc.Carts.Save(c.Request.Context(), uid, ct); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"cart": ct, "subtotal": ct.Subtotal()})
}

// Checkout turns the cart into a rental under review. Line prices are
// frozen here; later catalog edits do not reprice existing rentals.
func (cc *CartController) Checkout(c *gin.Context) {
	var in struct {
		PickupDate string `json:"pickupDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	pickup, err := time.Parse("2006-01-02", in.PickupDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "pickupDate must be YYYY-MM-DD"})
		return
	}
	if pickup.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, app.H{"error": "pickupDate is in the past"})
		return
	}

	uid := app.CurrentUserID(c)
	ct, err := cc.Carts.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if ct.Empty() {
		c.JSON(http.StatusBadRequest, app.H{"error": "cart is empty"})
		return
	}

	rt := &models.Rental{
		ID:         uuid.NewString(),
		PublicID:   models.NewPublicID(),
		UserID:     uid,
		PickupDate: pickup,
		TotalPrice: ct.Subtotal(),

		OrderStatus:   models.OrderDitinjau,
		PaymentStatus: models.PaymentDitinjau,
	}
	for _, l := range ct.Lines {
		rt.Items = append(rt.Items, models.RentalItem{
			ID:              uuid.NewString(),
			ItemID:          l.ItemID,
			DurationHours:   l.DurationHours,
			PriceAtCheckout: l.Price(),
		})
	}

	if err := cc.Repo.CreateRental(c.Request.Context(), rt); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := cc.Carts.Clear(c.Request.Context(), uid); err != nil {
		cc.Log.Warn("clear cart after checkout failed", "user", uid, "err", err)
	}
	c.JSON(http.StatusCreated, rt)
}
