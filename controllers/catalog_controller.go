package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/uploads"
)

type CatalogController struct{ *Srv }

func NewCatalogController(s *Srv) *CatalogController { return &CatalogController{Srv: s} }

// Categories

func (cc *CatalogController) ListCategories(c *gin.Context) {
	cats, err := cc.Repo.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cats})
}

func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required,max=50"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	cat := &models.Category{ID: uuid.NewString(), Name: in.Name}
	if err := cc.Repo.CreateCategory(c.Request.Context(), cat); err != nil {
		if errors.Is(err, db.ErrCategoryExists) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (cc *CatalogController) DeleteCategory(c *gin.Context) {
	err := cc.Repo.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrCategoryInUse) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Items

// ListItems is the public storefront listing: ?q=&categoryId=&page=&size=
func (cc *CatalogController) ListItems(c *gin.Context) {
	q := db.ItemsQuery{
		Q:          c.Query("q"),
		CategoryID: c.Query("categoryId"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "9"))

	res, err := cc.Repo.ListItems(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *CatalogController) GetItem(c *gin.Context) {
	it, err := cc.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

// itemForm binds the multipart item form shared by create and edit.
type itemForm struct {
	Name         string `form:"name" binding:"required,max=100"`
	Description  string `form:"description"`
	PricePerDay  string `form:"pricePerDay" binding:"required"`
	PricePerHour string `form:"pricePerHour"`
	Stock        int    `form:"stock" binding:"min=0"`
	CategoryID   string `form:"categoryId" binding:"required,uuid"`
}

func (f *itemForm) apply(it *models.Item) error {
	perDay, err := decimal.NewFromString(f.PricePerDay)
	if err != nil {
		return errors.New("invalid pricePerDay")
	}
	it.Name = f.Name
	it.Description = f.Description
	it.PricePerDay = perDay
	it.Stock = f.Stock
	it.CategoryID = f.CategoryID
	if f.PricePerHour != "" {
		perHour, err := decimal.NewFromString(f.PricePerHour)
		if err != nil {
			return errors.New("invalid pricePerHour")
		}
		it.PricePerHour = &perHour
	}
	return nil
}

func (cc *CatalogController) CreateItem(c *gin.Context) {
	var in itemForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	it := &models.Item{ID: uuid.NewString(), ImageFilename: "default_item.jpg"}
	if err := in.apply(it); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	if fh, err := c.FormFile("picture"); err == nil {
		name, err := cc.Uploads.Save(uploads.FolderItems, fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		it.ImageFilename = name
	}

	if err := cc.Repo.CreateItem(c.Request.Context(), it); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (cc *CatalogController) UpdateItem(c *gin.Context) {
	it, err := cc.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	var in itemForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := in.apply(it); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	if fh, err := c.FormFile("picture"); err == nil {
		name, err := cc.Uploads.Save(uploads.FolderItems, fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		it.ImageFilename = name
	}

	if err := cc.Repo.UpdateItem(c.Request.Context(), it); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (cc *CatalogController) DeleteItem(c *gin.Context) {
	if err := cc.Repo.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// ItemImage serves a stored catalog image.
func (cc *CatalogController) ItemImage(c *gin.Context) {
	p, err := cc.Uploads.Path(uploads.FolderItems, c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "image not found"})
		return
	}
	c.File(p)
}
