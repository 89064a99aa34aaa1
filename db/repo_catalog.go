package db

import (
	"context"
	"errors"
	"strings"

	"github.com/albt6x/rent-a-camera/models"
)

// Categories

var ErrCategoryExists = errors.New("category with the same name already exists")
var ErrCategoryInUse = errors.New("category still has items")

func (r *Repo) CreateCategory(ctx context.Context, c *models.Category) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("LOWER(name) = ?", strings.ToLower(c.Name)).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryExists
	}
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := r.DB.WithContext(ctx).Order("name").Find(&cs).Error
	return cs, err
}

func (r *Repo) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory refuses while items still reference the category.
func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("category_id = ?", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	return r.DB.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// Items

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).Preload("Category").First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) UpdateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Save(it).Error
}

func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.Item{}, "id = ?", id).Error
}

type ItemsQuery struct {
	Q          string // matches item name or category name
	CategoryID string
	Page       int
	Size       int
}

type PagedItems struct {
	Total int64         `json:"total"`
	Items []models.Item `json:"items"`
}

func (r *Repo) ListItems(ctx context.Context, q ItemsQuery) (*PagedItems, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 9
	}

	tx := r.DB.WithContext(ctx).Model(&models.Item{}).
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.id = "+models.ItemTable+".category_id")

	if q.CategoryID != "" {
		tx = tx.Where(models.ItemTable+".category_id = ?", q.CategoryID)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where(models.ItemTable+".name ILIKE ? OR c.name ILIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Item
	if err := tx.Preload("Category").
		Order(models.ItemTable + ".name").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedItems{Total: total, Items: items}, nil
}
