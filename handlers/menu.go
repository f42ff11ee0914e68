package handlers

import (
	"errors"
	"net/http"

	"restaurant-api/catalog"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

type MenuItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Image       string `json:"image"`
	Category    string `json:"category" binding:"required"`
	IsPopular   bool   `json:"isPopular"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) catalogError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, catalog.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.storageError(c, msg, err)
	}
}

// AdminGetMenu lists the catalog as stored, without the public fallback.
func (h *Handler) AdminGetMenu(c *gin.Context) {
	items, err := h.Catalog.MenuItems(c.Request.Context())
	if err != nil {
		h.catalogError(c, "Failed to load menu", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

func (h *Handler) AdminCreateMenuItem(c *gin.Context) {
	ctx := c.Request.Context()
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Catalog.CreateMenuItem(ctx, models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		IsPopular:   req.IsPopular,
	})
	if err != nil {
		h.catalogError(c, "Failed to create menu item", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionCreateMenuItem, "إضافة صنف جديد: "+item.Name, item.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "item": item})
}

func (h *Handler) AdminUpdateMenuItem(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c)
	if !ok {
		return
	}
	var upd catalog.MenuItemUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Catalog.UpdateMenuItem(ctx, id, upd)
	if err != nil {
		h.catalogError(c, "Failed to update menu item", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionUpdateMenuItem, "تعديل الصنف: "+item.Name, item.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

func (h *Handler) AdminDeleteMenuItem(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteMenuItem(ctx, id); err != nil {
		h.catalogError(c, "Failed to delete menu item", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionDeleteMenuItem, "حذف صنف من القائمة", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

func (h *Handler) AdminGetCategories(c *gin.Context) {
	cats, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.catalogError(c, "Failed to load categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(cats), "categories": cats})
}

func (h *Handler) AdminCreateCategory(c *gin.Context) {
	ctx := c.Request.Context()
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.Catalog.CreateCategory(ctx, models.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		h.catalogError(c, "Failed to create category", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionCreateCategory, "إضافة قسم جديد: "+cat.Name, cat.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

func (h *Handler) AdminUpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c)
	if !ok {
		return
	}
	var upd catalog.CategoryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.Catalog.UpdateCategory(ctx, id, upd)
	if err != nil {
		h.catalogError(c, "Failed to update category", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionUpdateCategory, "تعديل القسم: "+cat.Name, cat.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": cat})
}

func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteCategory(ctx, id); err != nil {
		h.catalogError(c, "Failed to delete category", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionDeleteCategory, "حذف قسم", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
