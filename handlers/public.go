package handlers

import (
	"net/http"

	"restaurant-api/catalog"
	"restaurant-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetMenu returns the public menu, optionally filtered by category or
// popularity. The sample menu is served when the catalog is unreachable.
func (h *Handler) GetMenu(c *gin.Context) {
	var f catalog.MenuFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items := h.Catalog.Menu(c.Request.Context(), f)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

func (h *Handler) GetCategories(c *gin.Context) {
	cats := h.Catalog.CategoriesOrDefault(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(cats), "categories": cats})
}

// GetStatuses describes the order lifecycle for the dashboard.
func (h *Handler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"statuses":    statemachine.DescribeAll(),
		"workflow":    statemachine.GetAllTransitions(),
		"description": "Any status may be set from any other; the workflow lists the usual next steps.",
	})
}
