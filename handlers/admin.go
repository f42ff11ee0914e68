package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/statemachine"

	"github.com/gin-gonic/gin"
)

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Notes  string             `json:"notes"`
}

// AdminGetOrders lists orders newest first. q searches customer fields and
// item names; status narrows the result.
func (h *Handler) AdminGetOrders(c *gin.Context) {
	ctx := c.Request.Context()

	var list []models.Order
	if q := c.Query("q"); q != "" {
		list = h.Ledger.Search(ctx, q)
	} else {
		list = h.Ledger.All(ctx)
	}
	if s := c.Query("status"); s != "" {
		status, err := models.ParseOrderStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filtered := list[:0]
		for _, o := range list {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		list = filtered
	}

	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

func (h *Handler) AdminGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Ledger.Stats(c.Request.Context()))
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	order := h.Ledger.ByID(c.Request.Context(), c.Param("id"))
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminUpdateOrderStatus sets any known status, in any direction.
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := h.Ledger.ByID(ctx, orderID)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err := statemachine.CanTransition(current.Status, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.UpdateStatus(ctx, orderID, req.Status, req.Notes)
	if err != nil {
		h.storageError(c, "Failed to update order", err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionUpdateOrderStatus,
		fmt.Sprintf("تغيير حالة الطلب من %s إلى %s", current.Status.Label(), req.Status.Label()),
		orderID)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Order status updated",
		"order":       order,
		"from_status": current.Status,
		"to_status":   order.Status,
	})
}

func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	removed, err := h.Ledger.Delete(ctx, orderID)
	if err != nil {
		h.storageError(c, "Failed to delete order", err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionDeleteOrder, "حذف الطلب", orderID)
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// AdminGetActions returns the audit log; limit defaults to 50.
func (h *Handler) AdminGetActions(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	actions, err := h.Audit.Actions(c.Request.Context(), limit)
	if err != nil {
		h.storageError(c, "Failed to load admin actions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(actions), "actions": actions})
}

// storageError answers 500; unreadable stored data gets its own message so
// the admin knows nothing was overwritten.
func (h *Handler) storageError(c *gin.Context, msg string, err error) {
	if isCorrupt(err) {
		msg += ": stored data is unreadable and was left untouched"
	}
	h.internalError(c, msg, err)
}
