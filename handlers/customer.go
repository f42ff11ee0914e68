package handlers

import (
	"errors"
	"net/http"

	"restaurant-api/cart"
	"restaurant-api/catalog"
	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/notify"
	"restaurant-api/orders"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AddToCartRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// openCart loads the caller's cart. Unreadable cart data is dropped and the
// visitor starts over with an empty cart.
func (h *Handler) openCart(c *gin.Context) *cart.Store {
	key := cart.SessionKey(middleware.GetSessionID(c))
	store, err := cart.Open(c.Request.Context(), h.Storage, key)
	if err != nil {
		h.logger().Warn("discarding unreadable cart", zap.String("cart", key), zap.Error(err))
		return cart.New(h.Storage, key)
	}
	return store
}

func cartResponse(s *cart.Store) gin.H {
	total := s.TotalPrice()
	return gin.H{
		"items":          s.Items(),
		"totalItems":     s.TotalItems(),
		"totalPrice":     total,
		"total":          cart.TotalMoney(s.Items()),
		"formattedTotal": humanize.Comma(total) + " " + models.CurrencyLabel,
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.openCart(c)))
}

// AddToCart adds one unit of a menu item. Name and price come from the
// catalog, not from the request.
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.Catalog.ItemByID(c.Request.Context(), req.ID)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if err != nil {
		h.internalError(c, "Failed to load menu", err)
		return
	}

	store := h.openCart(c)
	if err := store.Add(c.Request.Context(), item.CartItem()); err != nil {
		h.internalError(c, "Failed to save cart", err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(store))
}

// UpdateCartItem sets the quantity of a line; zero or less removes it.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := h.openCart(c)
	if err := store.UpdateQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
		h.internalError(c, "Failed to save cart", err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(store))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	store := h.openCart(c)
	if err := store.Remove(c.Request.Context(), id); err != nil {
		h.internalError(c, "Failed to save cart", err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(store))
}

func (h *Handler) ClearCart(c *gin.Context) {
	store := h.openCart(c)
	if err := store.Clear(c.Request.Context()); err != nil {
		h.internalError(c, "Failed to save cart", err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(store))
}

func (h *Handler) checkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "السلة فارغة"})
	case errors.Is(err, orders.ErrMissingCustomer):
		c.JSON(http.StatusBadRequest, gin.H{"error": "يرجى إدخال الاسم ورقم الهاتف والعنوان"})
	default:
		h.internalError(c, "Failed to place order", err)
	}
}

// PlaceOrder stores the cart as an order and notifies the kitchen. The order
// is stored even when the notification fails; the response says which.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var customer orders.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.Checkout.PlaceOrder(c.Request.Context(), h.openCart(c), customer)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	message := "تم إرسال طلبك بنجاح"
	if !receipt.Delivered {
		message = "تم حفظ طلبك لكن تعذر إرسال الإشعار للمطعم"
	}
	c.JSON(http.StatusCreated, gin.H{
		"order":     receipt.Order,
		"delivered": receipt.Delivered,
		"message":   message,
	})
}

// PlaceWhatsAppOrder stores the order and hands back a WhatsApp composer link
// instead of notifying the kitchen directly.
func (h *Handler) PlaceWhatsAppOrder(c *gin.Context) {
	var customer orders.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Checkout.SaveOrder(c.Request.Context(), h.openCart(c), customer)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order":       order,
		"whatsappUrl": notify.WhatsAppLink(h.WhatsAppPhone, order),
	})
}
