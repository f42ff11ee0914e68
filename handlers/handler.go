package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"restaurant-api/audit"
	"restaurant-api/catalog"
	"restaurant-api/middleware"
	"restaurant-api/notify"
	"restaurant-api/orders"
	"restaurant-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConnectionTester checks the messaging credentials on demand.
type ConnectionTester interface {
	TestConnection(ctx context.Context) bool
}

// Handler carries the services every route needs.
type Handler struct {
	Storage       storage.Backend
	Catalog       *catalog.Service
	Ledger        *orders.Ledger
	Checkout      *orders.Checkout
	Settings      *notify.SettingsStore
	Telegram      ConnectionTester
	Audit         *audit.Recorder
	Auth          *middleware.Auth
	WhatsAppPhone string
	Logger        *zap.Logger
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// internalError logs err and answers with a generic 500.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger().Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func isCorrupt(err error) bool {
	return errors.Is(err, storage.ErrCorrupt)
}
