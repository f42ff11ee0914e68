package handlers

import (
	"net/http"

	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/notify"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminGetTelegramSettings(c *gin.Context) {
	st := h.Settings.Settings(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"settings":   notify.Masked(st),
		"configured": st.BotToken != "" && st.ChatID != "",
	})
}

func (h *Handler) AdminUpdateTelegramSettings(c *gin.Context) {
	ctx := c.Request.Context()
	var req models.TelegramSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Settings.Save(ctx, req); err != nil {
		h.storageError(c, "Failed to save Telegram settings", err)
		return
	}

	h.Audit.Record(ctx, middleware.GetAdmin(c), models.ActionUpdateSettings, "تحديث إعدادات تيليجرام", "")
	st := h.Settings.Settings(ctx)
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": notify.Masked(st)})
}

// AdminTestTelegram checks the saved credentials against the bot API.
func (h *Handler) AdminTestTelegram(c *gin.Context) {
	ok := h.Telegram.TestConnection(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}
