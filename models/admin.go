package models

import "time"

// Action types recorded in the admin audit log
const (
	ActionUpdateOrderStatus = "UPDATE_ORDER_STATUS"
	ActionDeleteOrder       = "DELETE_ORDER"
	ActionCreateMenuItem    = "CREATE_MENU_ITEM"
	ActionUpdateMenuItem    = "UPDATE_MENU_ITEM"
	ActionDeleteMenuItem    = "DELETE_MENU_ITEM"
	ActionCreateCategory    = "CREATE_CATEGORY"
	ActionUpdateCategory    = "UPDATE_CATEGORY"
	ActionDeleteCategory    = "DELETE_CATEGORY"
	ActionUpdateSettings    = "UPDATE_TELEGRAM_SETTINGS"
)

type AdminAction struct {
	ID                int64     `json:"id" bson:"action_id"`
	ActionType        string    `json:"action_type" bson:"action_type"`
	ActionDescription string    `json:"action_description" bson:"action_description"`
	AdminUser         string    `json:"admin_user" bson:"admin_user"`
	TargetItem        string    `json:"target_item,omitempty" bson:"target_item,omitempty"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
}

// TelegramSettings overrides the bot credentials from config.
type TelegramSettings struct {
	BotToken string `json:"botToken"`
	ChatID   string `json:"chatId"`
}
