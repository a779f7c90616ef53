package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/utils"
)

// SettingsController reads and writes the storage credential overrides.
type SettingsController struct {
	db *gorm.DB
}

// NewSettingsController creates a new SettingsController instance.
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

// GetStorageSettings returns the resolved credential pair (override rows win
// over environment defaults).
func (s *SettingsController) GetStorageSettings(ctx *gin.Context) {
	utils.Success(ctx, utils.GetTelegramSettings(s.db))
}

// UpdateStorageSettings upserts override rows for the provided fields and
// returns the resulting resolved pair.
func (s *SettingsController) UpdateStorageSettings(ctx *gin.Context) {
	var req struct {
		BotToken  *string `json:"bot_token"`
		ChannelID *string `json:"channel_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	if err := utils.UpdateTelegramSettings(s.db, req.BotToken, req.ChannelID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to update settings")
		return
	}
	utils.Success(ctx, utils.GetTelegramSettings(s.db))
}
