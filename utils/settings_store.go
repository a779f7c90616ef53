package utils

import (
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/config"
	"github.com/Tamurbek/dacha-bron/models"
)

// Setting keys for the storage credential pair. One settings row per key.
const (
	SettingKeyBotToken  = "TELEGRAM_BOT_TOKEN"
	SettingKeyChannelID = "TELEGRAM_CHANNEL_ID"
)

// StorageCredential is the pair needed to talk to the relay storage backend.
type StorageCredential struct {
	BotToken  string `json:"bot_token"`
	ChannelID string `json:"channel_id"`
}

// GetTelegramSettings resolves the storage credential pair. A persisted
// override row wins over the process-wide default loaded at startup; the
// default is never written back. Callers re-read per request, there is no
// in-process credential cache.
func GetTelegramSettings(db *gorm.DB) StorageCredential {
	cfg := config.Get()
	return StorageCredential{
		BotToken:  resolveSetting(db, SettingKeyBotToken, cfg.TelegramBotToken),
		ChannelID: resolveSetting(db, SettingKeyChannelID, cfg.TelegramChannelID),
	}
}

func resolveSetting(db *gorm.DB, key, fallback string) string {
	var row models.Setting
	err := db.Where("`key` = ?", key).First(&row).Error
	return pickSetting(row.Value, err == nil, fallback)
}

// pickSetting implements the two-tier lookup: first-match-wins over the
// ordered sources (override row, process default).
func pickSetting(override string, found bool, fallback string) string {
	if found {
		return override
	}
	return fallback
}

// UpdateTelegramSettings upserts override rows for the provided fields.
// A nil pointer leaves the corresponding key untouched.
func UpdateTelegramSettings(db *gorm.DB, botToken, channelID *string) error {
	if botToken != nil {
		if err := upsertSetting(db, SettingKeyBotToken, *botToken); err != nil {
			return err
		}
	}
	if channelID != nil {
		if err := upsertSetting(db, SettingKeyChannelID, *channelID); err != nil {
			return err
		}
	}
	return nil
}

func upsertSetting(db *gorm.DB, key, value string) error {
	var row models.Setting
	err := db.Where("`key` = ?", key).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(&models.Setting{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}
	row.Value = value
	return db.Save(&row).Error
}
