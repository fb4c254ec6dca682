package repository

import (
	"errors"
	"strconv"

	"passkey_auth_ms/domain"

	"gorm.io/gorm"
)

const SettingAccessTokenValidityMinutes = "access-token-validity-minutes"

type ISettingsRepository interface {
	GetInt(db *gorm.DB, key string) (int, bool, error)
}

type SettingsRepository struct {
}

func NewSettingsRepository() ISettingsRepository {
	return &SettingsRepository{}
}

// GetInt returns (value, found, error). A missing row is not an error;
// callers merge their own default.
func (s *SettingsRepository) GetInt(db *gorm.DB, key string) (int, bool, error) {
	var setting domain.PlatformSetting
	err := db.Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	value, err := strconv.Atoi(setting.SettingValue)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}
