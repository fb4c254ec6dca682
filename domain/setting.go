package domain

type PlatformSetting struct {
	Id           uint   `gorm:"primaryKey" json:"id"`
	SettingKey   string `gorm:"size:100;not null;unique" json:"setting_key"`
	SettingValue string `gorm:"size:255;not null" json:"setting_value"`
}

func (PlatformSetting) TableName() string {
	return "platform_settings"
}
