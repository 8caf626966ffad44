package model

import "time"

const SettingTableName = "site_settings"

// 站点设置键
const (
	SettingContactGitHub = "contact_github"
	SettingContactEmail  = "contact_email"
)

// Setting 站点设置, 键值对
type Setting struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:key;size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return SettingTableName
}
