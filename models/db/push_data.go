package dbmodels

import "shift-tools-backend/models"

// PushData события, не доставленные по websocket (сотрудник был оффлайн)
type PushData struct {
	BaseModel
	StaffUserID string                 `gorm:"type:varchar(36);index"`
	Code        models.PushSettingCode `gorm:"type:varchar(100)"`
	Msg         string                 `gorm:"type:varchar(500)"`
}
