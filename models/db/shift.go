package dbmodels

import (
	"time"
)

// Shift шаблон смены в филиале. После создания не меняется,
// все изменения покрытия идут через назначения и заявки.
type Shift struct {
	BaseModel
	BranchID      string `gorm:"type:varchar(36);index"`
	Branch        *Branch
	Date          time.Time `gorm:"type:date;index"`
	StartTime     string    `gorm:"type:varchar(5)"` // HH:MM
	EndTime       string    `gorm:"type:varchar(5)"` // HH:MM, меньше StartTime — смена через полночь
	DurationHours float64
	Notes         string            `gorm:"type:varchar(500)"`
	Assignments   []ShiftAssignment `gorm:"foreignKey:ShiftID"`
}
