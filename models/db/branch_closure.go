package dbmodels

import (
	"time"
)

// BranchClosure период, когда филиал не работает.
// BranchID == nil — закрытие действует на все филиалы.
type BranchClosure struct {
	BaseModel
	BranchID *string `gorm:"type:varchar(36);index"`
	Branch   *Branch
	DateFrom time.Time `gorm:"type:date"`
	DateTo   time.Time `gorm:"type:date"`
	Reason   string    `gorm:"type:varchar(500)"`
}

// Covers закрытие действует на филиал в указанную дату
func (c BranchClosure) Covers(branchID string, date time.Time) bool {
	if c.BranchID != nil && *c.BranchID != branchID {
		return false
	}
	day := date.Truncate(24 * time.Hour)
	return !day.Before(c.DateFrom.Truncate(24*time.Hour)) && !day.After(c.DateTo.Truncate(24*time.Hour))
}
