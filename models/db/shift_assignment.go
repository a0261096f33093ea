package dbmodels

import (
	"shift-tools-backend/models"
	"strings"
	"time"
)

type ShiftAssignment struct {
	BaseModel
	ShiftID        string `gorm:"type:varchar(36);index"`
	Shift          *Shift
	StaffUserID    string `gorm:"type:varchar(36);index"`
	StaffUser      *StaffUser
	AssignmentType models.AssignmentType   `gorm:"type:varchar(100)"`
	Status         models.AssignmentStatus `gorm:"type:varchar(100);index"`
	IsBorrowed     bool                    // сотрудник из другого филиала
	BaseBranchID   *string                 `gorm:"type:varchar(36)"` // родной филиал при подмене
	IsOvertime     bool
	CheckedInAt    *time.Time
	CheckedOutAt   *time.Time
	ActualHours    float64
	Notes          string `gorm:"type:varchar(500)"`
}

// IsRejected отмененное назначение, отклоненное менеджером (отображается отдельным подстатусом)
func (a ShiftAssignment) IsRejected() bool {
	return a.Status == models.AssignmentStatusCancelled && strings.HasPrefix(a.Notes, models.RejectionMarker)
}
