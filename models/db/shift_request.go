package dbmodels

import (
	"shift-tools-backend/models"
	"time"
)

// ShiftRequest заявка на изменение покрытия смен.
// AssignmentID — исходное назначение (для PICK_UP — назначение текущего держателя смены),
// для OVERTIME вместо него заполняется ShiftID.
type ShiftRequest struct {
	BaseModel
	AssignmentID *string          `gorm:"type:varchar(36);index"`
	Assignment   *ShiftAssignment `gorm:"foreignKey:AssignmentID"`
	ShiftID      *string          `gorm:"type:varchar(36);index"`
	Shift        *Shift           `gorm:"foreignKey:ShiftID"`
	StaffUserID  string           `gorm:"type:varchar(36);index"` // автор заявки
	StaffUser    *StaffUser
	RequestType  models.RequestType `gorm:"type:varchar(100)"`

	TargetStaffUserID  *string          `gorm:"type:varchar(36);index"`
	TargetStaffUser    *StaffUser       `gorm:"foreignKey:TargetStaffUserID"`
	TargetAssignmentID *string          `gorm:"type:varchar(36)"` // для TWO_WAY_SWAP
	TargetAssignment   *ShiftAssignment `gorm:"foreignKey:TargetAssignmentID"`

	Reason string               `gorm:"type:varchar(500)"`
	Status models.RequestStatus `gorm:"type:varchar(100);index"`

	TargetRespondedAt *time.Time
	TargetNotes       string     `gorm:"type:varchar(500)"`
	ReviewerID        *string    `gorm:"type:varchar(36)"`
	Reviewer          *StaffUser `gorm:"foreignKey:ReviewerID"`
	ReviewedAt        *time.Time
	ReviewerNotes     string `gorm:"type:varchar(500)"`
}
