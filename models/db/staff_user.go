package dbmodels

import (
	"fmt"
	"shift-tools-backend/models"
)

type StaffUser struct {
	BaseModel
	FirstName      string                `gorm:"type:varchar(255)"`
	LastName       string                `gorm:"type:varchar(255)"`
	MiddleName     string                `gorm:"type:varchar(255)"`
	Email          string                `gorm:"type:varchar(255);index"`
	PasswordHash   string                `gorm:"type:varchar(255)" json:"-"`
	Phone          string                `gorm:"type:varchar(50)"`
	Role           models.UserRole       `gorm:"type:varchar(100)"`
	Status         models.UserStatus     `gorm:"type:varchar(100)"`
	EmploymentType models.EmploymentType `gorm:"type:varchar(100)"` // Тип занятости
	BranchID       string                `gorm:"type:varchar(36);index"`
	Branch         *Branch
	PushEnabled    bool
	EmailEnabled   bool
}

func (u StaffUser) GetFullName() string {
	if u.MiddleName != "" {
		return fmt.Sprintf("%v %v %v", u.LastName, u.FirstName, u.MiddleName)
	}
	return fmt.Sprintf("%v %v", u.LastName, u.FirstName)
}
