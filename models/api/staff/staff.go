package staffapimodels

import (
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
)

type StaffUserData struct {
	FirstName      string                `json:"first_name"`      // Имя
	LastName       string                `json:"last_name"`       // Фамилия
	MiddleName     string                `json:"middle_name"`     // Отчество
	Email          string                `json:"email"`           // Почта
	Password       string                `json:"password"`        // Пароль (только при создании)
	Phone          string                `json:"phone"`           // Телефон
	Role           models.UserRole       `json:"role"`            // Роль
	EmploymentType models.EmploymentType `json:"employment_type"` // Тип занятости
	BranchID       string                `json:"branch_id"`       // Филиал
	PushEnabled    bool                  `json:"push_enabled"`    // Уведомления в системе
	EmailEnabled   bool                  `json:"email_enabled"`   // Уведомления на почту
}

func (d StaffUserData) Validate() error {
	if d.Email == "" {
		return errors.New("не указана почта")
	}
	if d.LastName == "" || d.FirstName == "" {
		return errors.New("не указаны фамилия и имя")
	}
	if d.BranchID == "" {
		return errors.New("не указан филиал")
	}
	if d.Role != models.BranchManagerRole && d.Role != models.StaffRole {
		return errors.New("неизвестная роль")
	}
	return nil
}

type StaffUserView struct {
	ID                  string                `json:"id"`
	FullName            string                `json:"full_name"`
	Email               string                `json:"email"`
	Phone               string                `json:"phone,omitempty"`
	Role                models.UserRole       `json:"role"`
	RoleHuman           string                `json:"role_human"`
	Status              models.UserStatus     `json:"status"`
	EmploymentType      models.EmploymentType `json:"employment_type"`
	EmploymentTypeHuman string                `json:"employment_type_human"`
	BranchID            string                `json:"branch_id"`
	BranchName          string                `json:"branch_name,omitempty"`
}

func StaffUserConvert(rec dbmodels.StaffUser) StaffUserView {
	result := StaffUserView{
		ID:                  rec.ID,
		FullName:            rec.GetFullName(),
		Email:               rec.Email,
		Phone:               rec.Phone,
		Role:                rec.Role,
		RoleHuman:           rec.Role.ToHuman(),
		Status:              rec.Status,
		EmploymentType:      rec.EmploymentType,
		EmploymentTypeHuman: rec.EmploymentType.ToHuman(),
		BranchID:            rec.BranchID,
	}
	if rec.Branch != nil {
		result.BranchName = rec.Branch.Name
	}
	return result
}
