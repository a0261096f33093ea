package shiftapimodels

import (
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type AssignmentCreateData struct {
	ShiftID     string `json:"shift_id"`      // Смена
	StaffUserID string `json:"staff_user_id"` // Сотрудник (пусто — запись себя)
	Notes       string `json:"notes"`         // Примечание
}

func (a AssignmentCreateData) Validate() error {
	if a.ShiftID == "" {
		return errors.New("не указана смена")
	}
	return nil
}

type AssignmentView struct {
	ID             string                  `json:"id"`
	ShiftID        string                  `json:"shift_id"`
	Shift          *ShiftView              `json:"shift,omitempty"`
	StaffUserID    string                  `json:"staff_user_id"`
	StaffFullName  string                  `json:"staff_full_name,omitempty"`
	AssignmentType models.AssignmentType   `json:"assignment_type"`
	Status         models.AssignmentStatus `json:"status"`
	StatusHuman    string                  `json:"status_human"`
	IsRejected     bool                    `json:"is_rejected"` // отклонено менеджером (подвид отмены)
	IsBorrowed     bool                    `json:"is_borrowed"`
	BaseBranchID   string                  `json:"base_branch_id,omitempty"`
	IsOvertime     bool                    `json:"is_overtime"`
	CheckedInAt    *time.Time              `json:"checked_in_at,omitempty"`
	CheckedOutAt   *time.Time              `json:"checked_out_at,omitempty"`
	ActualHours    float64                 `json:"actual_hours,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
}

type AssignmentFilter struct {
	Pagination  `json:"pagination"`
	ShiftID     string `json:"shift_id"`      // По смене
	StaffUserID string `json:"staff_user_id"` // По сотруднику
	BranchID    string `json:"branch_id"`     // По филиалу
	DateFrom    string `json:"date_from"`     // Начало периода (дд.мм.гггг)
	DateTo      string `json:"date_to"`       // Конец периода (дд.мм.гггг)
}

type Pagination struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

func (f AssignmentFilter) Validate() error {
	if f.ShiftID == "" && f.StaffUserID == "" && f.BranchID == "" {
		return errors.New("не указан фильтр: смена, сотрудник или филиал")
	}
	if _, _, err := f.GetPeriod(); err != nil {
		return errors.New("некорректный формат периода")
	}
	return nil
}

func (f AssignmentFilter) GetPeriod() (from, to time.Time, err error) {
	if f.DateFrom != "" {
		from, err = time.Parse(DateFormat, f.DateFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if f.DateTo != "" {
		to, err = time.Parse(DateFormat, f.DateTo)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

type RejectData struct {
	Reason string `json:"reason"` // Причина отклонения
}

// BulkOutcome результат групповой операции по одной записи
type BulkOutcome struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func AssignmentConvert(rec dbmodels.ShiftAssignment) AssignmentView {
	result := AssignmentView{
		ID:             rec.ID,
		ShiftID:        rec.ShiftID,
		StaffUserID:    rec.StaffUserID,
		AssignmentType: rec.AssignmentType,
		Status:         rec.Status,
		StatusHuman:    rec.Status.ToHuman(),
		IsRejected:     rec.IsRejected(),
		IsBorrowed:     rec.IsBorrowed,
		IsOvertime:     rec.IsOvertime,
		CheckedInAt:    rec.CheckedInAt,
		CheckedOutAt:   rec.CheckedOutAt,
		ActualHours:    rec.ActualHours,
		Notes:          rec.Notes,
	}
	if rec.IsRejected() {
		result.StatusHuman = "Отклонена менеджером"
	}
	if rec.BaseBranchID != nil {
		result.BaseBranchID = *rec.BaseBranchID
	}
	if rec.Shift != nil {
		view := ShiftConvert(*rec.Shift)
		result.Shift = &view
	}
	if rec.StaffUser != nil {
		result.StaffFullName = rec.StaffUser.GetFullName()
	}
	return result
}

// PublicAssignmentView урезанное представление чужого назначения для выбора цели подмены
type PublicAssignmentView struct {
	ID            string `json:"id"`
	ShiftID       string `json:"shift_id"`
	StaffUserID   string `json:"staff_user_id"`
	StaffFullName string `json:"staff_full_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

func PublicAssignmentConvert(rec dbmodels.ShiftAssignment) PublicAssignmentView {
	result := PublicAssignmentView{
		ID:          rec.ID,
		ShiftID:     rec.ShiftID,
		StaffUserID: rec.StaffUserID,
	}
	if rec.StaffUser != nil {
		result.StaffFullName = rec.StaffUser.GetFullName()
	}
	if rec.Shift != nil {
		result.Date = rec.Shift.Date.Format(DateFormat)
		result.StartTime = rec.Shift.StartTime
		result.EndTime = rec.Shift.EndTime
	}
	return result
}

// CleanRejectReason причина отклонения без служебного маркера
func CleanRejectReason(notes string) string {
	return strings.TrimSpace(strings.TrimPrefix(notes, models.RejectionMarker))
}
