package shiftapimodels

import (
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type RequestCreateData struct {
	RequestType        models.RequestType `json:"request_type"`         // Тип заявки
	AssignmentID       string             `json:"assignment_id"`        // Исходное назначение (кроме OVERTIME)
	ShiftID            string             `json:"shift_id"`             // Смена (только OVERTIME)
	TargetStaffUserID  string             `json:"target_staff_user_id"` // Второй сотрудник (SWAP/TWO_WAY_SWAP)
	TargetAssignmentID string             `json:"target_assignment_id"` // Назначение второго сотрудника (TWO_WAY_SWAP)
	Reason             string             `json:"reason"`               // Причина, обязательна
}

func (r RequestCreateData) Validate() error {
	if r.Reason == "" {
		return errors.New("не указана причина заявки")
	}
	switch r.RequestType {
	case models.RequestTypeOvertime:
		if r.ShiftID == "" {
			return errors.New("не указана смена для сверхурочной заявки")
		}
	case models.RequestTypeTwoWaySwap:
		if r.AssignmentID == "" {
			return errors.New("не указано назначение")
		}
		if r.TargetAssignmentID == "" {
			return errors.New("не указано назначение второго сотрудника")
		}
	case models.RequestTypePickUp, models.RequestTypeSwap, models.RequestTypeLeave:
		if r.AssignmentID == "" {
			return errors.New("не указано назначение")
		}
	default:
		return errors.New("неизвестный тип заявки")
	}
	if r.RequestType == models.RequestTypeSwap && r.TargetStaffUserID == "" {
		return errors.New("не указан сотрудник, которому передается смена")
	}
	return nil
}

type RequestRespondData struct {
	Accept bool   `json:"accept"` // Согласие второго сотрудника
	Notes  string `json:"notes"`  // Комментарий
}

type RequestDecisionData struct {
	Notes string `json:"notes"` // Комментарий менеджера
}

type RequestView struct {
	ID                 string               `json:"id"`
	RequestType        models.RequestType   `json:"request_type"`
	RequestTypeHuman   string               `json:"request_type_human"`
	AssignmentID       string               `json:"assignment_id,omitempty"`
	Assignment         *AssignmentView      `json:"assignment,omitempty"`
	ShiftID            string               `json:"shift_id,omitempty"`
	Shift              *ShiftView           `json:"shift,omitempty"`
	StaffUserID        string               `json:"staff_user_id"`
	StaffFullName      string               `json:"staff_full_name,omitempty"`
	TargetStaffUserID  string               `json:"target_staff_user_id,omitempty"`
	TargetFullName     string               `json:"target_full_name,omitempty"`
	TargetAssignmentID string               `json:"target_assignment_id,omitempty"`
	Reason             string               `json:"reason"`
	Status             models.RequestStatus `json:"status"`
	StatusHuman        string               `json:"status_human"`
	RequestedAt        time.Time            `json:"requested_at"`
	TargetRespondedAt  *time.Time           `json:"target_responded_at,omitempty"`
	TargetNotes        string               `json:"target_notes,omitempty"`
	ReviewerID         string               `json:"reviewer_id,omitempty"`
	ReviewedAt         *time.Time           `json:"reviewed_at,omitempty"`
	ReviewerNotes      string               `json:"reviewer_notes,omitempty"`
}

type RequestFilter struct {
	Pagination `json:"pagination"`
	BranchID   string               `json:"branch_id"` // По филиалу исходной смены
	Status     models.RequestStatus `json:"status"`    // По статусу
}

func RequestConvert(rec dbmodels.ShiftRequest) RequestView {
	result := RequestView{
		ID:                rec.ID,
		RequestType:       rec.RequestType,
		RequestTypeHuman:  rec.RequestType.ToHuman(),
		StaffUserID:       rec.StaffUserID,
		Reason:            rec.Reason,
		Status:            rec.Status,
		StatusHuman:       rec.Status.ToHuman(),
		RequestedAt:       rec.CreatedAt,
		TargetRespondedAt: rec.TargetRespondedAt,
		TargetNotes:       rec.TargetNotes,
		ReviewedAt:        rec.ReviewedAt,
		ReviewerNotes:     rec.ReviewerNotes,
	}
	if rec.AssignmentID != nil {
		result.AssignmentID = *rec.AssignmentID
	}
	if rec.Assignment != nil {
		view := AssignmentConvert(*rec.Assignment)
		result.Assignment = &view
	}
	if rec.ShiftID != nil {
		result.ShiftID = *rec.ShiftID
	}
	if rec.Shift != nil {
		view := ShiftConvert(*rec.Shift)
		result.Shift = &view
	}
	if rec.StaffUser != nil {
		result.StaffFullName = rec.StaffUser.GetFullName()
	}
	if rec.TargetStaffUserID != nil {
		result.TargetStaffUserID = *rec.TargetStaffUserID
	}
	if rec.TargetStaffUser != nil {
		result.TargetFullName = rec.TargetStaffUser.GetFullName()
	}
	if rec.TargetAssignmentID != nil {
		result.TargetAssignmentID = *rec.TargetAssignmentID
	}
	if rec.ReviewerID != nil {
		result.ReviewerID = *rec.ReviewerID
	}
	return result
}
