package shiftapimodels

import (
	"time"

	"github.com/pkg/errors"
)

// CandidatesFilter параметры подбора назначений для подмены/обмена в рамках недели
type CandidatesFilter struct {
	BranchID          string `json:"branch_id"`            // Филиал
	WeekStart         string `json:"week_start"`           // Понедельник недели (дд.мм.гггг)
	TargetStaffUserID string `json:"target_staff_user_id"` // Для TWO_WAY_SWAP: чьи назначения показать
}

func (f CandidatesFilter) Validate() error {
	if f.BranchID == "" {
		return errors.New("не указан филиал")
	}
	if _, err := f.GetWeekStart(); err != nil {
		return errors.New("некорректная дата начала недели")
	}
	return nil
}

func (f CandidatesFilter) GetWeekStart() (time.Time, error) {
	return time.Parse(DateFormat, f.WeekStart)
}

// CandidatesView результат подбора; пустые списки — нормальный ответ "некого предложить"
type CandidatesView struct {
	BranchAssignments []PublicAssignmentView `json:"branch_assignments"` // чужие назначения недели
	OwnAssignments    []AssignmentView       `json:"own_assignments"`    // свои назначения (отдаваемая сторона)
	TargetAssignments []PublicAssignmentView `json:"target_assignments"` // назначения выбранного сотрудника
}
