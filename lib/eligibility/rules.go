package eligibility

import (
	"shift-tools-backend/lib/timewindow"
	"shift-tools-backend/lib/utils/helpers"
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"
	"time"
)

// Правила допуска: чистые предикаты над снимком состояния.
// Вычисляются заново на каждую проверку, результат нигде не кешируется.

// CanRequestAction сотрудник может подать заявку по назначению:
// назначение подтверждено, смена не в прошлом, по назначению нет действующей заявки
func CanRequestAction(assignment dbmodels.ShiftAssignment, shift dbmodels.Shift, activeRequest *dbmodels.ShiftRequest, now time.Time) error {
	if assignment.Status != models.AssignmentStatusConfirmed {
		return models.NewStateConflictError("заявки доступны только по подтвержденному назначению")
	}
	if helpers.DateOnly(shift.Date).Before(helpers.DateOnly(now)) {
		return models.NewNotEligibleError("смена уже прошла")
	}
	if activeRequest != nil {
		return models.NewStateConflictError("по назначению уже есть действующая заявка")
	}
	return nil
}

// CanRequestLeave заявка на отгул: общие правила плюс срок подачи
func CanRequestLeave(assignment dbmodels.ShiftAssignment, shift dbmodels.Shift, activeRequest *dbmodels.ShiftRequest, now time.Time) error {
	if err := CanRequestAction(assignment, shift, activeRequest, now); err != nil {
		return err
	}
	shiftStart, _, err := timewindow.ShiftBounds(shift.Date, shift.StartTime, shift.EndTime)
	if err != nil {
		return err
	}
	return timewindow.LeaveAllowed(now, shiftStart)
}

// CanCheckIn отметка прихода: статус допускает, окно открыто, филиал работает
func CanCheckIn(assignment dbmodels.ShiftAssignment, shift dbmodels.Shift, closures []dbmodels.BranchClosure, now time.Time) error {
	if assignment.Status != models.AssignmentStatusPending && assignment.Status != models.AssignmentStatusConfirmed {
		return models.NewStateConflictError("отметка прихода недоступна в текущем статусе назначения")
	}
	for _, closure := range closures {
		if closure.Covers(shift.BranchID, shift.Date) {
			return models.NewNotEligibleError("филиал закрыт в дату смены")
		}
	}
	shiftStart, shiftEnd, err := timewindow.ShiftBounds(shift.Date, shift.StartTime, shift.EndTime)
	if err != nil {
		return err
	}
	return timewindow.CheckInAllowed(now, shift.Date, shiftStart, shiftEnd)
}

// CanCheckOut отметка ухода: только со смены, не раньше окна
func CanCheckOut(assignment dbmodels.ShiftAssignment, shift dbmodels.Shift, now time.Time) error {
	if assignment.Status != models.AssignmentStatusCheckedIn {
		return models.NewStateConflictError("отметка ухода доступна только после отметки прихода")
	}
	_, shiftEnd, err := timewindow.ShiftBounds(shift.Date, shift.StartTime, shift.EndTime)
	if err != nil {
		return err
	}
	return timewindow.CheckOutAllowed(now, shiftEnd)
}

// CanTarget проверка кандидата для передачи/обмена смены:
// не сам автор, работает, совместимый тип занятости
func CanTarget(actor, candidate dbmodels.StaffUser) error {
	if actor.ID == candidate.ID {
		return models.NewValidationError("нельзя указать себя вторым сотрудником заявки")
	}
	if candidate.Status != models.UserWorkingStatus {
		return models.NewNotEligibleError("сотрудник не работает")
	}
	if !actor.EmploymentType.CanCoverFor(candidate.EmploymentType) {
		return models.NewNotEligibleError("тип занятости сотрудника не подходит для подмены")
	}
	return nil
}

// IsAlreadyOnShift у сотрудника уже есть активное назначение на эту смену
func IsAlreadyOnShift(assignments []dbmodels.ShiftAssignment, staffUserID string) bool {
	for _, rec := range assignments {
		if rec.StaffUserID == staffUserID && rec.Status.IsActive() {
			return true
		}
	}
	return false
}
