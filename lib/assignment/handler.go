package assignmenthandler

import (
	"context"
	"fmt"
	"shift-tools-backend/db"
	assignmentstore "shift-tools-backend/lib/assignment/store"
	closurestore "shift-tools-backend/lib/closure/store"
	"shift-tools-backend/lib/eligibility"
	notifyhandler "shift-tools-backend/lib/notify"
	shiftstore "shift-tools-backend/lib/shift/store"
	staffstore "shift-tools-backend/lib/staff/store"
	"shift-tools-backend/lib/timewindow"
	"shift-tools-backend/lib/utils/lock"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(actorID string, isManager bool, data shiftapimodels.AssignmentCreateData) (id string, err error)
	GetByID(id string) (*shiftapimodels.AssignmentView, error)
	List(filter shiftapimodels.AssignmentFilter) (list []shiftapimodels.AssignmentView, rowCount int64, err error)
	Approve(id string) error
	BulkApprove(shiftID string) (outcomes []shiftapimodels.BulkOutcome, err error)
	Reject(id, reason string) error
	Delete(id string) error
	CheckIn(ctx context.Context, id, staffUserID string) error
	CheckOut(ctx context.Context, id, staffUserID string) error

	// Применение согласованных заявок. Вызывается обработчиком заявок,
	// проверки допуска уже выполнены на этапе согласования

	Reassign(assignmentID, newStaffUserID string) error
	SwapStaff(assignmentID, targetAssignmentID string) error
	CancelForLeave(assignmentID string) error
	CreateOvertime(shiftID, staffUserID string) (id string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:        assignmentstore.NewInstance(db.DB),
		shiftStore:   shiftstore.NewInstance(db.DB),
		closureStore: closurestore.NewInstance(db.DB),
		staffStore:   staffstore.NewInstance(db.DB),
		clock:        time.Now,
	}
}

type impl struct {
	store        assignmentstore.Provider
	shiftStore   shiftstore.Provider
	closureStore closurestore.Provider
	staffStore   staffstore.Provider
	clock        timewindow.Clock
}

const lockWait = 2 * time.Second

func (i impl) Create(actorID string, isManager bool, data shiftapimodels.AssignmentCreateData) (id string, err error) {
	staffUserID := data.StaffUserID
	if staffUserID == "" {
		staffUserID = actorID
	}
	if !isManager && staffUserID != actorID {
		return "", models.NewNotEligibleError("назначать других сотрудников может только менеджер")
	}
	staff, err := i.staffStore.GetByID(staffUserID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения сотрудника")
	}
	if staff == nil {
		return "", models.NewNotFoundError("сотрудник не найден")
	}
	if staff.Status != models.UserWorkingStatus {
		return "", models.NewNotEligibleError("сотрудник не работает")
	}
	shift, err := i.shiftStore.GetByID(data.ShiftID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения смены")
	}
	if shift == nil {
		return "", models.NewNotFoundError("смена не найдена")
	}
	if err = i.closureGuard(shift); err != nil {
		return "", err
	}
	if err = i.duplicateGuard(shift.ID, staffUserID); err != nil {
		return "", err
	}
	if err = i.overlapGuard(*shift, staffUserID); err != nil {
		return "", err
	}
	rec := dbmodels.ShiftAssignment{
		ShiftID:     shift.ID,
		StaffUserID: staffUserID,
		Notes:       data.Notes,
	}
	if isManager && staffUserID != actorID {
		// назначение менеджером подтверждено сразу
		rec.AssignmentType = models.AssignmentTypeManual
		rec.Status = models.AssignmentStatusConfirmed
	} else {
		rec.AssignmentType = models.AssignmentTypeSelfRegistered
		rec.Status = models.AssignmentStatusPending
	}
	if staff.BranchID != shift.BranchID {
		rec.IsBorrowed = true
		rec.BaseBranchID = &staff.BranchID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания назначения")
	}
	if rec.AssignmentType == models.AssignmentTypeManual {
		i.notify(staffUserID, models.PushAssignmentCreated,
			fmt.Sprintf("Вы назначены на смену %v", shiftLabel(*shift)))
	}
	return id, nil
}

func (i impl) GetByID(id string) (*shiftapimodels.AssignmentView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения назначения")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("назначение не найдено")
	}
	view := shiftapimodels.AssignmentConvert(*rec)
	return &view, nil
}

func (i impl) List(filter shiftapimodels.AssignmentFilter) (list []shiftapimodels.AssignmentView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка назначений")
	}
	recs, err := i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка назначений")
	}
	list = make([]shiftapimodels.AssignmentView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, shiftapimodels.AssignmentConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) Approve(id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначения")
	}
	if rec == nil {
		return models.NewNotFoundError("назначение не найдено")
	}
	updMap := map[string]interface{}{
		"status": models.AssignmentStatusConfirmed,
	}
	updated, err := i.store.UpdateWithStatus(id, []models.AssignmentStatus{models.AssignmentStatusPending}, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка подтверждения назначения")
	}
	if !updated {
		return models.NewStateConflictError("подтвердить можно только назначение в статусе ожидания")
	}
	if rec.Shift != nil {
		i.notify(rec.StaffUserID, models.PushAssignmentApproved,
			fmt.Sprintf("Запись на смену %v подтверждена", shiftLabel(*rec.Shift)))
	}
	return nil
}

// BulkApprove подтверждение всех ожидающих записей на смену.
// Ошибка по одной записи не прерывает остальные
func (i impl) BulkApprove(shiftID string) (outcomes []shiftapimodels.BulkOutcome, err error) {
	list, err := i.store.ListPendingByShift(shiftID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка назначений")
	}
	outcomes = make([]shiftapimodels.BulkOutcome, 0, len(list))
	for _, rec := range list {
		outcome := shiftapimodels.BulkOutcome{ID: rec.ID, Success: true}
		aErr := i.Approve(rec.ID)
		if aErr != nil {
			outcome.Success = false
			outcome.Message = aErr.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (i impl) Reject(id, reason string) error {
	if reason == "" {
		return models.NewValidationError("не указана причина отклонения")
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначения")
	}
	if rec == nil {
		return models.NewNotFoundError("назначение не найдено")
	}
	if rec.Status == models.AssignmentStatusCancelled {
		// повторное отклонение, состояние уже целевое
		return nil
	}
	updMap := map[string]interface{}{
		"status": models.AssignmentStatusCancelled,
		"notes":  fmt.Sprintf("%v %v", models.RejectionMarker, reason),
	}
	expected := []models.AssignmentStatus{models.AssignmentStatusPending, models.AssignmentStatusConfirmed}
	updated, err := i.store.UpdateWithStatus(id, expected, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка отклонения назначения")
	}
	if !updated {
		actual, gErr := i.store.GetByID(id)
		if gErr == nil && actual != nil && actual.Status == models.AssignmentStatusCancelled {
			return nil
		}
		return models.NewStateConflictError("отклонить можно только назначение до выхода на смену")
	}
	if rec.Shift != nil {
		i.notify(rec.StaffUserID, models.PushAssignmentRejected,
			fmt.Sprintf("Запись на смену %v отклонена: %v", shiftLabel(*rec.Shift), reason))
	}
	return nil
}

// Delete отмена назначения. Повторная отмена не считается ошибкой
func (i impl) Delete(id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначения")
	}
	if rec == nil {
		return models.NewNotFoundError("назначение не найдено")
	}
	if rec.Status == models.AssignmentStatusCancelled {
		return nil
	}
	updMap := map[string]interface{}{
		"status": models.AssignmentStatusCancelled,
	}
	expected := []models.AssignmentStatus{models.AssignmentStatusPending, models.AssignmentStatusConfirmed}
	updated, err := i.store.UpdateWithStatus(id, expected, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка отмены назначения")
	}
	if !updated {
		actual, gErr := i.store.GetByID(id)
		if gErr == nil && actual != nil && actual.Status == models.AssignmentStatusCancelled {
			return nil
		}
		return models.NewStateConflictError("отменить можно только назначение до выхода на смену")
	}
	return nil
}

func (i impl) CheckIn(ctx context.Context, id, staffUserID string) error {
	success, err := lock.WithDelay(ctx, lock.AssignmentKey(id), lockWait, func() error {
		now := i.clock()
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения назначения")
		}
		if rec == nil {
			return models.NewNotFoundError("назначение не найдено")
		}
		if rec.StaffUserID != staffUserID {
			return models.NewNotEligibleError("отметка доступна только по своему назначению")
		}
		if rec.Shift == nil {
			return errors.New("по назначению не загружена смена")
		}
		closures, err := i.closureStore.FindForDate(rec.Shift.BranchID, rec.Shift.Date)
		if err != nil {
			return models.NewDependencyError("не удалось проверить закрытия филиала")
		}
		if err = eligibility.CanCheckIn(*rec, *rec.Shift, closures, now); err != nil {
			return err
		}
		updMap := map[string]interface{}{
			"status":        models.AssignmentStatusCheckedIn,
			"checked_in_at": now,
		}
		expected := []models.AssignmentStatus{models.AssignmentStatusPending, models.AssignmentStatusConfirmed}
		updated, err := i.store.UpdateWithStatus(id, expected, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка отметки прихода")
		}
		if !updated {
			return models.NewStateConflictError("статус назначения изменился, обновите данные")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !success {
		return models.NewStateConflictError("по назначению уже выполняется другая операция")
	}
	return nil
}

func (i impl) CheckOut(ctx context.Context, id, staffUserID string) error {
	success, err := lock.WithDelay(ctx, lock.AssignmentKey(id), lockWait, func() error {
		now := i.clock()
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения назначения")
		}
		if rec == nil {
			return models.NewNotFoundError("назначение не найдено")
		}
		if rec.StaffUserID != staffUserID {
			return models.NewNotEligibleError("отметка доступна только по своему назначению")
		}
		if rec.Shift == nil {
			return errors.New("по назначению не загружена смена")
		}
		if err = eligibility.CanCheckOut(*rec, *rec.Shift, now); err != nil {
			return err
		}
		actualHours := float64(0)
		if rec.CheckedInAt != nil {
			actualHours = timewindow.WorkedHours(*rec.CheckedInAt, now)
		}
		updMap := map[string]interface{}{
			"status":         models.AssignmentStatusCheckedOut,
			"checked_out_at": now,
			"actual_hours":   actualHours,
		}
		expected := []models.AssignmentStatus{models.AssignmentStatusCheckedIn}
		updated, err := i.store.UpdateWithStatus(id, expected, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка отметки ухода")
		}
		if !updated {
			return models.NewStateConflictError("статус назначения изменился, обновите данные")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !success {
		return models.NewStateConflictError("по назначению уже выполняется другая операция")
	}
	return nil
}

// Reassign передача назначения другому сотруднику (согласованная заявка подмены)
func (i impl) Reassign(assignmentID, newStaffUserID string) error {
	rec, err := i.store.GetByID(assignmentID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначения")
	}
	if rec == nil {
		return models.NewNotFoundError("назначение не найдено")
	}
	if rec.Shift == nil {
		return errors.New("по назначению не загружена смена")
	}
	staff, err := i.staffStore.GetByID(newStaffUserID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сотрудника")
	}
	if staff == nil {
		return models.NewNotFoundError("сотрудник не найден")
	}
	if err = i.duplicateGuard(rec.ShiftID, newStaffUserID); err != nil {
		return err
	}
	if err = i.overlapGuard(*rec.Shift, newStaffUserID); err != nil {
		return err
	}
	updMap := reassignMap(newStaffUserID, staff.BranchID, rec.Shift.BranchID)
	expected := []models.AssignmentStatus{models.AssignmentStatusPending, models.AssignmentStatusConfirmed}
	updated, err := i.store.UpdateWithStatus(assignmentID, expected, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка передачи назначения")
	}
	if !updated {
		return models.NewStateConflictError("назначение уже изменено, передача невозможна")
	}
	i.notify(newStaffUserID, models.PushAssignmentCreated,
		fmt.Sprintf("Вам передана смена %v", shiftLabel(*rec.Shift)))
	return nil
}

// SwapStaff взаимный обмен сменами между двумя назначениями.
// При сбое второго обновления первое откатывается компенсирующим обновлением
func (i impl) SwapStaff(assignmentID, targetAssignmentID string) error {
	recA, err := i.store.GetByID(assignmentID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначения")
	}
	recB, err := i.store.GetByID(targetAssignmentID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначения")
	}
	if recA == nil || recB == nil {
		return models.NewNotFoundError("назначение не найдено")
	}
	if recA.Shift == nil || recB.Shift == nil {
		return errors.New("по назначению не загружена смена")
	}
	staffA, err := i.staffStore.GetByID(recA.StaffUserID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сотрудника")
	}
	staffB, err := i.staffStore.GetByID(recB.StaffUserID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сотрудника")
	}
	if staffA == nil || staffB == nil {
		return models.NewNotFoundError("сотрудник не найден")
	}
	// обмениваемые назначения из проверок исключаются, их меняет сама операция
	exclude := map[string]bool{recA.ID: true, recB.ID: true}
	if err = i.swapSideGuard(*recA.Shift, staffB.ID, exclude); err != nil {
		return err
	}
	if err = i.swapSideGuard(*recB.Shift, staffA.ID, exclude); err != nil {
		return err
	}
	expected := []models.AssignmentStatus{models.AssignmentStatusPending, models.AssignmentStatusConfirmed}
	updatedA, err := i.store.UpdateWithStatus(recA.ID, expected,
		reassignMap(staffB.ID, staffB.BranchID, recA.Shift.BranchID))
	if err != nil {
		return errors.Wrap(err, "ошибка обмена сменами")
	}
	if !updatedA {
		return models.NewStateConflictError("исходное назначение уже изменено, обмен невозможен")
	}
	updatedB, err := i.store.UpdateWithStatus(recB.ID, expected,
		reassignMap(staffA.ID, staffA.BranchID, recB.Shift.BranchID))
	if err == nil && !updatedB {
		err = models.NewStateConflictError("встречное назначение уже изменено, обмен невозможен")
	}
	if err != nil {
		// откат первой половины обмена
		rbErr := i.store.Update(recA.ID, reassignMap(staffA.ID, staffA.BranchID, recA.Shift.BranchID))
		if rbErr != nil {
			log.WithError(rbErr).
				WithField("assignment_id", recA.ID).
				Error("ошибка отката обмена сменами")
		}
		return err
	}
	i.notify(staffA.ID, models.PushAssignmentCreated,
		fmt.Sprintf("Обмен согласован, ваша смена: %v", shiftLabel(*recB.Shift)))
	i.notify(staffB.ID, models.PushAssignmentCreated,
		fmt.Sprintf("Обмен согласован, ваша смена: %v", shiftLabel(*recA.Shift)))
	return nil
}

// CancelForLeave снятие назначения по согласованному отгулу
func (i impl) CancelForLeave(assignmentID string) error {
	updMap := map[string]interface{}{
		"status": models.AssignmentStatusCancelled,
	}
	expected := []models.AssignmentStatus{models.AssignmentStatusPending, models.AssignmentStatusConfirmed}
	updated, err := i.store.UpdateWithStatus(assignmentID, expected, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка снятия назначения")
	}
	if !updated {
		return models.NewStateConflictError("назначение уже изменено, снятие невозможно")
	}
	return nil
}

// CreateOvertime сверхурочное назначение по согласованной заявке, сразу подтверждено
func (i impl) CreateOvertime(shiftID, staffUserID string) (id string, err error) {
	staff, err := i.staffStore.GetByID(staffUserID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения сотрудника")
	}
	if staff == nil {
		return "", models.NewNotFoundError("сотрудник не найден")
	}
	shift, err := i.shiftStore.GetByID(shiftID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения смены")
	}
	if shift == nil {
		return "", models.NewNotFoundError("смена не найдена")
	}
	if err = i.closureGuard(shift); err != nil {
		return "", err
	}
	if err = i.duplicateGuard(shiftID, staffUserID); err != nil {
		return "", err
	}
	if err = i.overlapGuard(*shift, staffUserID); err != nil {
		return "", err
	}
	rec := dbmodels.ShiftAssignment{
		ShiftID:        shiftID,
		StaffUserID:    staffUserID,
		AssignmentType: models.AssignmentTypeManual,
		Status:         models.AssignmentStatusConfirmed,
		IsOvertime:     true,
	}
	if staff.BranchID != shift.BranchID {
		rec.IsBorrowed = true
		rec.BaseBranchID = &staff.BranchID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания сверхурочного назначения")
	}
	return id, nil
}

func (i impl) closureGuard(shift *dbmodels.Shift) error {
	closures, err := i.closureStore.FindForDate(shift.BranchID, shift.Date)
	if err != nil {
		return models.NewDependencyError("не удалось проверить закрытия филиала")
	}
	for _, closure := range closures {
		if closure.Covers(shift.BranchID, shift.Date) {
			return models.NewNotEligibleError("филиал закрыт в дату смены")
		}
	}
	return nil
}

func (i impl) duplicateGuard(shiftID, staffUserID string) error {
	existing, err := i.store.FindByShiftAndStaff(shiftID, staffUserID)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки назначений на смену")
	}
	if existing != nil {
		return models.NewStateConflictError("сотрудник уже назначен на эту смену")
	}
	return nil
}

// overlapGuard у сотрудника не должно быть активного назначения, пересекающегося по времени
func (i impl) overlapGuard(shift dbmodels.Shift, staffUserID string) error {
	start, end, err := timewindow.ShiftBounds(shift.Date, shift.StartTime, shift.EndTime)
	if err != nil {
		return err
	}
	// смены через полночь цепляют соседние даты
	active, err := i.store.ListActiveByStaff(staffUserID, shift.Date.AddDate(0, 0, -1), shift.Date.AddDate(0, 0, 1))
	if err != nil {
		return errors.Wrap(err, "ошибка проверки пересечений смен")
	}
	for _, rec := range active {
		if rec.Shift == nil || rec.ShiftID == shift.ID {
			continue
		}
		otherStart, otherEnd, bErr := timewindow.ShiftBounds(rec.Shift.Date, rec.Shift.StartTime, rec.Shift.EndTime)
		if bErr != nil {
			continue
		}
		if timewindow.Overlaps(start, end, otherStart, otherEnd) {
			return models.NewStateConflictError(
				fmt.Sprintf("пересечение с другой сменой %v", shiftLabel(*rec.Shift)))
		}
	}
	return nil
}

// swapSideGuard проверки дубликата и пересечений для входящего сотрудника при обмене.
// Назначения из exclude освобождаются самим обменом и не считаются занятыми
func (i impl) swapSideGuard(shift dbmodels.Shift, staffUserID string, exclude map[string]bool) error {
	existing, err := i.store.FindByShiftAndStaff(shift.ID, staffUserID)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки назначений на смену")
	}
	if existing != nil && !exclude[existing.ID] {
		return models.NewStateConflictError("сотрудник уже назначен на эту смену")
	}
	start, end, err := timewindow.ShiftBounds(shift.Date, shift.StartTime, shift.EndTime)
	if err != nil {
		return err
	}
	active, err := i.store.ListActiveByStaff(staffUserID, shift.Date.AddDate(0, 0, -1), shift.Date.AddDate(0, 0, 1))
	if err != nil {
		return errors.Wrap(err, "ошибка проверки пересечений смен")
	}
	for _, rec := range active {
		if rec.Shift == nil || rec.ShiftID == shift.ID || exclude[rec.ID] {
			continue
		}
		otherStart, otherEnd, bErr := timewindow.ShiftBounds(rec.Shift.Date, rec.Shift.StartTime, rec.Shift.EndTime)
		if bErr != nil {
			continue
		}
		if timewindow.Overlaps(start, end, otherStart, otherEnd) {
			return models.NewStateConflictError(
				fmt.Sprintf("пересечение с другой сменой %v", shiftLabel(*rec.Shift)))
		}
	}
	return nil
}

func (i impl) notify(staffUserID string, code models.PushSettingCode, msg string) {
	if notifyhandler.Instance == nil {
		return
	}
	notifyhandler.Instance.Send(staffUserID, code, msg)
}

func reassignMap(staffUserID, staffBranchID, shiftBranchID string) map[string]interface{} {
	updMap := map[string]interface{}{
		"staff_user_id":  staffUserID,
		"status":         models.AssignmentStatusConfirmed,
		"is_borrowed":    false,
		"base_branch_id": nil,
	}
	if staffBranchID != shiftBranchID {
		updMap["is_borrowed"] = true
		updMap["base_branch_id"] = staffBranchID
	}
	return updMap
}

func shiftLabel(shift dbmodels.Shift) string {
	return fmt.Sprintf("%v %v-%v", shift.Date.Format(shiftapimodels.DateFormat), shift.StartTime, shift.EndTime)
}
