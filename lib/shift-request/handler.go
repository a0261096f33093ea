package shiftrequesthandler

import (
	"context"
	"fmt"
	"shift-tools-backend/db"
	assignmenthandler "shift-tools-backend/lib/assignment"
	assignmentstore "shift-tools-backend/lib/assignment/store"
	"shift-tools-backend/lib/eligibility"
	notifyhandler "shift-tools-backend/lib/notify"
	shiftrequeststore "shift-tools-backend/lib/shift-request/store"
	shiftstore "shift-tools-backend/lib/shift/store"
	staffstore "shift-tools-backend/lib/staff/store"
	"shift-tools-backend/lib/timewindow"
	"shift-tools-backend/lib/utils/helpers"
	"shift-tools-backend/lib/utils/lock"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(actorID string, data shiftapimodels.RequestCreateData) (id string, err error)
	GetByID(id string) (*shiftapimodels.RequestView, error)
	// ListOwn заявки, поданные сотрудником
	ListOwn(staffUserID string) (list []shiftapimodels.RequestView, err error)
	// ListIncoming заявки, ожидающие ответа сотрудника как второй стороны
	ListIncoming(targetStaffUserID string) (list []shiftapimodels.RequestView, err error)
	// ListForReview очередь заявок на решение менеджера
	ListForReview() (list []shiftapimodels.RequestView, err error)
	Respond(ctx context.Context, id, targetStaffUserID string, data shiftapimodels.RequestRespondData) error
	Approve(ctx context.Context, id, reviewerID string, data shiftapimodels.RequestDecisionData) error
	Reject(ctx context.Context, id, reviewerID string, data shiftapimodels.RequestDecisionData) error
	Cancel(ctx context.Context, id, actorID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:           shiftrequeststore.NewInstance(db.DB),
		assignmentStore: assignmentstore.NewInstance(db.DB),
		shiftStore:      shiftstore.NewInstance(db.DB),
		staffStore:      staffstore.NewInstance(db.DB),
		assignments:     assignmenthandler.Instance,
		clock:           time.Now,
	}
}

type impl struct {
	store           shiftrequeststore.Provider
	assignmentStore assignmentstore.Provider
	shiftStore      shiftstore.Provider
	staffStore      staffstore.Provider
	assignments     assignmenthandler.Provider
	clock           timewindow.Clock
}

const lockWait = 2 * time.Second

func (i impl) Create(actorID string, data shiftapimodels.RequestCreateData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	actor, err := i.staffStore.GetByID(actorID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения сотрудника")
	}
	if actor == nil {
		return "", models.NewNotFoundError("сотрудник не найден")
	}
	if actor.Status != models.UserWorkingStatus {
		return "", models.NewNotEligibleError("заявки доступны только работающим сотрудникам")
	}
	now := i.clock()
	rec := dbmodels.ShiftRequest{
		StaffUserID: actorID,
		RequestType: data.RequestType,
		Reason:      data.Reason,
		Status:      data.RequestType.InitialStatus(),
	}
	switch data.RequestType {
	case models.RequestTypeOvertime:
		err = i.fillOvertime(&rec, *actor, data, now)
	case models.RequestTypePickUp:
		err = i.fillPickUp(&rec, *actor, data, now)
	case models.RequestTypeSwap:
		err = i.fillSwap(&rec, *actor, data, now)
	case models.RequestTypeTwoWaySwap:
		err = i.fillTwoWaySwap(&rec, *actor, data, now)
	case models.RequestTypeLeave:
		err = i.fillLeave(&rec, *actor, data, now)
	}
	if err != nil {
		return "", err
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания заявки")
	}
	if rec.Status == models.RequestStatusPendingTarget && rec.TargetStaffUserID != nil {
		i.notify(*rec.TargetStaffUserID, models.PushRequestIncoming,
			fmt.Sprintf("%v: %v", rec.RequestType.ToHuman(), rec.Reason))
	}
	return id, nil
}

// fillPickUp взятие чужой смены: исходное назначение принадлежит держателю смены,
// его согласие требуется до решения менеджера
func (i impl) fillPickUp(rec *dbmodels.ShiftRequest, actor dbmodels.StaffUser, data shiftapimodels.RequestCreateData, now time.Time) error {
	assignment, err := i.getAssignment(data.AssignmentID)
	if err != nil {
		return err
	}
	if assignment.StaffUserID == actor.ID {
		return models.NewValidationError("нельзя взять собственную смену")
	}
	holder, err := i.getStaff(assignment.StaffUserID)
	if err != nil {
		return err
	}
	if err = eligibility.CanTarget(actor, *holder); err != nil {
		return err
	}
	activeRequest, err := i.activeRequestGuard(assignment.ID)
	if err != nil {
		return err
	}
	if err = eligibility.CanRequestAction(*assignment, *assignment.Shift, activeRequest, now); err != nil {
		return err
	}
	onShift, err := i.assignmentStore.ListActiveByShift(assignment.ShiftID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначений смены")
	}
	if eligibility.IsAlreadyOnShift(onShift, actor.ID) {
		return models.NewStateConflictError("вы уже назначены на эту смену")
	}
	rec.AssignmentID = &assignment.ID
	rec.TargetStaffUserID = &assignment.StaffUserID
	return nil
}

// fillSwap передача своей смены другому сотруднику
func (i impl) fillSwap(rec *dbmodels.ShiftRequest, actor dbmodels.StaffUser, data shiftapimodels.RequestCreateData, now time.Time) error {
	assignment, err := i.getAssignment(data.AssignmentID)
	if err != nil {
		return err
	}
	if assignment.StaffUserID != actor.ID {
		return models.NewNotEligibleError("передать можно только свою смену")
	}
	target, err := i.getStaff(data.TargetStaffUserID)
	if err != nil {
		return err
	}
	if err = eligibility.CanTarget(actor, *target); err != nil {
		return err
	}
	activeRequest, err := i.activeRequestGuard(assignment.ID)
	if err != nil {
		return err
	}
	if err = eligibility.CanRequestAction(*assignment, *assignment.Shift, activeRequest, now); err != nil {
		return err
	}
	rec.AssignmentID = &assignment.ID
	rec.TargetStaffUserID = &target.ID
	return nil
}

// fillTwoWaySwap взаимный обмен: обе стороны отдают подтвержденные смены
func (i impl) fillTwoWaySwap(rec *dbmodels.ShiftRequest, actor dbmodels.StaffUser, data shiftapimodels.RequestCreateData, now time.Time) error {
	assignment, err := i.getAssignment(data.AssignmentID)
	if err != nil {
		return err
	}
	if assignment.StaffUserID != actor.ID {
		return models.NewNotEligibleError("обменять можно только свою смену")
	}
	targetAssignment, err := i.getAssignment(data.TargetAssignmentID)
	if err != nil {
		return err
	}
	if targetAssignment.StaffUserID == actor.ID {
		return models.NewValidationError("встречное назначение принадлежит вам же")
	}
	target, err := i.getStaff(targetAssignment.StaffUserID)
	if err != nil {
		return err
	}
	if err = eligibility.CanTarget(actor, *target); err != nil {
		return err
	}
	activeRequest, err := i.activeRequestGuard(assignment.ID)
	if err != nil {
		return err
	}
	if err = eligibility.CanRequestAction(*assignment, *assignment.Shift, activeRequest, now); err != nil {
		return err
	}
	targetActive, err := i.activeRequestGuard(targetAssignment.ID)
	if err != nil {
		return err
	}
	if err = eligibility.CanRequestAction(*targetAssignment, *targetAssignment.Shift, targetActive, now); err != nil {
		return err
	}
	rec.AssignmentID = &assignment.ID
	rec.TargetStaffUserID = &target.ID
	rec.TargetAssignmentID = &targetAssignment.ID
	return nil
}

// fillLeave отгул: подается не позже чем за 12 часов до начала смены
func (i impl) fillLeave(rec *dbmodels.ShiftRequest, actor dbmodels.StaffUser, data shiftapimodels.RequestCreateData, now time.Time) error {
	assignment, err := i.getAssignment(data.AssignmentID)
	if err != nil {
		return err
	}
	if assignment.StaffUserID != actor.ID {
		return models.NewNotEligibleError("отгул оформляется по своему назначению")
	}
	activeRequest, err := i.activeRequestGuard(assignment.ID)
	if err != nil {
		return err
	}
	if err = eligibility.CanRequestLeave(*assignment, *assignment.Shift, activeRequest, now); err != nil {
		return err
	}
	rec.AssignmentID = &assignment.ID
	return nil
}

// fillOvertime сверхурочная смена: проверка лимита часов выполняется при согласовании
func (i impl) fillOvertime(rec *dbmodels.ShiftRequest, actor dbmodels.StaffUser, data shiftapimodels.RequestCreateData, now time.Time) error {
	shift, err := i.shiftStore.GetByID(data.ShiftID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения смены")
	}
	if shift == nil {
		return models.NewNotFoundError("смена не найдена")
	}
	if helpers.DateOnly(shift.Date).Before(helpers.DateOnly(now)) {
		return models.NewNotEligibleError("смена уже прошла")
	}
	existing, err := i.assignmentStore.FindByShiftAndStaff(shift.ID, actor.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки назначений на смену")
	}
	if existing != nil {
		return models.NewStateConflictError("вы уже назначены на эту смену")
	}
	duplicate, err := i.store.FindActiveOvertime(shift.ID, actor.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки заявок")
	}
	if duplicate != nil {
		return models.NewStateConflictError("по этой смене уже есть ваша действующая заявка")
	}
	rec.ShiftID = &shift.ID
	return nil
}

func (i impl) GetByID(id string) (*shiftapimodels.RequestView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("заявка не найдена")
	}
	view := shiftapimodels.RequestConvert(*rec)
	return &view, nil
}

func (i impl) ListOwn(staffUserID string) (list []shiftapimodels.RequestView, err error) {
	recs, err := i.store.ListByStaff(staffUserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	return convertList(recs), nil
}

func (i impl) ListIncoming(targetStaffUserID string) (list []shiftapimodels.RequestView, err error) {
	recs, err := i.store.ListByTarget(targetStaffUserID, models.RequestStatusPendingTarget)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	return convertList(recs), nil
}

func (i impl) ListForReview() (list []shiftapimodels.RequestView, err error) {
	pending, err := i.store.ListByStatus(models.RequestStatusPending)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	pendingManager, err := i.store.ListByStatus(models.RequestStatusPendingManager)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	return convertList(append(pending, pendingManager...)), nil
}

// Respond ответ второго сотрудника. Согласие передает заявку менеджеру,
// отказ закрывает заявку без участия менеджера
func (i impl) Respond(ctx context.Context, id, targetStaffUserID string, data shiftapimodels.RequestRespondData) error {
	return i.withLock(ctx, id, func() error {
		now := i.clock()
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if rec == nil {
			return models.NewNotFoundError("заявка не найдена")
		}
		if rec.TargetStaffUserID == nil || *rec.TargetStaffUserID != targetStaffUserID {
			return models.NewNotEligibleError("ответ доступен только второму сотруднику заявки")
		}
		if rec.Status != models.RequestStatusPendingTarget {
			return models.NewStateConflictError("заявка уже обработана")
		}
		newStatus := models.RequestStatusPendingManager
		notifyCode := models.PushRequestTargetReply
		msg := "Сотрудник согласился, заявка передана менеджеру"
		if !data.Accept {
			newStatus = models.RequestStatusRejectedByTarget
			msg = "Сотрудник отклонил заявку"
		}
		updMap := map[string]interface{}{
			"status":              newStatus,
			"target_responded_at": now,
			"target_notes":        data.Notes,
		}
		expected := []models.RequestStatus{models.RequestStatusPendingTarget}
		updated, err := i.store.UpdateWithStatus(id, expected, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения ответа по заявке")
		}
		if !updated {
			return models.NewStateConflictError("заявка уже обработана")
		}
		i.notify(rec.StaffUserID, notifyCode, msg)
		return nil
	})
}

// Approve решение менеджера с применением заявки к назначениям.
// Статус меняется до применения, при сбое применения возвращается обратно
func (i impl) Approve(ctx context.Context, id, reviewerID string, data shiftapimodels.RequestDecisionData) error {
	return i.withLock(ctx, id, func() error {
		now := i.clock()
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if rec == nil {
			return models.NewNotFoundError("заявка не найдена")
		}
		prevStatus := rec.Status
		if prevStatus != models.RequestStatusPending && prevStatus != models.RequestStatusPendingManager {
			return models.NewStateConflictError("заявка не ожидает решения менеджера")
		}
		if rec.RequestType == models.RequestTypeOvertime {
			if err = i.overtimeCapGuard(*rec); err != nil {
				return err
			}
		}
		updMap := map[string]interface{}{
			"status":         models.RequestStatusApproved,
			"reviewer_id":    reviewerID,
			"reviewed_at":    now,
			"reviewer_notes": data.Notes,
		}
		expected := []models.RequestStatus{prevStatus}
		updated, err := i.store.UpdateWithStatus(id, expected, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка согласования заявки")
		}
		if !updated {
			return models.NewStateConflictError("заявка уже обработана")
		}
		if err = i.apply(*rec); err != nil {
			i.revertApprove(id, prevStatus)
			return err
		}
		i.notify(rec.StaffUserID, models.PushRequestApproved,
			fmt.Sprintf("%v: заявка согласована", rec.RequestType.ToHuman()))
		return nil
	})
}

func (i impl) Reject(ctx context.Context, id, reviewerID string, data shiftapimodels.RequestDecisionData) error {
	return i.withLock(ctx, id, func() error {
		now := i.clock()
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if rec == nil {
			return models.NewNotFoundError("заявка не найдена")
		}
		updMap := map[string]interface{}{
			"status":         models.RequestStatusRejected,
			"reviewer_id":    reviewerID,
			"reviewed_at":    now,
			"reviewer_notes": data.Notes,
		}
		expected := []models.RequestStatus{models.RequestStatusPending, models.RequestStatusPendingManager}
		updated, err := i.store.UpdateWithStatus(id, expected, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка отклонения заявки")
		}
		if !updated {
			return models.NewStateConflictError("заявка не ожидает решения менеджера")
		}
		i.notify(rec.StaffUserID, models.PushRequestRejected,
			fmt.Sprintf("%v: заявка отклонена", rec.RequestType.ToHuman()))
		return nil
	})
}

// Cancel отзыв заявки автором. Повторный отзыв не считается ошибкой
func (i impl) Cancel(ctx context.Context, id, actorID string) error {
	return i.withLock(ctx, id, func() error {
		rec, err := i.store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения заявки")
		}
		if rec == nil {
			return models.NewNotFoundError("заявка не найдена")
		}
		if rec.StaffUserID != actorID {
			return models.NewNotEligibleError("отозвать заявку может только автор")
		}
		if rec.Status == models.RequestStatusCancelled {
			return nil
		}
		updMap := map[string]interface{}{
			"status": models.RequestStatusCancelled,
		}
		expected := []models.RequestStatus{
			models.RequestStatusPending,
			models.RequestStatusPendingTarget,
			models.RequestStatusPendingManager,
		}
		updated, err := i.store.UpdateWithStatus(id, expected, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка отзыва заявки")
		}
		if !updated {
			actual, gErr := i.store.GetByID(id)
			if gErr == nil && actual != nil && actual.Status == models.RequestStatusCancelled {
				return nil
			}
			return models.NewStateConflictError("заявка уже обработана, отзыв невозможен")
		}
		if rec.TargetStaffUserID != nil && rec.Status == models.RequestStatusPendingTarget {
			i.notify(*rec.TargetStaffUserID, models.PushRequestCancelled,
				fmt.Sprintf("%v: заявка отозвана автором", rec.RequestType.ToHuman()))
		}
		return nil
	})
}

func (i impl) apply(rec dbmodels.ShiftRequest) error {
	switch rec.RequestType {
	case models.RequestTypePickUp:
		return i.assignments.Reassign(*rec.AssignmentID, rec.StaffUserID)
	case models.RequestTypeSwap:
		return i.assignments.Reassign(*rec.AssignmentID, *rec.TargetStaffUserID)
	case models.RequestTypeTwoWaySwap:
		return i.assignments.SwapStaff(*rec.AssignmentID, *rec.TargetAssignmentID)
	case models.RequestTypeLeave:
		return i.assignments.CancelForLeave(*rec.AssignmentID)
	case models.RequestTypeOvertime:
		_, err := i.assignments.CreateOvertime(*rec.ShiftID, rec.StaffUserID)
		return err
	}
	return errors.Errorf("неизвестный тип заявки: %v", rec.RequestType)
}

func (i impl) revertApprove(id string, prevStatus models.RequestStatus) {
	updMap := map[string]interface{}{
		"status":         prevStatus,
		"reviewer_id":    nil,
		"reviewed_at":    nil,
		"reviewer_notes": "",
	}
	_, err := i.store.UpdateWithStatus(id, []models.RequestStatus{models.RequestStatusApproved}, updMap)
	if err != nil {
		log.WithError(err).
			WithField("request_id", id).
			Error("ошибка возврата статуса заявки после сбоя применения")
	}
}

// overtimeCapGuard плановые часы недели вместе со сверхурочной сменой
// не должны превышать суммарный недельный лимит
func (i impl) overtimeCapGuard(rec dbmodels.ShiftRequest) error {
	shift, err := i.shiftStore.GetByID(*rec.ShiftID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения смены")
	}
	if shift == nil {
		return models.NewNotFoundError("смена не найдена")
	}
	weekStart := helpers.WeekStart(shift.Date)
	weekEnd := weekStart.AddDate(0, 0, 6)
	active, err := i.assignmentStore.ListActiveByStaff(rec.StaffUserID, weekStart, weekEnd)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначений недели")
	}
	planned := shift.DurationHours
	for _, item := range active {
		if item.Shift == nil {
			continue
		}
		planned += item.Shift.DurationHours
	}
	if planned > models.WeekTotalHoursLimit {
		return models.NewCapacityError(
			fmt.Sprintf("превышен недельный лимит часов: %.2f из %.0f", planned, models.WeekTotalHoursLimit))
	}
	return nil
}

func (i impl) getAssignment(id string) (*dbmodels.ShiftAssignment, error) {
	rec, err := i.assignmentStore.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения назначения")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("назначение не найдено")
	}
	if rec.Shift == nil {
		return nil, errors.New("по назначению не загружена смена")
	}
	return rec, nil
}

func (i impl) getStaff(id string) (*dbmodels.StaffUser, error) {
	rec, err := i.staffStore.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("сотрудник не найден")
	}
	return rec, nil
}

func (i impl) activeRequestGuard(assignmentID string) (*dbmodels.ShiftRequest, error) {
	rec, err := i.store.FindActiveByAssignment(assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка проверки заявок по назначению")
	}
	return rec, nil
}

func (i impl) withLock(ctx context.Context, id string, safeCode func() error) error {
	success, err := lock.WithDelay(ctx, lock.RequestKey(id), lockWait, safeCode)
	if err != nil {
		return err
	}
	if !success {
		return models.NewStateConflictError("по заявке уже выполняется другая операция")
	}
	return nil
}

func (i impl) notify(staffUserID string, code models.PushSettingCode, msg string) {
	if notifyhandler.Instance == nil {
		return
	}
	notifyhandler.Instance.Send(staffUserID, code, msg)
}

func convertList(recs []dbmodels.ShiftRequest) []shiftapimodels.RequestView {
	list := make([]shiftapimodels.RequestView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, shiftapimodels.RequestConvert(rec))
	}
	return list
}
