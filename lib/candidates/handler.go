package candidateshandler

import (
	"shift-tools-backend/db"
	assignmentstore "shift-tools-backend/lib/assignment/store"
	closurestore "shift-tools-backend/lib/closure/store"
	"shift-tools-backend/lib/timewindow"
	"shift-tools-backend/lib/utils/helpers"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

// Подбор назначений недели для заявок подмены и обмена.
// Смены в даты закрытия филиала из выдачи исключаются.

type Provider interface {
	Find(actorID string, filter shiftapimodels.CandidatesFilter) (*shiftapimodels.CandidatesView, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		assignmentStore: assignmentstore.NewInstance(db.DB),
		closureStore:    closurestore.NewInstance(db.DB),
		clock:           time.Now,
	}
}

type impl struct {
	assignmentStore assignmentstore.Provider
	closureStore    closurestore.Provider
	clock           timewindow.Clock
}

func (i impl) Find(actorID string, filter shiftapimodels.CandidatesFilter) (*shiftapimodels.CandidatesView, error) {
	if err := filter.Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	weekStart, err := filter.GetWeekStart()
	if err != nil {
		return nil, models.NewValidationError("некорректная дата начала недели")
	}
	weekStart = helpers.WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)
	closures, err := i.closureStore.FindForPeriod(filter.BranchID, weekStart, weekEnd)
	if err != nil {
		return nil, models.NewDependencyError("не удалось проверить закрытия филиала")
	}
	list, err := i.assignmentStore.ListActiveByBranchPeriod(filter.BranchID, weekStart, weekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения назначений недели")
	}
	now := i.clock()
	result := shiftapimodels.CandidatesView{
		BranchAssignments: []shiftapimodels.PublicAssignmentView{},
		OwnAssignments:    []shiftapimodels.AssignmentView{},
		TargetAssignments: []shiftapimodels.PublicAssignmentView{},
	}
	for _, rec := range list {
		if rec.Shift == nil {
			continue
		}
		if helpers.DateOnly(rec.Shift.Date).Before(helpers.DateOnly(now)) {
			continue
		}
		if isClosed(closures, rec.Shift.BranchID, rec.Shift.Date) {
			continue
		}
		switch {
		case rec.StaffUserID == actorID:
			result.OwnAssignments = append(result.OwnAssignments, shiftapimodels.AssignmentConvert(rec))
		case filter.TargetStaffUserID != "" && rec.StaffUserID == filter.TargetStaffUserID:
			view := shiftapimodels.PublicAssignmentConvert(rec)
			result.TargetAssignments = append(result.TargetAssignments, view)
			result.BranchAssignments = append(result.BranchAssignments, view)
		default:
			result.BranchAssignments = append(result.BranchAssignments, shiftapimodels.PublicAssignmentConvert(rec))
		}
	}
	return &result, nil
}

func isClosed(closures []dbmodels.BranchClosure, branchID string, date time.Time) bool {
	for _, closure := range closures {
		if closure.Covers(branchID, date) {
			return true
		}
	}
	return false
}
