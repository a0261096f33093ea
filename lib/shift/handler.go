package shifthandler

import (
	"shift-tools-backend/db"
	assignmentstore "shift-tools-backend/lib/assignment/store"
	closurestore "shift-tools-backend/lib/closure/store"
	branchstore "shift-tools-backend/lib/dicts/branch/store"
	shiftstore "shift-tools-backend/lib/shift/store"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
)

type Provider interface {
	Create(data shiftapimodels.ShiftData) (id string, err error)
	GetByID(id string) (*shiftapimodels.ShiftView, error)
	Delete(id string) error
	List(filter shiftapimodels.ShiftFilter) (list []shiftapimodels.ShiftView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:           shiftstore.NewInstance(db.DB),
		branchStore:     branchstore.NewInstance(db.DB),
		closureStore:    closurestore.NewInstance(db.DB),
		assignmentStore: assignmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store           shiftstore.Provider
	branchStore     branchstore.Provider
	closureStore    closurestore.Provider
	assignmentStore assignmentstore.Provider
}

func (i impl) Create(data shiftapimodels.ShiftData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	branch, err := i.branchStore.GetByID(data.BranchID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения филиала")
	}
	if branch == nil {
		return "", models.NewNotFoundError("филиал не найден")
	}
	date, err := data.GetDate()
	if err != nil {
		return "", models.NewValidationError("некорректный формат даты смены")
	}
	closures, err := i.closureStore.FindForDate(data.BranchID, date)
	if err != nil {
		return "", models.NewDependencyError("не удалось проверить закрытия филиала")
	}
	for _, closure := range closures {
		if closure.Covers(data.BranchID, date) {
			return "", models.NewNotEligibleError("филиал закрыт в дату смены")
		}
	}
	rec := dbmodels.Shift{
		BranchID:      data.BranchID,
		Date:          date,
		StartTime:     data.StartTime,
		EndTime:       data.EndTime,
		DurationHours: data.DurationHours,
		Notes:         data.Notes,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания смены")
	}
	return id, nil
}

func (i impl) GetByID(id string) (*shiftapimodels.ShiftView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения смены")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("смена не найдена")
	}
	view := shiftapimodels.ShiftConvert(*rec)
	return &view, nil
}

// Delete смена удаляется только пока на нее никто не назначен
func (i impl) Delete(id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения смены")
	}
	if rec == nil {
		return models.NewNotFoundError("смена не найдена")
	}
	active, err := i.assignmentStore.ListActiveByShift(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения назначений смены")
	}
	if len(active) > 0 {
		return models.NewStateConflictError("по смене есть активные назначения")
	}
	err = i.store.Delete(id)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления смены")
	}
	return nil
}

func (i impl) List(filter shiftapimodels.ShiftFilter) (list []shiftapimodels.ShiftView, err error) {
	if err = filter.Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	dateFrom, dateTo, err := filter.GetPeriod()
	if err != nil {
		return nil, models.NewValidationError("некорректный формат периода")
	}
	recs, err := i.store.List(filter.BranchID, dateFrom, dateTo)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка смен")
	}
	list = make([]shiftapimodels.ShiftView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, shiftapimodels.ShiftConvert(rec))
	}
	return list, nil
}
