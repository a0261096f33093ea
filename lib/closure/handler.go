package closurehandler

import (
	"shift-tools-backend/db"
	closurestore "shift-tools-backend/lib/closure/store"
	branchstore "shift-tools-backend/lib/dicts/branch/store"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

// Календарь закрытий: филиальные периоды и глобальные (без филиала)

type Provider interface {
	Create(data shiftapimodels.ClosureData) (id string, err error)
	Delete(id string) error
	List(dateFrom, dateTo string) (list []shiftapimodels.ClosureView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:       closurestore.NewInstance(db.DB),
		branchStore: branchstore.NewInstance(db.DB),
	}
}

type impl struct {
	store       closurestore.Provider
	branchStore branchstore.Provider
}

func (i impl) Create(data shiftapimodels.ClosureData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	from, to, err := data.GetPeriod()
	if err != nil {
		return "", models.NewValidationError("некорректный формат периода закрытия")
	}
	rec := dbmodels.BranchClosure{
		DateFrom: from,
		DateTo:   to,
		Reason:   data.Reason,
	}
	if data.BranchID != "" {
		branch, bErr := i.branchStore.GetByID(data.BranchID)
		if bErr != nil {
			return "", errors.Wrap(bErr, "ошибка получения филиала")
		}
		if branch == nil {
			return "", models.NewNotFoundError("филиал не найден")
		}
		rec.BranchID = &data.BranchID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания закрытия")
	}
	return id, nil
}

func (i impl) Delete(id string) error {
	err := i.store.Delete(id)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления закрытия")
	}
	return nil
}

func (i impl) List(dateFrom, dateTo string) (list []shiftapimodels.ClosureView, err error) {
	var from, to time.Time
	if dateFrom != "" {
		from, err = time.Parse(shiftapimodels.DateFormat, dateFrom)
		if err != nil {
			return nil, models.NewValidationError("некорректный формат периода")
		}
	}
	if dateTo != "" {
		to, err = time.Parse(shiftapimodels.DateFormat, dateTo)
		if err != nil {
			return nil, models.NewValidationError("некорректный формат периода")
		}
	}
	recs, err := i.store.List(from, to)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка закрытий")
	}
	list = make([]shiftapimodels.ClosureView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, shiftapimodels.ClosureConvert(rec))
	}
	return list, nil
}
