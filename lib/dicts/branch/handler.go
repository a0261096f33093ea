package branchhandler

import (
	"shift-tools-backend/db"
	branchstore "shift-tools-backend/lib/dicts/branch/store"
	"shift-tools-backend/models"
	staffapimodels "shift-tools-backend/models/api/staff"
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
)

type Provider interface {
	Create(data staffapimodels.BranchData) (id string, err error)
	Update(id string, data staffapimodels.BranchData) error
	GetByID(id string) (*staffapimodels.BranchView, error)
	Delete(id string) error
	List() (list []staffapimodels.BranchView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store: branchstore.NewInstance(db.DB),
	}
}

type impl struct {
	store branchstore.Provider
}

func (i impl) Create(data staffapimodels.BranchData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	rec := dbmodels.Branch{
		Name:    data.Name,
		Address: data.Address,
		Phone:   data.Phone,
		IsMain:  data.IsMain,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания филиала")
	}
	return id, nil
}

func (i impl) Update(id string, data staffapimodels.BranchData) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения филиала")
	}
	if rec == nil {
		return models.NewNotFoundError("филиал не найден")
	}
	updMap := map[string]interface{}{
		"name":    data.Name,
		"address": data.Address,
		"phone":   data.Phone,
		"is_main": data.IsMain,
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка обновления филиала")
	}
	return nil
}

func (i impl) GetByID(id string) (*staffapimodels.BranchView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения филиала")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("филиал не найден")
	}
	view := staffapimodels.BranchConvert(*rec)
	return &view, nil
}

func (i impl) Delete(id string) error {
	err := i.store.Delete(id)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления филиала")
	}
	return nil
}

func (i impl) List() (list []staffapimodels.BranchView, err error) {
	recs, err := i.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка филиалов")
	}
	list = make([]staffapimodels.BranchView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, staffapimodels.BranchConvert(rec))
	}
	return list, nil
}
