package staffhandler

import (
	"shift-tools-backend/db"
	branchstore "shift-tools-backend/lib/dicts/branch/store"
	staffstore "shift-tools-backend/lib/staff/store"
	"shift-tools-backend/models"
	staffapimodels "shift-tools-backend/models/api/staff"
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Provider interface {
	Create(data staffapimodels.StaffUserData) (id string, err error)
	Update(id string, data staffapimodels.StaffUserData) error
	GetByID(id string) (*staffapimodels.StaffUserView, error)
	// Dismiss увольнение: запись остается для истории смен
	Dismiss(id string) error
	ListByBranch(branchID string) (list []staffapimodels.StaffUserView, err error)
	// SetNotifications переключение каналов уведомлений самим сотрудником
	SetNotifications(id string, pushEnabled, emailEnabled bool) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:       staffstore.NewInstance(db.DB),
		branchStore: branchstore.NewInstance(db.DB),
	}
}

type impl struct {
	store       staffstore.Provider
	branchStore branchstore.Provider
}

func (i impl) Create(data staffapimodels.StaffUserData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if data.Password == "" {
		return "", models.NewValidationError("не указан пароль")
	}
	existing, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return "", errors.Wrap(err, "ошибка проверки почты")
	}
	if existing != nil {
		return "", models.NewStateConflictError("сотрудник с такой почтой уже зарегистрирован")
	}
	branch, err := i.branchStore.GetByID(data.BranchID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения филиала")
	}
	if branch == nil {
		return "", models.NewNotFoundError("филиал не найден")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хеширования пароля")
	}
	rec := dbmodels.StaffUser{
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		MiddleName:     data.MiddleName,
		Email:          data.Email,
		PasswordHash:   string(hash),
		Phone:          data.Phone,
		Role:           data.Role,
		Status:         models.UserWorkingStatus,
		EmploymentType: data.EmploymentType,
		BranchID:       data.BranchID,
		PushEnabled:    data.PushEnabled,
		EmailEnabled:   data.EmailEnabled,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания сотрудника")
	}
	return id, nil
}

func (i impl) Update(id string, data staffapimodels.StaffUserData) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return models.NewNotFoundError("сотрудник не найден")
	}
	updMap := map[string]interface{}{
		"first_name":      data.FirstName,
		"last_name":       data.LastName,
		"middle_name":     data.MiddleName,
		"phone":           data.Phone,
		"role":            data.Role,
		"employment_type": data.EmploymentType,
		"branch_id":       data.BranchID,
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка обновления сотрудника")
	}
	return nil
}

func (i impl) GetByID(id string) (*staffapimodels.StaffUserView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("сотрудник не найден")
	}
	view := staffapimodels.StaffUserConvert(*rec)
	return &view, nil
}

func (i impl) Dismiss(id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return models.NewNotFoundError("сотрудник не найден")
	}
	if rec.Status == models.UserDismissedStatus {
		return nil
	}
	err = i.store.Update(id, map[string]interface{}{"status": models.UserDismissedStatus})
	if err != nil {
		return errors.Wrap(err, "ошибка увольнения сотрудника")
	}
	return nil
}

func (i impl) ListByBranch(branchID string) (list []staffapimodels.StaffUserView, err error) {
	recs, err := i.store.ListByBranch(branchID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка сотрудников")
	}
	list = make([]staffapimodels.StaffUserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, staffapimodels.StaffUserConvert(rec))
	}
	return list, nil
}

func (i impl) SetNotifications(id string, pushEnabled, emailEnabled bool) error {
	err := i.store.Update(id, map[string]interface{}{
		"push_enabled":  pushEnabled,
		"email_enabled": emailEnabled,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления настроек уведомлений")
	}
	return nil
}
