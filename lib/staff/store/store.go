package staffstore

import (
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.StaffUser) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.StaffUser, err error)
	FindByEmail(email string) (rec *dbmodels.StaffUser, err error)
	ListByBranch(branchID string) (list []dbmodels.StaffUser, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StaffUser) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.StaffUser{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("сотрудник не найден")
	}
	return nil
}

func (i impl) GetByID(id string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	err := i.db.
		Where("id = ?", id).
		Preload("Branch").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) FindByEmail(email string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	err := i.db.
		Where("email = ?", email).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByBranch(branchID string) (list []dbmodels.StaffUser, err error) {
	list = []dbmodels.StaffUser{}
	err = i.db.
		Where("branch_id = ?", branchID).
		Where("status = ?", models.UserWorkingStatus).
		Preload("Branch").
		Order("last_name, first_name").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
