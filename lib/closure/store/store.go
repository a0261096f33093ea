package closurestore

import (
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.BranchClosure) (id string, err error)
	Delete(id string) error
	List(dateFrom, dateTo time.Time) (list []dbmodels.BranchClosure, err error)
	// FindForDate закрытия, действующие на филиал в указанную дату
	// (филиальные и глобальные)
	FindForDate(branchID string, date time.Time) (list []dbmodels.BranchClosure, err error)
	FindForPeriod(branchID string, dateFrom, dateTo time.Time) (list []dbmodels.BranchClosure, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.BranchClosure) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.BranchClosure{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(dateFrom, dateTo time.Time) (list []dbmodels.BranchClosure, err error) {
	list = []dbmodels.BranchClosure{}
	tx := i.db.Preload("Branch")
	if !dateFrom.IsZero() {
		tx = tx.Where("date_to >= ?", dateFrom)
	}
	if !dateTo.IsZero() {
		tx = tx.Where("date_from <= ?", dateTo)
	}
	err = tx.Order("date_from").Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) FindForDate(branchID string, date time.Time) (list []dbmodels.BranchClosure, err error) {
	return i.FindForPeriod(branchID, date, date)
}

func (i impl) FindForPeriod(branchID string, dateFrom, dateTo time.Time) (list []dbmodels.BranchClosure, err error) {
	list = []dbmodels.BranchClosure{}
	err = i.db.
		Where("branch_id IS NULL OR branch_id = ?", branchID).
		Where("date_from <= ?", dateTo).
		Where("date_to >= ?", dateFrom).
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
