package shiftstore

import (
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Shift) (id string, err error)
	GetByID(id string) (rec *dbmodels.Shift, err error)
	Delete(id string) error
	List(branchID string, dateFrom, dateTo time.Time) (list []dbmodels.Shift, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Shift) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Shift, error) {
	rec := dbmodels.Shift{}
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

func (i impl) Delete(id string) error {
	rec := dbmodels.Shift{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(branchID string, dateFrom, dateTo time.Time) (list []dbmodels.Shift, err error) {
	list = []dbmodels.Shift{}
	tx := i.db.Where("branch_id = ?", branchID).
		Preload("Branch")
	if !dateFrom.IsZero() {
		tx = tx.Where("date >= ?", dateFrom)
	}
	if !dateTo.IsZero() {
		tx = tx.Where("date <= ?", dateTo)
	}
	err = tx.Order("date, start_time").Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
