package pushdatastore

import (
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.PushData) error
	List(staffUserID string) (list []dbmodels.PushData, err error)
	Delete(ids []string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PushData) error {
	return i.db.
		Save(&rec).
		Error
}

func (i impl) List(staffUserID string) (list []dbmodels.PushData, err error) {
	list = []dbmodels.PushData{}
	err = i.db.
		Where("staff_user_id = ?", staffUserID).
		Order("created_at").
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

func (i impl) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		Where("id IN ?", ids).
		Delete(&dbmodels.PushData{}).
		Error
}
