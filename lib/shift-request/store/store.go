package shiftrequeststore

import (
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ShiftRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ShiftRequest, err error)
	// UpdateWithStatus обновление с проверкой ожидаемого статуса,
	// updated=false — заявка уже обработана конкурентной операцией
	UpdateWithStatus(id string, expected []models.RequestStatus, updMap map[string]interface{}) (updated bool, err error)
	ListByStaff(staffUserID string) (list []dbmodels.ShiftRequest, err error)
	ListByTarget(targetStaffUserID string, status models.RequestStatus) (list []dbmodels.ShiftRequest, err error)
	ListByStatus(status models.RequestStatus) (list []dbmodels.ShiftRequest, err error)
	// FindActiveByAssignment действующая заявка, ссылающаяся на назначение
	// как на исходное или как на назначение второго сотрудника
	FindActiveByAssignment(assignmentID string) (rec *dbmodels.ShiftRequest, err error)
	FindActiveOvertime(shiftID, staffUserID string) (rec *dbmodels.ShiftRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

var activeStatuses = []models.RequestStatus{
	models.RequestStatusPending,
	models.RequestStatusPendingTarget,
	models.RequestStatusPendingManager,
	models.RequestStatusApproved,
}

func (i impl) Create(rec dbmodels.ShiftRequest) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ShiftRequest, error) {
	rec := dbmodels.ShiftRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload("Assignment").
		Preload("Assignment.Shift").
		Preload("Assignment.Shift.Branch").
		Preload("Shift").
		Preload("Shift.Branch").
		Preload("StaffUser").
		Preload("TargetStaffUser").
		Preload("TargetAssignment").
		Preload("TargetAssignment.Shift").
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

func (i impl) UpdateWithStatus(id string, expected []models.RequestStatus, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.ShiftRequest{}).
		Where("id = ?", id).
		Where("status IN ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListByStaff(staffUserID string) (list []dbmodels.ShiftRequest, err error) {
	list = []dbmodels.ShiftRequest{}
	err = i.db.
		Where("staff_user_id = ?", staffUserID).
		Preload("Assignment").
		Preload("Assignment.Shift").
		Preload("Shift").
		Preload("TargetStaffUser").
		Order("created_at DESC").
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

func (i impl) ListByTarget(targetStaffUserID string, status models.RequestStatus) (list []dbmodels.ShiftRequest, err error) {
	list = []dbmodels.ShiftRequest{}
	tx := i.db.
		Where("target_staff_user_id = ?", targetStaffUserID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err = tx.
		Preload("Assignment").
		Preload("Assignment.Shift").
		Preload("StaffUser").
		Order("created_at DESC").
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

func (i impl) ListByStatus(status models.RequestStatus) (list []dbmodels.ShiftRequest, err error) {
	list = []dbmodels.ShiftRequest{}
	err = i.db.
		Where("status = ?", status).
		Preload("Assignment").
		Preload("Assignment.Shift").
		Preload("Shift").
		Preload("StaffUser").
		Preload("TargetStaffUser").
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

func (i impl) FindActiveByAssignment(assignmentID string) (*dbmodels.ShiftRequest, error) {
	rec := dbmodels.ShiftRequest{}
	err := i.db.
		Where("assignment_id = ? OR target_assignment_id = ?", assignmentID, assignmentID).
		Where("status IN ?", activeStatuses).
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

func (i impl) FindActiveOvertime(shiftID, staffUserID string) (*dbmodels.ShiftRequest, error) {
	rec := dbmodels.ShiftRequest{}
	err := i.db.
		Where("shift_id = ?", shiftID).
		Where("staff_user_id = ?", staffUserID).
		Where("request_type = ?", models.RequestTypeOvertime).
		Where("status IN ?", activeStatuses).
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
