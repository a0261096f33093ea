package assignmentstore

import (
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ShiftAssignment) (id string, err error)
	GetByID(id string) (rec *dbmodels.ShiftAssignment, err error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateWithStatus обновление с проверкой ожидаемого статуса,
	// updated=false — статус уже изменен конкурентной операцией
	UpdateWithStatus(id string, expected []models.AssignmentStatus, updMap map[string]interface{}) (updated bool, err error)
	List(filter shiftapimodels.AssignmentFilter) (list []dbmodels.ShiftAssignment, err error)
	ListCount(filter shiftapimodels.AssignmentFilter) (rowCount int64, err error)
	ListActiveByStaff(staffUserID string, dateFrom, dateTo time.Time) (list []dbmodels.ShiftAssignment, err error)
	ListActiveByShift(shiftID string) (list []dbmodels.ShiftAssignment, err error)
	ListPendingByShift(shiftID string) (list []dbmodels.ShiftAssignment, err error)
	ListActiveByBranchPeriod(branchID string, dateFrom, dateTo time.Time) (list []dbmodels.ShiftAssignment, err error)
	// FindByShiftAndStaff неотмененное назначение сотрудника на смену
	FindByShiftAndStaff(shiftID, staffUserID string) (rec *dbmodels.ShiftAssignment, err error)
	ListCheckedOutByStaff(staffUserID string, dateFrom, dateTo time.Time) (list []dbmodels.ShiftAssignment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

var activeStatuses = []models.AssignmentStatus{
	models.AssignmentStatusPending,
	models.AssignmentStatusConfirmed,
	models.AssignmentStatusCheckedIn,
}

func (i impl) Create(rec dbmodels.ShiftAssignment) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ShiftAssignment, error) {
	rec := dbmodels.ShiftAssignment{}
	err := i.db.
		Where("id = ?", id).
		Preload("Shift").
		Preload("Shift.Branch").
		Preload("StaffUser").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.ShiftAssignment{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("назначение не найдено")
	}
	return nil
}

func (i impl) UpdateWithStatus(id string, expected []models.AssignmentStatus, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.ShiftAssignment{}).
		Where("id = ?", id).
		Where("status IN ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) listQuery(filter shiftapimodels.AssignmentFilter) (*gorm.DB, error) {
	tx := i.db.Model(&dbmodels.ShiftAssignment{}).
		Joins("JOIN shifts ON shifts.id = shift_assignments.shift_id")
	if filter.ShiftID != "" {
		tx = tx.Where("shift_assignments.shift_id = ?", filter.ShiftID)
	}
	if filter.StaffUserID != "" {
		tx = tx.Where("shift_assignments.staff_user_id = ?", filter.StaffUserID)
	}
	if filter.BranchID != "" {
		tx = tx.Where("shifts.branch_id = ?", filter.BranchID)
	}
	dateFrom, dateTo, err := filter.GetPeriod()
	if err != nil {
		return nil, err
	}
	if !dateFrom.IsZero() {
		tx = tx.Where("shifts.date >= ?", dateFrom)
	}
	if !dateTo.IsZero() {
		tx = tx.Where("shifts.date <= ?", dateTo)
	}
	return tx, nil
}

func (i impl) List(filter shiftapimodels.AssignmentFilter) (list []dbmodels.ShiftAssignment, err error) {
	tx, err := i.listQuery(filter)
	if err != nil {
		return nil, err
	}
	page, limit := getPage(filter.Pagination)
	list = []dbmodels.ShiftAssignment{}
	err = tx.
		Preload("Shift").
		Preload("Shift.Branch").
		Preload("StaffUser").
		Offset((page - 1) * limit).
		Limit(limit).
		Order("shifts.date, shifts.start_time").
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

func (i impl) ListCount(filter shiftapimodels.AssignmentFilter) (rowCount int64, err error) {
	tx, err := i.listQuery(filter)
	if err != nil {
		return 0, err
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) ListActiveByStaff(staffUserID string, dateFrom, dateTo time.Time) (list []dbmodels.ShiftAssignment, err error) {
	list = []dbmodels.ShiftAssignment{}
	err = i.db.
		Joins("JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shift_assignments.staff_user_id = ?", staffUserID).
		Where("shift_assignments.status IN ?", activeStatuses).
		Where("shifts.date >= ?", dateFrom).
		Where("shifts.date <= ?", dateTo).
		Preload("Shift").
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

func (i impl) ListActiveByShift(shiftID string) (list []dbmodels.ShiftAssignment, err error) {
	list = []dbmodels.ShiftAssignment{}
	err = i.db.
		Where("shift_id = ?", shiftID).
		Where("status IN ?", activeStatuses).
		Preload("StaffUser").
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

func (i impl) ListPendingByShift(shiftID string) (list []dbmodels.ShiftAssignment, err error) {
	list = []dbmodels.ShiftAssignment{}
	err = i.db.
		Where("shift_id = ?", shiftID).
		Where("status = ?", models.AssignmentStatusPending).
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

func (i impl) ListActiveByBranchPeriod(branchID string, dateFrom, dateTo time.Time) (list []dbmodels.ShiftAssignment, err error) {
	list = []dbmodels.ShiftAssignment{}
	err = i.db.
		Joins("JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shifts.branch_id = ?", branchID).
		Where("shift_assignments.status IN ?", activeStatuses).
		Where("shifts.date >= ?", dateFrom).
		Where("shifts.date <= ?", dateTo).
		Preload("Shift").
		Preload("StaffUser").
		Order("shifts.date, shifts.start_time").
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

func (i impl) FindByShiftAndStaff(shiftID, staffUserID string) (*dbmodels.ShiftAssignment, error) {
	rec := dbmodels.ShiftAssignment{}
	err := i.db.
		Where("shift_id = ?", shiftID).
		Where("staff_user_id = ?", staffUserID).
		Where("status <> ?", models.AssignmentStatusCancelled).
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

func (i impl) ListCheckedOutByStaff(staffUserID string, dateFrom, dateTo time.Time) (list []dbmodels.ShiftAssignment, err error) {
	list = []dbmodels.ShiftAssignment{}
	err = i.db.
		Joins("JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shift_assignments.staff_user_id = ?", staffUserID).
		Where("shift_assignments.status = ?", models.AssignmentStatusCheckedOut).
		Where("shifts.date >= ?", dateFrom).
		Where("shifts.date <= ?", dateTo).
		Preload("Shift").
		Preload("Shift.Branch").
		Order("shifts.date").
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

func getPage(p shiftapimodels.Pagination) (page, limit int) {
	page = 1
	limit = 50
	if p.Page > 0 {
		page = p.Page
	}
	if p.Limit > 0 {
		limit = p.Limit
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}
