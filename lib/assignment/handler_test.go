package assignmenthandler

import (
	"context"
	"fmt"
	"shift-tools-backend/lib/timewindow"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockAssignmentStore struct {
	seq  int
	recs map[string]*dbmodels.ShiftAssignment

	shifts map[string]*dbmodels.Shift
}

func (m *mockAssignmentStore) Create(rec dbmodels.ShiftAssignment) (string, error) {
	m.seq++
	rec.ID = fmt.Sprintf("a%v", m.seq)
	m.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (m *mockAssignmentStore) GetByID(id string) (*dbmodels.ShiftAssignment, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.Shift = m.shifts[rec.ShiftID]
	return &cp, nil
}

func (m *mockAssignmentStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := m.recs[id]
	if !ok {
		return fmt.Errorf("назначение не найдено")
	}
	applyUpdMap(rec, updMap)
	return nil
}

func (m *mockAssignmentStore) UpdateWithStatus(id string, expected []models.AssignmentStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := m.recs[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, st := range expected {
		if rec.Status == st {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	applyUpdMap(rec, updMap)
	return true, nil
}

func applyUpdMap(rec *dbmodels.ShiftAssignment, updMap map[string]interface{}) {
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.AssignmentStatus)
		case "notes":
			rec.Notes = value.(string)
		case "staff_user_id":
			rec.StaffUserID = value.(string)
		case "checked_in_at":
			t := value.(time.Time)
			rec.CheckedInAt = &t
		case "checked_out_at":
			t := value.(time.Time)
			rec.CheckedOutAt = &t
		case "actual_hours":
			rec.ActualHours = value.(float64)
		case "is_borrowed":
			rec.IsBorrowed = value.(bool)
		case "base_branch_id":
			if value == nil {
				rec.BaseBranchID = nil
			} else {
				s := value.(string)
				rec.BaseBranchID = &s
			}
		}
	}
}

func (m *mockAssignmentStore) List(filter shiftapimodels.AssignmentFilter) ([]dbmodels.ShiftAssignment, error) {
	list := []dbmodels.ShiftAssignment{}
	for _, rec := range m.recs {
		if filter.ShiftID != "" && rec.ShiftID != filter.ShiftID {
			continue
		}
		if filter.StaffUserID != "" && rec.StaffUserID != filter.StaffUserID {
			continue
		}
		cp := *rec
		cp.Shift = m.shifts[rec.ShiftID]
		list = append(list, cp)
	}
	return list, nil
}

func (m *mockAssignmentStore) ListCount(filter shiftapimodels.AssignmentFilter) (int64, error) {
	list, _ := m.List(filter)
	return int64(len(list)), nil
}

func (m *mockAssignmentStore) ListActiveByStaff(staffUserID string, dateFrom, dateTo time.Time) ([]dbmodels.ShiftAssignment, error) {
	list := []dbmodels.ShiftAssignment{}
	for _, rec := range m.recs {
		if rec.StaffUserID != staffUserID || !rec.Status.IsActive() {
			continue
		}
		shift := m.shifts[rec.ShiftID]
		if shift == nil || shift.Date.Before(dateFrom) || shift.Date.After(dateTo) {
			continue
		}
		cp := *rec
		cp.Shift = shift
		list = append(list, cp)
	}
	return list, nil
}

func (m *mockAssignmentStore) ListActiveByShift(shiftID string) ([]dbmodels.ShiftAssignment, error) {
	list := []dbmodels.ShiftAssignment{}
	for _, rec := range m.recs {
		if rec.ShiftID == shiftID && rec.Status.IsActive() {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (m *mockAssignmentStore) ListPendingByShift(shiftID string) ([]dbmodels.ShiftAssignment, error) {
	list := []dbmodels.ShiftAssignment{}
	for _, rec := range m.recs {
		if rec.ShiftID == shiftID && rec.Status == models.AssignmentStatusPending {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (m *mockAssignmentStore) ListActiveByBranchPeriod(branchID string, dateFrom, dateTo time.Time) ([]dbmodels.ShiftAssignment, error) {
	list := []dbmodels.ShiftAssignment{}
	for _, rec := range m.recs {
		shift := m.shifts[rec.ShiftID]
		if shift == nil || shift.BranchID != branchID || !rec.Status.IsActive() {
			continue
		}
		if shift.Date.Before(dateFrom) || shift.Date.After(dateTo) {
			continue
		}
		cp := *rec
		cp.Shift = shift
		list = append(list, cp)
	}
	return list, nil
}

func (m *mockAssignmentStore) FindByShiftAndStaff(shiftID, staffUserID string) (*dbmodels.ShiftAssignment, error) {
	for _, rec := range m.recs {
		if rec.ShiftID == shiftID && rec.StaffUserID == staffUserID && rec.Status != models.AssignmentStatusCancelled {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentStore) ListCheckedOutByStaff(staffUserID string, dateFrom, dateTo time.Time) ([]dbmodels.ShiftAssignment, error) {
	list := []dbmodels.ShiftAssignment{}
	for _, rec := range m.recs {
		if rec.StaffUserID != staffUserID || rec.Status != models.AssignmentStatusCheckedOut {
			continue
		}
		shift := m.shifts[rec.ShiftID]
		if shift == nil || shift.Date.Before(dateFrom) || shift.Date.After(dateTo) {
			continue
		}
		cp := *rec
		cp.Shift = shift
		list = append(list, cp)
	}
	return list, nil
}

type mockShiftStore struct {
	recs map[string]*dbmodels.Shift
}

func (m *mockShiftStore) Create(rec dbmodels.Shift) (string, error) {
	m.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (m *mockShiftStore) GetByID(id string) (*dbmodels.Shift, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockShiftStore) Delete(id string) error {
	delete(m.recs, id)
	return nil
}

func (m *mockShiftStore) List(branchID string, dateFrom, dateTo time.Time) ([]dbmodels.Shift, error) {
	list := []dbmodels.Shift{}
	for _, rec := range m.recs {
		if rec.BranchID == branchID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

type mockClosureStore struct {
	recs []dbmodels.BranchClosure
	err  error
}

func (m *mockClosureStore) Create(rec dbmodels.BranchClosure) (string, error) {
	m.recs = append(m.recs, rec)
	return rec.ID, nil
}

func (m *mockClosureStore) Delete(id string) error { return nil }

func (m *mockClosureStore) List(dateFrom, dateTo time.Time) ([]dbmodels.BranchClosure, error) {
	return m.recs, m.err
}

func (m *mockClosureStore) FindForDate(branchID string, date time.Time) ([]dbmodels.BranchClosure, error) {
	return m.FindForPeriod(branchID, date, date)
}

func (m *mockClosureStore) FindForPeriod(branchID string, dateFrom, dateTo time.Time) ([]dbmodels.BranchClosure, error) {
	if m.err != nil {
		return nil, m.err
	}
	list := []dbmodels.BranchClosure{}
	for _, rec := range m.recs {
		if rec.BranchID != nil && *rec.BranchID != branchID {
			continue
		}
		if rec.DateFrom.After(dateTo) || rec.DateTo.Before(dateFrom) {
			continue
		}
		list = append(list, rec)
	}
	return list, nil
}

type mockStaffStore struct {
	recs map[string]*dbmodels.StaffUser
}

func (m *mockStaffStore) Create(rec dbmodels.StaffUser) (string, error) {
	m.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (m *mockStaffStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (m *mockStaffStore) GetByID(id string) (*dbmodels.StaffUser, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockStaffStore) FindByEmail(email string) (*dbmodels.StaffUser, error) {
	for _, rec := range m.recs {
		if rec.Email == email {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStaffStore) ListByBranch(branchID string) ([]dbmodels.StaffUser, error) {
	list := []dbmodels.StaffUser{}
	for _, rec := range m.recs {
		if rec.BranchID == branchID && rec.Status == models.UserWorkingStatus {
			list = append(list, *rec)
		}
	}
	return list, nil
}

const (
	testBranchID      = "branch-1"
	testOtherBranchID = "branch-2"
	testManagerID     = "manager-1"
	testStaffID       = "staff-1"
	testStaff2ID      = "staff-2"
)

func testEnv(now time.Time) (*impl, *mockAssignmentStore, *mockShiftStore, *mockClosureStore, *mockStaffStore) {
	shiftStore := &mockShiftStore{recs: map[string]*dbmodels.Shift{}}
	store := &mockAssignmentStore{recs: map[string]*dbmodels.ShiftAssignment{}, shifts: shiftStore.recs}
	closureStore := &mockClosureStore{}
	staffStore := &mockStaffStore{recs: map[string]*dbmodels.StaffUser{}}
	staffStore.recs[testStaffID] = &dbmodels.StaffUser{
		BaseModel: dbmodels.BaseModel{ID: testStaffID},
		LastName:  "Иванов", FirstName: "Иван",
		Status:         models.UserWorkingStatus,
		EmploymentType: models.EmploymentFullTime,
		BranchID:       testBranchID,
	}
	staffStore.recs[testStaff2ID] = &dbmodels.StaffUser{
		BaseModel: dbmodels.BaseModel{ID: testStaff2ID},
		LastName:  "Петров", FirstName: "Петр",
		Status:         models.UserWorkingStatus,
		EmploymentType: models.EmploymentPartTime,
		BranchID:       testOtherBranchID,
	}
	handler := &impl{
		store:        store,
		shiftStore:   shiftStore,
		closureStore: closureStore,
		staffStore:   staffStore,
		clock:        func() time.Time { return now },
	}
	return handler, store, shiftStore, closureStore, staffStore
}

func addShift(shiftStore *mockShiftStore, id string, date time.Time, startTime, endTime string) {
	shiftStore.recs[id] = &dbmodels.Shift{
		BaseModel: dbmodels.BaseModel{ID: id},
		BranchID:  testBranchID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}
}

func TestCreate(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-48 * time.Hour)

	t.Run("самостоятельная запись ожидает подтверждения", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		rec := store.recs[id]
		require.Equal(t, models.AssignmentStatusPending, rec.Status)
		require.Equal(t, models.AssignmentTypeSelfRegistered, rec.AssignmentType)
		require.False(t, rec.IsBorrowed)
	})

	t.Run("назначение менеджером подтверждено сразу", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.Create(testManagerID, true, shiftapimodels.AssignmentCreateData{ShiftID: "s1", StaffUserID: testStaffID})
		require.NoError(t, err)
		rec := store.recs[id]
		require.Equal(t, models.AssignmentStatusConfirmed, rec.Status)
		require.Equal(t, models.AssignmentTypeManual, rec.AssignmentType)
	})

	t.Run("сотрудник из другого филиала помечается привлеченным", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.Create(testManagerID, true, shiftapimodels.AssignmentCreateData{ShiftID: "s1", StaffUserID: testStaff2ID})
		require.NoError(t, err)
		rec := store.recs[id]
		require.True(t, rec.IsBorrowed)
		require.NotNil(t, rec.BaseBranchID)
		require.Equal(t, testOtherBranchID, *rec.BaseBranchID)
	})

	t.Run("запись другого сотрудника без прав менеджера", func(t *testing.T) {
		handler, _, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1", StaffUserID: testStaff2ID})
		require.Equal(t, models.ErrKindNotEligible, models.GetErrorKind(err))
	})

	t.Run("повторная запись на ту же смену", func(t *testing.T) {
		handler, _, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		_, err = handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("пересечение с другой активной сменой", func(t *testing.T) {
		handler, _, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		addShift(shiftStore, "s2", day, "16:00", "22:00")
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		_, err = handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s2"})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("смены впритык не пересекаются", func(t *testing.T) {
		handler, _, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		addShift(shiftStore, "s2", day, "17:00", "22:00")
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		_, err = handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s2"})
		require.NoError(t, err)
	})

	t.Run("филиал закрыт в дату смены", func(t *testing.T) {
		handler, _, shiftStore, closureStore, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		closureStore.recs = []dbmodels.BranchClosure{
			{DateFrom: day, DateTo: day},
		}
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.Equal(t, models.ErrKindNotEligible, models.GetErrorKind(err))
	})

	t.Run("сервис закрытий недоступен", func(t *testing.T) {
		handler, _, shiftStore, closureStore, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		closureStore.err = fmt.Errorf("db down")
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.Equal(t, models.ErrKindDependency, models.GetErrorKind(err))
	})

	t.Run("смена не найдена", func(t *testing.T) {
		handler, _, _, _, _ := testEnv(now)
		_, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "missing"})
		require.Equal(t, models.ErrKindNotFound, models.GetErrorKind(err))
	})
}

func TestApproveReject(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-48 * time.Hour)

	t.Run("подтверждение ожидающей записи", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		require.NoError(t, handler.Approve(id))
		require.Equal(t, models.AssignmentStatusConfirmed, store.recs[id].Status)
		// повторное подтверждение
		err = handler.Approve(id)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("отклонение с причиной помечается маркером", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		require.NoError(t, handler.Reject(id, "нет потребности"))
		rec := store.recs[id]
		require.Equal(t, models.AssignmentStatusCancelled, rec.Status)
		require.True(t, strings.HasPrefix(rec.Notes, models.RejectionMarker))
		require.True(t, rec.IsRejected())
		// повторное отклонение не ошибка
		require.NoError(t, handler.Reject(id, "нет потребности"))
	})

	t.Run("отклонение без причины", func(t *testing.T) {
		handler, _, _, _, _ := testEnv(now)
		err := handler.Reject("a1", "")
		require.Equal(t, models.ErrKindValidation, models.GetErrorKind(err))
	})

	t.Run("отмена идемпотентна", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		require.NoError(t, handler.Delete(id))
		require.Equal(t, models.AssignmentStatusCancelled, store.recs[id].Status)
		require.False(t, store.recs[id].IsRejected())
		require.NoError(t, handler.Delete(id))
	})

	t.Run("групповое подтверждение с частичным успехом", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id1, err := handler.Create(testStaffID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		id2, err := handler.Create(testStaff2ID, false, shiftapimodels.AssignmentCreateData{ShiftID: "s1"})
		require.NoError(t, err)
		// вторую запись успели подтвердить конкурентно
		store.recs[id2].Status = models.AssignmentStatusConfirmed
		outcomes, err := handler.BulkApprove("s1")
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		require.Equal(t, id1, outcomes[0].ID)
		require.True(t, outcomes[0].Success)
		require.Equal(t, models.AssignmentStatusConfirmed, store.recs[id1].Status)
	})
}

func TestCheckInOut(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	prepare := func(now time.Time, status models.AssignmentStatus) (*impl, *mockAssignmentStore, string) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      status,
		}
		return handler, store, "a1"
	}

	t.Run("приход в окне", func(t *testing.T) {
		now := day.Add(8*time.Hour + 50*time.Minute)
		handler, store, id := prepare(now, models.AssignmentStatusConfirmed)
		require.NoError(t, handler.CheckIn(ctx, id, testStaffID))
		rec := store.recs[id]
		require.Equal(t, models.AssignmentStatusCheckedIn, rec.Status)
		require.NotNil(t, rec.CheckedInAt)
		require.Equal(t, now, *rec.CheckedInAt)
	})

	t.Run("приход раньше окна", func(t *testing.T) {
		now := day.Add(8*time.Hour + 40*time.Minute)
		handler, _, id := prepare(now, models.AssignmentStatusConfirmed)
		err := handler.CheckIn(ctx, id, testStaffID)
		require.Equal(t, models.ErrKindWindowViolation, models.GetErrorKind(err))
	})

	t.Run("приход по чужому назначению", func(t *testing.T) {
		now := day.Add(8*time.Hour + 50*time.Minute)
		handler, _, id := prepare(now, models.AssignmentStatusConfirmed)
		err := handler.CheckIn(ctx, id, testStaff2ID)
		require.Equal(t, models.ErrKindNotEligible, models.GetErrorKind(err))
	})

	t.Run("приход по отмененному назначению", func(t *testing.T) {
		now := day.Add(8*time.Hour + 50*time.Minute)
		handler, _, id := prepare(now, models.AssignmentStatusCancelled)
		err := handler.CheckIn(ctx, id, testStaffID)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("уход с подсчетом фактических часов", func(t *testing.T) {
		now := day.Add(17*time.Hour + 2*time.Minute)
		handler, store, id := prepare(now, models.AssignmentStatusCheckedIn)
		checkedInAt := day.Add(9 * time.Hour)
		store.recs[id].CheckedInAt = &checkedInAt
		require.NoError(t, handler.CheckOut(ctx, id, testStaffID))
		rec := store.recs[id]
		require.Equal(t, models.AssignmentStatusCheckedOut, rec.Status)
		require.NotNil(t, rec.CheckedOutAt)
		require.InDelta(t, 8.03, rec.ActualHours, 0.01)
	})

	t.Run("уход раньше окна", func(t *testing.T) {
		now := day.Add(16 * time.Hour)
		handler, _, id := prepare(now, models.AssignmentStatusCheckedIn)
		err := handler.CheckOut(ctx, id, testStaffID)
		require.Equal(t, models.ErrKindWindowViolation, models.GetErrorKind(err))
	})

	t.Run("уход без прихода", func(t *testing.T) {
		now := day.Add(17 * time.Hour)
		handler, _, id := prepare(now, models.AssignmentStatusConfirmed)
		err := handler.CheckOut(ctx, id, testStaffID)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})
}

func TestApplyOperations(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	now := day.Add(-48 * time.Hour)

	t.Run("передача назначения с пересчетом привлечения", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusConfirmed,
		}
		require.NoError(t, handler.Reassign("a1", testStaff2ID))
		rec := store.recs["a1"]
		require.Equal(t, testStaff2ID, rec.StaffUserID)
		require.Equal(t, models.AssignmentStatusConfirmed, rec.Status)
		require.True(t, rec.IsBorrowed)
		require.Equal(t, testOtherBranchID, *rec.BaseBranchID)
	})

	t.Run("передача по уже отмененному назначению", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusCancelled,
		}
		err := handler.Reassign("a1", testStaff2ID)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("обмен сменами", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		addShift(shiftStore, "s2", nextDay, "09:00", "17:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusConfirmed,
		}
		store.recs["a2"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a2"},
			ShiftID:     "s2",
			StaffUserID: testStaff2ID,
			Status:      models.AssignmentStatusConfirmed,
		}
		require.NoError(t, handler.SwapStaff("a1", "a2"))
		require.Equal(t, testStaff2ID, store.recs["a1"].StaffUserID)
		require.Equal(t, testStaffID, store.recs["a2"].StaffUserID)
	})

	t.Run("обмен откатывается при конфликте встречного назначения", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		addShift(shiftStore, "s2", nextDay, "09:00", "17:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusConfirmed,
		}
		store.recs["a2"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a2"},
			ShiftID:     "s2",
			StaffUserID: testStaff2ID,
			Status:      models.AssignmentStatusCheckedIn,
		}
		err := handler.SwapStaff("a1", "a2")
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
		require.Equal(t, testStaffID, store.recs["a1"].StaffUserID)
		require.Equal(t, testStaff2ID, store.recs["a2"].StaffUserID)
	})

	t.Run("обмен блокируется пересечением с другой сменой сотрудника", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		addShift(shiftStore, "s2", nextDay, "09:00", "17:00")
		addShift(shiftStore, "s3", day, "10:00", "18:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusConfirmed,
		}
		store.recs["a2"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a2"},
			ShiftID:     "s2",
			StaffUserID: testStaff2ID,
			Status:      models.AssignmentStatusConfirmed,
		}
		// у второго сотрудника в день обмена уже есть своя смена
		store.recs["a3"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a3"},
			ShiftID:     "s3",
			StaffUserID: testStaff2ID,
			Status:      models.AssignmentStatusConfirmed,
		}
		err := handler.SwapStaff("a1", "a2")
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
		require.Equal(t, testStaffID, store.recs["a1"].StaffUserID)
		require.Equal(t, testStaff2ID, store.recs["a2"].StaffUserID)
	})

	t.Run("обмен пересекающимися сменами одного дня", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		addShift(shiftStore, "s2", day, "10:00", "18:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusConfirmed,
		}
		store.recs["a2"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a2"},
			ShiftID:     "s2",
			StaffUserID: testStaff2ID,
			Status:      models.AssignmentStatusConfirmed,
		}
		// обмениваемые назначения освобождаются самим обменом и не мешают друг другу
		require.NoError(t, handler.SwapStaff("a1", "a2"))
		require.Equal(t, testStaff2ID, store.recs["a1"].StaffUserID)
		require.Equal(t, testStaffID, store.recs["a2"].StaffUserID)
	})

	t.Run("снятие по отгулу", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		store.recs["a1"] = &dbmodels.ShiftAssignment{
			BaseModel:   dbmodels.BaseModel{ID: "a1"},
			ShiftID:     "s1",
			StaffUserID: testStaffID,
			Status:      models.AssignmentStatusConfirmed,
		}
		require.NoError(t, handler.CancelForLeave("a1"))
		require.Equal(t, models.AssignmentStatusCancelled, store.recs["a1"].Status)
		require.False(t, store.recs["a1"].IsRejected())
	})

	t.Run("сверхурочное назначение подтверждено сразу", func(t *testing.T) {
		handler, store, shiftStore, _, _ := testEnv(now)
		addShift(shiftStore, "s1", day, "09:00", "17:00")
		id, err := handler.CreateOvertime("s1", testStaffID)
		require.NoError(t, err)
		rec := store.recs[id]
		require.Equal(t, models.AssignmentStatusConfirmed, rec.Status)
		require.True(t, rec.IsOvertime)
	})
}

func TestEnsureProviders(t *testing.T) {
	// мок-хранилища должны реализовывать интерфейсы провайдеров
	var _ = impl{
		store:        &mockAssignmentStore{},
		shiftStore:   &mockShiftStore{},
		closureStore: &mockClosureStore{},
		staffStore:   &mockStaffStore{},
		clock:        time.Now,
	}
	_ = timewindow.Clock(time.Now)
}
