package shiftrequesthandler

import (
	"context"
	"fmt"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockRequestStore struct {
	seq  int
	recs map[string]*dbmodels.ShiftRequest
}

func (m *mockRequestStore) Create(rec dbmodels.ShiftRequest) (string, error) {
	m.seq++
	rec.ID = fmt.Sprintf("r%v", m.seq)
	m.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (m *mockRequestStore) GetByID(id string) (*dbmodels.ShiftRequest, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRequestStore) UpdateWithStatus(id string, expected []models.RequestStatus, updMap map[string]interface{}) (bool, error) {
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
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.RequestStatus)
		case "target_responded_at":
			t := value.(time.Time)
			rec.TargetRespondedAt = &t
		case "target_notes":
			rec.TargetNotes = value.(string)
		case "reviewer_id":
			if value == nil {
				rec.ReviewerID = nil
			} else {
				s := value.(string)
				rec.ReviewerID = &s
			}
		case "reviewed_at":
			if value == nil {
				rec.ReviewedAt = nil
			} else {
				t := value.(time.Time)
				rec.ReviewedAt = &t
			}
		case "reviewer_notes":
			rec.ReviewerNotes = value.(string)
		}
	}
	return true, nil
}

func (m *mockRequestStore) ListByStaff(staffUserID string) ([]dbmodels.ShiftRequest, error) {
	list := []dbmodels.ShiftRequest{}
	for _, rec := range m.recs {
		if rec.StaffUserID == staffUserID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (m *mockRequestStore) ListByTarget(targetStaffUserID string, status models.RequestStatus) ([]dbmodels.ShiftRequest, error) {
	list := []dbmodels.ShiftRequest{}
	for _, rec := range m.recs {
		if rec.TargetStaffUserID == nil || *rec.TargetStaffUserID != targetStaffUserID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		list = append(list, *rec)
	}
	return list, nil
}

func (m *mockRequestStore) ListByStatus(status models.RequestStatus) ([]dbmodels.ShiftRequest, error) {
	list := []dbmodels.ShiftRequest{}
	for _, rec := range m.recs {
		if rec.Status == status {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (m *mockRequestStore) FindActiveByAssignment(assignmentID string) (*dbmodels.ShiftRequest, error) {
	for _, rec := range m.recs {
		if !rec.Status.IsActive() {
			continue
		}
		if rec.AssignmentID != nil && *rec.AssignmentID == assignmentID {
			cp := *rec
			return &cp, nil
		}
		if rec.TargetAssignmentID != nil && *rec.TargetAssignmentID == assignmentID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRequestStore) FindActiveOvertime(shiftID, staffUserID string) (*dbmodels.ShiftRequest, error) {
	for _, rec := range m.recs {
		if rec.ShiftID != nil && *rec.ShiftID == shiftID &&
			rec.StaffUserID == staffUserID &&
			rec.RequestType == models.RequestTypeOvertime &&
			rec.Status.IsActive() {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

type mockAssignmentStore struct {
	recs   map[string]*dbmodels.ShiftAssignment
	shifts map[string]*dbmodels.Shift
}

func (m *mockAssignmentStore) Create(rec dbmodels.ShiftAssignment) (string, error) {
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

func (m *mockAssignmentStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (m *mockAssignmentStore) UpdateWithStatus(id string, expected []models.AssignmentStatus, updMap map[string]interface{}) (bool, error) {
	return true, nil
}

func (m *mockAssignmentStore) List(filter shiftapimodels.AssignmentFilter) ([]dbmodels.ShiftAssignment, error) {
	return nil, nil
}

func (m *mockAssignmentStore) ListCount(filter shiftapimodels.AssignmentFilter) (int64, error) {
	return 0, nil
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
	return nil, nil
}

func (m *mockAssignmentStore) ListActiveByBranchPeriod(branchID string, dateFrom, dateTo time.Time) ([]dbmodels.ShiftAssignment, error) {
	return nil, nil
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
	return nil, nil
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

func (m *mockShiftStore) Delete(id string) error { return nil }

func (m *mockShiftStore) List(branchID string, dateFrom, dateTo time.Time) ([]dbmodels.Shift, error) {
	return nil, nil
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

func (m *mockStaffStore) FindByEmail(email string) (*dbmodels.StaffUser, error) { return nil, nil }

func (m *mockStaffStore) ListByBranch(branchID string) ([]dbmodels.StaffUser, error) {
	return nil, nil
}

// fakeAssignments запись вызовов применения заявок
type fakeAssignments struct {
	reassigned [][2]string
	swapped    [][2]string
	cancelled  []string
	overtime   [][2]string
	applyErr   error
}

func (f *fakeAssignments) Create(actorID string, isManager bool, data shiftapimodels.AssignmentCreateData) (string, error) {
	return "", nil
}

func (f *fakeAssignments) GetByID(id string) (*shiftapimodels.AssignmentView, error) {
	return nil, nil
}

func (f *fakeAssignments) List(filter shiftapimodels.AssignmentFilter) ([]shiftapimodels.AssignmentView, int64, error) {
	return nil, 0, nil
}

func (f *fakeAssignments) Approve(id string) error { return nil }

func (f *fakeAssignments) BulkApprove(shiftID string) ([]shiftapimodels.BulkOutcome, error) {
	return nil, nil
}

func (f *fakeAssignments) Reject(id, reason string) error { return nil }

func (f *fakeAssignments) Delete(id string) error { return nil }

func (f *fakeAssignments) CheckIn(ctx context.Context, id, staffUserID string) error { return nil }

func (f *fakeAssignments) CheckOut(ctx context.Context, id, staffUserID string) error { return nil }

func (f *fakeAssignments) Reassign(assignmentID, newStaffUserID string) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.reassigned = append(f.reassigned, [2]string{assignmentID, newStaffUserID})
	return nil
}

func (f *fakeAssignments) SwapStaff(assignmentID, targetAssignmentID string) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.swapped = append(f.swapped, [2]string{assignmentID, targetAssignmentID})
	return nil
}

func (f *fakeAssignments) CancelForLeave(assignmentID string) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.cancelled = append(f.cancelled, assignmentID)
	return nil
}

func (f *fakeAssignments) CreateOvertime(shiftID, staffUserID string) (string, error) {
	if f.applyErr != nil {
		return "", f.applyErr
	}
	f.overtime = append(f.overtime, [2]string{shiftID, staffUserID})
	return "a-ot", nil
}

const (
	testBranchID  = "branch-1"
	testStaffID   = "staff-1"
	testStaff2ID  = "staff-2"
	testManagerID = "manager-1"
)

type testEnv struct {
	handler     *impl
	store       *mockRequestStore
	assignments *fakeAssignments
	aStore      *mockAssignmentStore
	shiftStore  *mockShiftStore
	staffStore  *mockStaffStore
}

func newEnv(now time.Time) *testEnv {
	shiftStore := &mockShiftStore{recs: map[string]*dbmodels.Shift{}}
	aStore := &mockAssignmentStore{recs: map[string]*dbmodels.ShiftAssignment{}, shifts: shiftStore.recs}
	store := &mockRequestStore{recs: map[string]*dbmodels.ShiftRequest{}}
	staffStore := &mockStaffStore{recs: map[string]*dbmodels.StaffUser{}}
	assignments := &fakeAssignments{}
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
		EmploymentType: models.EmploymentFullTime,
		BranchID:       testBranchID,
	}
	handler := &impl{
		store:           store,
		assignmentStore: aStore,
		shiftStore:      shiftStore,
		staffStore:      staffStore,
		assignments:     assignments,
		clock:           func() time.Time { return now },
	}
	return &testEnv{
		handler:     handler,
		store:       store,
		assignments: assignments,
		aStore:      aStore,
		shiftStore:  shiftStore,
		staffStore:  staffStore,
	}
}

func (e *testEnv) addShift(id string, date time.Time, startTime, endTime string, hours float64) {
	e.shiftStore.recs[id] = &dbmodels.Shift{
		BaseModel:     dbmodels.BaseModel{ID: id},
		BranchID:      testBranchID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		DurationHours: hours,
	}
}

func (e *testEnv) addAssignment(id, shiftID, staffUserID string, status models.AssignmentStatus) {
	e.aStore.recs[id] = &dbmodels.ShiftAssignment{
		BaseModel:   dbmodels.BaseModel{ID: id},
		ShiftID:     shiftID,
		StaffUserID: staffUserID,
		Status:      status,
	}
}

func TestCreateRequest(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // понедельник
	now := day.Add(-48 * time.Hour)

	t.Run("взятие чужой смены ожидает согласия держателя", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaff2ID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypePickUp,
			AssignmentID: "a1",
			Reason:       "хочу дополнительную смену",
		})
		require.NoError(t, err)
		rec := env.store.recs[id]
		require.Equal(t, models.RequestStatusPendingTarget, rec.Status)
		require.Equal(t, testStaff2ID, *rec.TargetStaffUserID)
		require.Equal(t, "a1", *rec.AssignmentID)
	})

	t.Run("взятие собственной смены", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypePickUp,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		require.Equal(t, models.ErrKindValidation, models.GetErrorKind(err))
	})

	t.Run("заявка без причины", func(t *testing.T) {
		env := newEnv(now)
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
		})
		require.Equal(t, models.ErrKindValidation, models.GetErrorKind(err))
	})

	t.Run("по назначению уже есть действующая заявка", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaff2ID, models.AssignmentStatusConfirmed)
		data := shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypePickUp,
			AssignmentID: "a1",
			Reason:       "причина",
		}
		_, err := env.handler.Create(testStaffID, data)
		require.NoError(t, err)
		_, err = env.handler.Create(testStaffID, data)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("заявка по неподтвержденному назначению", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaff2ID, models.AssignmentStatusPending)
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypePickUp,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("передача смены уволенному сотруднику", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		env.staffStore.recs[testStaff2ID].Status = models.UserDismissedStatus
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:       models.RequestTypeSwap,
			AssignmentID:      "a1",
			TargetStaffUserID: testStaff2ID,
			Reason:            "причина",
		})
		require.Equal(t, models.ErrKindNotEligible, models.GetErrorKind(err))
	})

	t.Run("обмен сменами заполняет обе стороны", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addShift("s2", day.AddDate(0, 0, 1), "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		env.addAssignment("a2", "s2", testStaff2ID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:        models.RequestTypeTwoWaySwap,
			AssignmentID:       "a1",
			TargetAssignmentID: "a2",
			Reason:             "семейные обстоятельства",
		})
		require.NoError(t, err)
		rec := env.store.recs[id]
		require.Equal(t, models.RequestStatusPendingTarget, rec.Status)
		require.Equal(t, testStaff2ID, *rec.TargetStaffUserID)
		require.Equal(t, "a2", *rec.TargetAssignmentID)
	})

	t.Run("обмен со своим же назначением", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addShift("s2", day.AddDate(0, 0, 1), "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		env.addAssignment("a2", "s2", testStaffID, models.AssignmentStatusConfirmed)
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:        models.RequestTypeTwoWaySwap,
			AssignmentID:       "a1",
			TargetAssignmentID: "a2",
			Reason:             "причина",
		})
		require.Equal(t, models.ErrKindValidation, models.GetErrorKind(err))
	})

	t.Run("отгул в срок", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
			Reason:       "визит к врачу",
		})
		require.NoError(t, err)
		require.Equal(t, models.RequestStatusPending, env.store.recs[id].Status)
	})

	t.Run("отгул позже чем за 12 часов", func(t *testing.T) {
		lateNow := day.Add(9*time.Hour - 5*time.Hour) // за 5 часов до начала
		env := newEnv(lateNow)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		require.Equal(t, models.ErrKindWindowViolation, models.GetErrorKind(err))
	})

	t.Run("сверхурочная заявка по смене, где уже назначен", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType: models.RequestTypeOvertime,
			ShiftID:     "s1",
			Reason:      "нужны часы",
		})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})

	t.Run("повторная сверхурочная заявка по той же смене", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		data := shiftapimodels.RequestCreateData{
			RequestType: models.RequestTypeOvertime,
			ShiftID:     "s1",
			Reason:      "нужны часы",
		}
		_, err := env.handler.Create(testStaffID, data)
		require.NoError(t, err)
		_, err = env.handler.Create(testStaffID, data)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})
}

func TestRespond(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-48 * time.Hour)
	ctx := context.Background()

	prepare := func(env *testEnv) string {
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaff2ID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypePickUp,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		if err != nil {
			panic(err)
		}
		return id
	}

	t.Run("согласие передает заявку менеджеру", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		err := env.handler.Respond(ctx, id, testStaff2ID, shiftapimodels.RequestRespondData{Accept: true, Notes: "не против"})
		require.NoError(t, err)
		rec := env.store.recs[id]
		require.Equal(t, models.RequestStatusPendingManager, rec.Status)
		require.NotNil(t, rec.TargetRespondedAt)
		require.Equal(t, "не против", rec.TargetNotes)
	})

	t.Run("отказ закрывает заявку", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		err := env.handler.Respond(ctx, id, testStaff2ID, shiftapimodels.RequestRespondData{Accept: false})
		require.NoError(t, err)
		require.Equal(t, models.RequestStatusRejectedByTarget, env.store.recs[id].Status)
	})

	t.Run("ответ не тем сотрудником", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		err := env.handler.Respond(ctx, id, testManagerID, shiftapimodels.RequestRespondData{Accept: true})
		require.Equal(t, models.ErrKindNotEligible, models.GetErrorKind(err))
	})

	t.Run("повторный ответ по обработанной заявке", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		require.NoError(t, env.handler.Respond(ctx, id, testStaff2ID, shiftapimodels.RequestRespondData{Accept: true}))
		err := env.handler.Respond(ctx, id, testStaff2ID, shiftapimodels.RequestRespondData{Accept: false})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})
}

func TestDecision(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-48 * time.Hour)
	ctx := context.Background()

	t.Run("согласование отгула снимает назначение", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		require.NoError(t, err)
		require.NoError(t, env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{Notes: "ок"}))
		rec := env.store.recs[id]
		require.Equal(t, models.RequestStatusApproved, rec.Status)
		require.Equal(t, testManagerID, *rec.ReviewerID)
		require.Equal(t, []string{"a1"}, env.assignments.cancelled)
	})

	t.Run("сбой применения возвращает статус заявки", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		require.NoError(t, err)
		env.assignments.applyErr = models.NewStateConflictError("назначение уже изменено")
		err = env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
		rec := env.store.recs[id]
		require.Equal(t, models.RequestStatusPending, rec.Status)
		require.Nil(t, rec.ReviewerID)
	})

	t.Run("согласование обмена после согласия второй стороны", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addShift("s2", day.AddDate(0, 0, 1), "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		env.addAssignment("a2", "s2", testStaff2ID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:        models.RequestTypeTwoWaySwap,
			AssignmentID:       "a1",
			TargetAssignmentID: "a2",
			Reason:             "причина",
		})
		require.NoError(t, err)
		// решение до ответа второй стороны
		err = env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{})
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
		require.NoError(t, env.handler.Respond(ctx, id, testStaff2ID, shiftapimodels.RequestRespondData{Accept: true}))
		require.NoError(t, env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{}))
		require.Equal(t, [][2]string{{"a1", "a2"}}, env.assignments.swapped)
	})

	t.Run("сверхурочные в пределах лимита", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addShift("s-ot", day.AddDate(0, 0, 1), "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType: models.RequestTypeOvertime,
			ShiftID:     "s-ot",
			Reason:      "нужны часы",
		})
		require.NoError(t, err)
		require.NoError(t, env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{}))
		require.Equal(t, [][2]string{{"s-ot", testStaffID}}, env.assignments.overtime)
	})

	t.Run("сверхурочные сверх недельного лимита", func(t *testing.T) {
		env := newEnv(now)
		// пять смен по 10 часов на той же неделе
		for d := 0; d < 5; d++ {
			shiftID := fmt.Sprintf("s%v", d)
			env.addShift(shiftID, day.AddDate(0, 0, d), "08:00", "18:00", 10)
			env.addAssignment(fmt.Sprintf("a%v", d), shiftID, testStaffID, models.AssignmentStatusConfirmed)
		}
		env.addShift("s-ot", day.AddDate(0, 0, 5), "09:00", "17:00", 8)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType: models.RequestTypeOvertime,
			ShiftID:     "s-ot",
			Reason:      "нужны часы",
		})
		require.NoError(t, err)
		err = env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{})
		require.Equal(t, models.ErrKindCapacity, models.GetErrorKind(err))
		require.Equal(t, models.RequestStatusPending, env.store.recs[id].Status)
		require.Empty(t, env.assignments.overtime)
	})

	t.Run("отклонение менеджером", func(t *testing.T) {
		env := newEnv(now)
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		require.NoError(t, err)
		require.NoError(t, env.handler.Reject(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{Notes: "нет замены"}))
		rec := env.store.recs[id]
		require.Equal(t, models.RequestStatusRejected, rec.Status)
		require.Equal(t, "нет замены", rec.ReviewerNotes)
		require.Empty(t, env.assignments.cancelled)
	})
}

func TestCancel(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-48 * time.Hour)
	ctx := context.Background()

	prepare := func(env *testEnv) string {
		env.addShift("s1", day, "09:00", "17:00", 8)
		env.addAssignment("a1", "s1", testStaffID, models.AssignmentStatusConfirmed)
		id, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
			RequestType:  models.RequestTypeLeave,
			AssignmentID: "a1",
			Reason:       "причина",
		})
		if err != nil {
			panic(err)
		}
		return id
	}

	t.Run("отзыв автором идемпотентен", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		require.NoError(t, env.handler.Cancel(ctx, id, testStaffID))
		require.Equal(t, models.RequestStatusCancelled, env.store.recs[id].Status)
		require.NoError(t, env.handler.Cancel(ctx, id, testStaffID))
	})

	t.Run("отзыв не автором", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		err := env.handler.Cancel(ctx, id, testStaff2ID)
		require.Equal(t, models.ErrKindNotEligible, models.GetErrorKind(err))
	})

	t.Run("отзыв согласованной заявки", func(t *testing.T) {
		env := newEnv(now)
		id := prepare(env)
		require.NoError(t, env.handler.Approve(ctx, id, testManagerID, shiftapimodels.RequestDecisionData{}))
		err := env.handler.Cancel(ctx, id, testStaffID)
		require.Equal(t, models.ErrKindStateConflict, models.GetErrorKind(err))
	})
}

func TestLists(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-48 * time.Hour)

	env := newEnv(now)
	env.addShift("s1", day, "09:00", "17:00", 8)
	env.addShift("s2", day.AddDate(0, 0, 1), "09:00", "17:00", 8)
	env.addAssignment("a1", "s1", testStaff2ID, models.AssignmentStatusConfirmed)
	env.addAssignment("a2", "s2", testStaffID, models.AssignmentStatusConfirmed)
	_, err := env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
		RequestType:  models.RequestTypePickUp,
		AssignmentID: "a1",
		Reason:       "причина",
	})
	require.NoError(t, err)
	_, err = env.handler.Create(testStaffID, shiftapimodels.RequestCreateData{
		RequestType:  models.RequestTypeLeave,
		AssignmentID: "a2",
		Reason:       "причина",
	})
	require.NoError(t, err)

	own, err := env.handler.ListOwn(testStaffID)
	require.NoError(t, err)
	require.Len(t, own, 2)

	incoming, err := env.handler.ListIncoming(testStaff2ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	require.Equal(t, models.RequestTypePickUp, incoming[0].RequestType)

	review, err := env.handler.ListForReview()
	require.NoError(t, err)
	require.Len(t, review, 1)
	require.Equal(t, models.RequestTypeLeave, review[0].RequestType)
}
