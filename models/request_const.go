package models

type RequestType string

const (
	RequestTypePickUp     RequestType = "PICK_UP"
	RequestTypeSwap       RequestType = "SWAP"
	RequestTypeTwoWaySwap RequestType = "TWO_WAY_SWAP"
	RequestTypeLeave      RequestType = "LEAVE"
	RequestTypeOvertime   RequestType = "OVERTIME"
)

var requestTypeHumanName = map[RequestType]string{
	RequestTypePickUp:     "Взять смену",
	RequestTypeSwap:       "Передать смену",
	RequestTypeTwoWaySwap: "Обмен сменами",
	RequestTypeLeave:      "Отгул",
	RequestTypeOvertime:   "Сверхурочная смена",
}

func (t RequestType) ToHuman() string {
	if human, exist := requestTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

// HasTargetStage заявка требует согласия второго сотрудника до решения менеджера
func (t RequestType) HasTargetStage() bool {
	switch t {
	case RequestTypePickUp, RequestTypeSwap, RequestTypeTwoWaySwap:
		return true
	}
	return false
}

// InitialStatus статус заявки сразу после создания
func (t RequestType) InitialStatus() RequestStatus {
	if t.HasTargetStage() {
		return RequestStatusPendingTarget
	}
	return RequestStatusPending
}

type RequestStatus string

const (
	RequestStatusPending          RequestStatus = "PENDING"
	RequestStatusPendingTarget    RequestStatus = "PENDING_TARGET_APPROVAL"
	RequestStatusPendingManager   RequestStatus = "PENDING_MANAGER_APPROVAL"
	RequestStatusApproved         RequestStatus = "APPROVED"
	RequestStatusRejected         RequestStatus = "REJECTED"
	RequestStatusRejectedByTarget RequestStatus = "REJECTED_BY_TARGET"
	RequestStatusCancelled        RequestStatus = "CANCELLED"
)

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusPending:          "На рассмотрении",
	RequestStatusPendingTarget:    "Ожидает ответа сотрудника",
	RequestStatusPendingManager:   "Ожидает решения менеджера",
	RequestStatusApproved:         "Согласована",
	RequestStatusRejected:         "Отклонена менеджером",
	RequestStatusRejectedByTarget: "Отклонена сотрудником",
	RequestStatusCancelled:        "Отозвана",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusApproved, RequestStatusRejected, RequestStatusRejectedByTarget, RequestStatusCancelled:
		return true
	}
	return false
}

// IsActive заявка блокирует создание новой заявки по тому же назначению
func (s RequestStatus) IsActive() bool {
	switch s {
	case RequestStatusPending, RequestStatusPendingTarget, RequestStatusPendingManager, RequestStatusApproved:
		return true
	}
	return false
}

var requestStatusTransition = map[RequestStatus][]RequestStatus{
	RequestStatusPending:        {RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusPendingTarget:  {RequestStatusPendingManager, RequestStatusRejectedByTarget, RequestStatusCancelled},
	RequestStatusPendingManager: {RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled},
}

func (s RequestStatus) IsAllowChange(newStatus RequestStatus) bool {
	for _, allowed := range requestStatusTransition[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

const (
	// WeekBaseHoursLimit недельный лимит базовых часов
	WeekBaseHoursLimit = 40.0
	// WeekOvertimeHoursLimit недельный лимит сверхурочных часов
	WeekOvertimeHoursLimit = 12.0
	// WeekTotalHoursLimit суммарный недельный лимит (база + сверхурочные)
	WeekTotalHoursLimit = WeekBaseHoursLimit + WeekOvertimeHoursLimit
)
