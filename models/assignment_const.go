package models

type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "PENDING"
	AssignmentStatusConfirmed  AssignmentStatus = "CONFIRMED"
	AssignmentStatusCheckedIn  AssignmentStatus = "CHECKED_IN"
	AssignmentStatusCheckedOut AssignmentStatus = "CHECKED_OUT"
	AssignmentStatusCancelled  AssignmentStatus = "CANCELLED"
)

var assignmentStatusHumanName = map[AssignmentStatus]string{
	AssignmentStatusPending:    "Ожидает подтверждения",
	AssignmentStatusConfirmed:  "Подтверждена",
	AssignmentStatusCheckedIn:  "На смене",
	AssignmentStatusCheckedOut: "Смена завершена",
	AssignmentStatusCancelled:  "Отменена",
}

func (s AssignmentStatus) ToHuman() string {
	if human, exist := assignmentStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsActive назначение занимает слот сотрудника (учитывается при проверке пересечений)
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentStatusPending || s == AssignmentStatusConfirmed || s == AssignmentStatusCheckedIn
}

func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusCancelled || s == AssignmentStatusCheckedOut
}

var assignmentStatusTransition = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusPending:   {AssignmentStatusConfirmed, AssignmentStatusCheckedIn, AssignmentStatusCancelled},
	AssignmentStatusConfirmed: {AssignmentStatusCheckedIn, AssignmentStatusCancelled},
	AssignmentStatusCheckedIn: {AssignmentStatusCheckedOut},
}

func (s AssignmentStatus) IsAllowChange(newStatus AssignmentStatus) bool {
	for _, allowed := range assignmentStatusTransition[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

type AssignmentType string

const (
	AssignmentTypeSelfRegistered AssignmentType = "SELF_REGISTERED"
	AssignmentTypeManual         AssignmentType = "MANUAL"
)

var assignmentTypeHumanName = map[AssignmentType]string{
	AssignmentTypeSelfRegistered: "Самостоятельная запись",
	AssignmentTypeManual:         "Назначение менеджером",
}

func (t AssignmentType) ToHuman() string {
	if human, exist := assignmentTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

// RejectionMarker префикс в примечании отмененного назначения,
// по которому отклонение менеджером отличается от обычной отмены
const RejectionMarker = "[ОТКЛОНЕНО]"
