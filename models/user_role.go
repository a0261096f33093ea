package models

type UserRole string

const (
	BranchManagerRole UserRole = "BRANCH_MANAGER_ROLE"
	StaffRole         UserRole = "STAFF_ROLE"
)

var roleHumanName = map[UserRole]string{
	BranchManagerRole: "Менеджер филиала",
	StaffRole:         "Сотрудник",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsManager() bool {
	return r == BranchManagerRole
}

const SystemUser = "Система"

type UserStatus string

const (
	UserWorkingStatus   UserStatus = "WORKING"
	UserDismissedStatus UserStatus = "DISMISSED"
)

var userStatusHumanName = map[UserStatus]string{
	UserWorkingStatus:   "Работает",
	UserDismissedStatus: "Уволен",
}

func (s UserStatus) ToHuman() string {
	if human, exist := userStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentIntern   EmploymentType = "INTERN"
)

var employmentHumanName = map[EmploymentType]string{
	EmploymentFullTime: "Полная занятость",
	EmploymentPartTime: "Частичная занятость",
	EmploymentIntern:   "Стажер",
}

func (e EmploymentType) ToHuman() string {
	if human, exist := employmentHumanName[e]; exist {
		return human
	}
	return string(e)
}

// IsFlexible — полная занятость может подменять сотрудников с любым типом занятости,
// остальные только свой тип или сотрудников без указанного типа
func (e EmploymentType) IsFlexible() bool {
	return e == EmploymentFullTime
}

// CanCoverFor проверка совместимости типов занятости при подмене/передаче смены
func (e EmploymentType) CanCoverFor(other EmploymentType) bool {
	if e.IsFlexible() {
		return true
	}
	return other == "" || other == e
}
