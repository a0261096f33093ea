package models

// PushSettingCode код события для уведомлений
type PushSettingCode string

const (
	PushAssignmentCreated  PushSettingCode = "AssignmentCreated"
	PushAssignmentApproved PushSettingCode = "AssignmentApproved"
	PushAssignmentRejected PushSettingCode = "AssignmentRejected"
	PushRequestIncoming    PushSettingCode = "RequestIncoming"
	PushRequestTargetReply PushSettingCode = "RequestTargetReply"
	PushRequestApproved    PushSettingCode = "RequestApproved"
	PushRequestRejected    PushSettingCode = "RequestRejected"
	PushRequestCancelled   PushSettingCode = "RequestCancelled"
)

var pushHumanName = map[PushSettingCode]string{
	PushAssignmentCreated:  "Новое назначение на смену",
	PushAssignmentApproved: "Назначение подтверждено",
	PushAssignmentRejected: "Назначение отклонено",
	PushRequestIncoming:    "Новая заявка требует вашего ответа",
	PushRequestTargetReply: "Сотрудник ответил на заявку",
	PushRequestApproved:    "Заявка согласована",
	PushRequestRejected:    "Заявка отклонена",
	PushRequestCancelled:   "Заявка отозвана",
}

func (c PushSettingCode) ToHuman() string {
	if human, exist := pushHumanName[c]; exist {
		return human
	}
	return string(c)
}
