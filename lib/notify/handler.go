package notifyhandler

import (
	"shift-tools-backend/db"
	pushdatastore "shift-tools-backend/lib/notify/data-store"
	"shift-tools-backend/lib/smtp"
	staffstore "shift-tools-backend/lib/staff/store"
	connectionhub "shift-tools-backend/lib/ws/hub/connection-hub"
	"shift-tools-backend/models"
	dbmodels "shift-tools-backend/models/db"
	wsmodels "shift-tools-backend/models/ws"
	"time"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Send уведомление сотруднику по всем включенным каналам.
	// Ошибки доставки не возвращаются, только логируются
	Send(staffUserID string, code models.PushSettingCode, msg string)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		staffStore: staffstore.NewInstance(db.DB),
		pushStore:  pushdatastore.NewInstance(db.DB),
	}
}

type impl struct {
	staffStore staffstore.Provider
	pushStore  pushdatastore.Provider
}

func (i impl) Send(staffUserID string, code models.PushSettingCode, msg string) {
	logger := log.
		WithField("staff_user_id", staffUserID).
		WithField("push_code", string(code))
	staff, err := i.staffStore.GetByID(staffUserID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения получателя уведомления")
		return
	}
	if staff == nil {
		logger.Warn("получатель уведомления не найден")
		return
	}
	if staff.PushEnabled {
		i.sendPush(staffUserID, code, msg, logger)
	}
	if staff.EmailEnabled && staff.Email != "" {
		go i.sendEmail(staff.Email, code, msg, logger)
	}
}

func (i impl) sendPush(staffUserID string, code models.PushSettingCode, msg string, logger *log.Entry) {
	if connectionhub.Instance != nil && connectionhub.Instance.IsConnected(staffUserID) {
		wsMsg := wsmodels.ServerMessage{
			ToUserID: staffUserID,
			Time:     time.Now().Format("02.01.2006 15:04:05"),
			Code:     string(code),
			Msg:      msg,
		}
		connectionhub.Instance.SendMessage(wsMsg)
		return
	}
	// сотрудник оффлайн, событие доедет при следующем подключении
	rec := dbmodels.PushData{
		StaffUserID: staffUserID,
		Code:        code,
		Msg:         msg,
	}
	if err := i.pushStore.Create(rec); err != nil {
		logger.WithError(err).Error("ошибка сохранения отложенного уведомления")
	}
}

func (i impl) sendEmail(email string, code models.PushSettingCode, msg string, logger *log.Entry) {
	if smtp.Instance == nil {
		return
	}
	subject := code.ToHuman()
	err := smtp.Instance.SendEMail(email, subject, msg)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления на почту")
	}
}
