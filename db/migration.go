package db

import (
	dbmodels "shift-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Branch{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Branch")
	}
	if err := DB.AutoMigrate(&dbmodels.StaffUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StaffUser")
	}
	if err := DB.AutoMigrate(&dbmodels.Shift{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Shift")
	}
	if err := DB.AutoMigrate(&dbmodels.ShiftAssignment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ShiftAssignment")
	}
	if err := DB.AutoMigrate(&dbmodels.ShiftRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ShiftRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.BranchClosure{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры BranchClosure")
	}
	if err := DB.AutoMigrate(&dbmodels.PushData{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PushData")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
