package xlsexport

import (
	"bytes"
	"fmt"
	"shift-tools-backend/db"
	assignmentstore "shift-tools-backend/lib/assignment/store"
	"shift-tools-backend/lib/utils/helpers"
	shiftapimodels "shift-tools-backend/models/api/shift"
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportWeekSchedule график активных назначений филиала за неделю
	ExportWeekSchedule(branchID string, weekStart time.Time) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		assignmentStore: assignmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	assignmentStore assignmentstore.Provider
}

var scheduleHeaders = []string{"Дата", "Время", "Сотрудник", "Статус", "Тип записи", "Привлеченный", "Сверхурочно", "Примечание"}

func (i impl) ExportWeekSchedule(branchID string, weekStart time.Time) (*bytes.Buffer, error) {
	weekStart = helpers.WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)
	list, err := i.assignmentStore.ListActiveByBranchPeriod(branchID, weekStart, weekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения назначений недели")
	}
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err = writeHeader(f, sheet, row, scheduleHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeScheduleData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, fmt.Sprintf("График %v", weekStart.Format(shiftapimodels.DateFormat)))
	return f.WriteToBuffer()
}

func writeScheduleData(f *excelize.File, sheet string, list []dbmodels.ShiftAssignment, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(scheduleHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		if item.Shift == nil {
			continue
		}
		row++
		// "Дата"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Shift.Date.Format(shiftapimodels.DateFormat)); err != nil {
			return row, err
		}

		// "Время"
		col++
		if err := writeColumn(f, sheet, col, row, fmt.Sprintf("%v-%v", item.Shift.StartTime, item.Shift.EndTime)); err != nil {
			return row, err
		}

		// "Сотрудник"
		col++
		if item.StaffUser != nil {
			if err := writeColumn(f, sheet, col, row, item.StaffUser.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		// "Тип записи"
		col++
		if err := writeColumn(f, sheet, col, row, item.AssignmentType.ToHuman()); err != nil {
			return row, err
		}

		// "Привлеченный"
		col++
		if err := writeColumn(f, sheet, col, row, boolMark(item.IsBorrowed)); err != nil {
			return row, err
		}

		// "Сверхурочно"
		col++
		if err := writeColumn(f, sheet, col, row, boolMark(item.IsOvertime)); err != nil {
			return row, err
		}

		// "Примечание"
		col++
		if err := writeColumn(f, sheet, col, row, item.Notes); err != nil {
			return row, err
		}
	}
	return row, nil
}

func boolMark(value bool) string {
	if value {
		return "Да"
	}
	return ""
}
