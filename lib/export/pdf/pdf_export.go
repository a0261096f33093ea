package pdfexport

import (
	"bytes"
	"fmt"
	"shift-tools-backend/db"
	assignmentstore "shift-tools-backend/lib/assignment/store"
	staffstore "shift-tools-backend/lib/staff/store"
	"shift-tools-backend/models"
	shiftapimodels "shift-tools-backend/models/api/shift"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type Provider interface {
	// GenerateTimesheet табель отработанных часов сотрудника за период
	GenerateTimesheet(staffUserID string, dateFrom, dateTo time.Time) (pdfFile []byte, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		assignmentStore: assignmentstore.NewInstance(db.DB),
		staffStore:      staffstore.NewInstance(db.DB),
	}
}

type impl struct {
	assignmentStore assignmentstore.Provider
	staffStore      staffstore.Provider
}

func (i impl) GenerateTimesheet(staffUserID string, dateFrom, dateTo time.Time) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateTimesheet panic recover: %v", r)
		}
	}()
	staff, err := i.staffStore.GetByID(staffUserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника")
	}
	if staff == nil {
		return nil, models.NewNotFoundError("сотрудник не найден")
	}
	list, err := i.assignmentStore.ListCheckedOutByStaff(staffUserID, dateFrom, dateTo)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения завершенных смен")
	}

	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 14)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.CellFormat(0, 10, "Табель отработанных часов", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Сотрудник: %v", staff.GetFullName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Период: %v - %v",
		dateFrom.Format(shiftapimodels.DateFormat), dateTo.Format(shiftapimodels.DateFormat)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{30, 35, 50, 35, 30}
	headers := []string{"Дата", "Смена", "Филиал", "Приход/Уход", "Часы"}
	pdf.SetFont("Arial", "B", 10)
	for idx, header := range headers {
		pdf.CellFormat(colWidths[idx], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	total := float64(0)
	for _, item := range list {
		if item.Shift == nil {
			continue
		}
		branchName := ""
		if item.Shift.Branch != nil {
			branchName = item.Shift.Branch.Name
		}
		marks := ""
		if item.CheckedInAt != nil && item.CheckedOutAt != nil {
			marks = fmt.Sprintf("%v / %v", item.CheckedInAt.Format("15:04"), item.CheckedOutAt.Format("15:04"))
		}
		pdf.CellFormat(colWidths[0], 7, item.Shift.Date.Format(shiftapimodels.DateFormat), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%v-%v", item.Shift.StartTime, item.Shift.EndTime), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, branchName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, marks, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, fmt.Sprintf("%.2f", item.ActualHours), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += item.ActualHours
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3], 8, "Итого", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
