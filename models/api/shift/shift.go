package shiftapimodels

import (
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

const DateFormat = "02.01.2006"
const clockFormat = "15:04"

type ShiftData struct {
	BranchID      string  `json:"branch_id"`      // Филиал
	Date          string  `json:"date"`           // Дата смены (дд.мм.гггг)
	StartTime     string  `json:"start_time"`     // Начало (чч:мм)
	EndTime       string  `json:"end_time"`       // Окончание (чч:мм), меньше начала — смена через полночь
	DurationHours float64 `json:"duration_hours"` // Длительность в часах
	Notes         string  `json:"notes"`          // Примечание
}

func (s ShiftData) Validate() error {
	if s.BranchID == "" {
		return errors.New("не указан филиал")
	}
	if _, err := s.GetDate(); err != nil {
		return errors.New("некорректный формат даты смены")
	}
	if _, err := time.Parse(clockFormat, s.StartTime); err != nil {
		return errors.New("некорректное время начала смены")
	}
	if _, err := time.Parse(clockFormat, s.EndTime); err != nil {
		return errors.New("некорректное время окончания смены")
	}
	if s.DurationHours <= 0 || s.DurationHours > 24 {
		return errors.New("некорректная длительность смены")
	}
	return nil
}

func (s ShiftData) GetDate() (time.Time, error) {
	return time.Parse(DateFormat, s.Date)
}

type ShiftView struct {
	ShiftData
	ID         string `json:"id"`
	BranchName string `json:"branch_name,omitempty"`
}

type ShiftFilter struct {
	BranchID string `json:"branch_id"` // Филиал
	DateFrom string `json:"date_from"` // Начало периода (дд.мм.гггг)
	DateTo   string `json:"date_to"`   // Конец периода (дд.мм.гггг)
}

func (f ShiftFilter) Validate() error {
	if f.BranchID == "" {
		return errors.New("не указан филиал")
	}
	if _, _, err := f.GetPeriod(); err != nil {
		return errors.New("некорректный формат периода")
	}
	return nil
}

func (f ShiftFilter) GetPeriod() (from, to time.Time, err error) {
	if f.DateFrom != "" {
		from, err = time.Parse(DateFormat, f.DateFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if f.DateTo != "" {
		to, err = time.Parse(DateFormat, f.DateTo)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

func ShiftConvert(rec dbmodels.Shift) ShiftView {
	result := ShiftView{
		ShiftData: ShiftData{
			BranchID:      rec.BranchID,
			Date:          rec.Date.Format(DateFormat),
			StartTime:     rec.StartTime,
			EndTime:       rec.EndTime,
			DurationHours: rec.DurationHours,
			Notes:         rec.Notes,
		},
		ID: rec.ID,
	}
	if rec.Branch != nil {
		result.BranchName = rec.Branch.Name
	}
	return result
}
