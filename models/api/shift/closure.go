package shiftapimodels

import (
	dbmodels "shift-tools-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type ClosureData struct {
	BranchID string `json:"branch_id"` // Филиал, пусто — все филиалы
	DateFrom string `json:"date_from"` // Начало периода (дд.мм.гггг)
	DateTo   string `json:"date_to"`   // Конец периода (дд.мм.гггг)
	Reason   string `json:"reason"`    // Причина закрытия
}

func (c ClosureData) Validate() error {
	from, to, err := c.GetPeriod()
	if err != nil {
		return errors.New("некорректный формат периода закрытия")
	}
	if to.Before(from) {
		return errors.New("дата окончания закрытия раньше даты начала")
	}
	return nil
}

func (c ClosureData) GetPeriod() (from, to time.Time, err error) {
	from, err = time.Parse(DateFormat, c.DateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err = time.Parse(DateFormat, c.DateTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

type ClosureView struct {
	ClosureData
	ID         string `json:"id"`
	BranchName string `json:"branch_name,omitempty"`
}

func ClosureConvert(rec dbmodels.BranchClosure) ClosureView {
	result := ClosureView{
		ClosureData: ClosureData{
			DateFrom: rec.DateFrom.Format(DateFormat),
			DateTo:   rec.DateTo.Format(DateFormat),
			Reason:   rec.Reason,
		},
		ID: rec.ID,
	}
	if rec.BranchID != nil {
		result.BranchID = *rec.BranchID
	}
	if rec.Branch != nil {
		result.BranchName = rec.Branch.Name
	}
	return result
}
