package timewindow

import (
	"fmt"
	"shift-tools-backend/lib/utils/helpers"
	"shift-tools-backend/models"
	"time"
)

// Пакет без состояния и побочных эффектов: все проверки считаются от переданного "сейчас",
// которое берется один раз на операцию.

// Clock источник текущего времени, подменяется в тестах
type Clock func() time.Time

const (
	// CheckInOpensBefore за сколько до начала смены открывается отметка прихода
	CheckInOpensBefore = 15 * time.Minute
	// CheckInClosesBefore за сколько до конца смены закрывается отметка прихода
	CheckInClosesBefore = 10 * time.Minute
	// CheckOutOpensBefore за сколько до конца смены открывается отметка ухода
	CheckOutOpensBefore = 5 * time.Minute
	// LeaveNotice минимальный срок подачи заявки на отгул до начала смены
	LeaveNotice = 12 * time.Hour
)

const clockFormat = "15:04"
const boundaryFormat = "02.01.2006 15:04:05"

// ShiftBounds начало и конец смены по дате и времени суток.
// Время окончания меньше времени начала — смена через полночь, конец переносится на следующий день.
func ShiftBounds(date time.Time, startTime, endTime string) (start, end time.Time, err error) {
	startClock, err := time.Parse(clockFormat, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, models.NewValidationError("некорректное время начала смены")
	}
	endClock, err := time.Parse(clockFormat, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, models.NewValidationError("некорректное время окончания смены")
	}
	day := helpers.DateOnly(date)
	start = day.Add(time.Duration(startClock.Hour())*time.Hour + time.Duration(startClock.Minute())*time.Minute)
	end = day.Add(time.Duration(endClock.Hour())*time.Hour + time.Duration(endClock.Minute())*time.Minute)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// CheckInAllowed отметка прихода разрешена в окне [начало-15м, конец-10м]
// и только если календарная дата смены уже наступила
// (для смен через полночь 24-часовое окно не должно открывать будущую смену)
func CheckInAllowed(now, shiftDate time.Time, shiftStart, shiftEnd time.Time) error {
	if helpers.DateOnly(shiftDate).After(helpers.DateOnly(now)) {
		return models.NewWindowViolationError("отметка прихода недоступна: смена назначена на будущую дату")
	}
	opensAt := shiftStart.Add(-CheckInOpensBefore)
	closesAt := shiftEnd.Add(-CheckInClosesBefore)
	if now.Before(opensAt) {
		return models.NewWindowViolationError(
			fmt.Sprintf("отметка прихода откроется в %v", opensAt.Format(boundaryFormat)))
	}
	if now.After(closesAt) {
		return models.NewWindowViolationError(
			fmt.Sprintf("отметка прихода закрылась в %v", closesAt.Format(boundaryFormat)))
	}
	return nil
}

// CheckOutAllowed отметка ухода разрешена с (конец-5м), верхней границы нет:
// поздняя отметка допустима
func CheckOutAllowed(now, shiftEnd time.Time) error {
	opensAt := shiftEnd.Add(-CheckOutOpensBefore)
	if now.Before(opensAt) {
		return models.NewWindowViolationError(
			fmt.Sprintf("отметка ухода откроется в %v", opensAt.Format(boundaryFormat)))
	}
	return nil
}

// LeaveAllowed заявка на отгул подается не позже чем за 12 часов до начала смены
func LeaveAllowed(now, shiftStart time.Time) error {
	deadline := shiftStart.Add(-LeaveNotice)
	if now.After(deadline) {
		return models.NewWindowViolationError(
			fmt.Sprintf("заявка на отгул принималась до %v", deadline.Format(boundaryFormat)))
	}
	return nil
}

// Overlaps интервалы двух смен пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// WorkedHours фактические часы между приходом и уходом, с округлением до сотых
func WorkedHours(checkedInAt, checkedOutAt time.Time) float64 {
	if checkedOutAt.Before(checkedInAt) {
		return 0
	}
	hours := checkedOutAt.Sub(checkedInAt).Hours()
	return float64(int(hours*100+0.5)) / 100
}
