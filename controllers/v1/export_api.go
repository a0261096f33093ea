package apiv1

import (
	"context"
	"fmt"
	"shift-tools-backend/controllers"
	pdfexport "shift-tools-backend/lib/export/pdf"
	xlsexport "shift-tools-backend/lib/export/xls"
	filestorage "shift-tools-backend/lib/file-storage"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	shiftapimodels "shift-tools-backend/models/api/shift"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type exportApiController struct {
	controllers.BaseAPIController
}

func InitExportApiRouters(app *fiber.App) {
	controller := exportApiController{}
	app.Route("export", func(router fiber.Router) {
		router.Post("schedule/xlsx", middleware.ManagerRequired(), controller.scheduleXlsx)
		router.Post("timesheet/pdf", controller.timesheetPdf)
	})
}

type scheduleExportData struct {
	BranchID  string `json:"branch_id"`  // Филиал
	WeekStart string `json:"week_start"` // Понедельник недели (дд.мм.гггг)
}

func (d scheduleExportData) Validate() (time.Time, error) {
	if d.BranchID == "" {
		return time.Time{}, errors.New("не указан филиал")
	}
	weekStart, err := time.Parse(shiftapimodels.DateFormat, d.WeekStart)
	if err != nil {
		return time.Time{}, errors.New("некорректная дата начала недели")
	}
	return weekStart, nil
}

type timesheetExportData struct {
	StaffUserID string `json:"staff_user_id"` // Сотрудник, пусто — текущий пользователь
	DateFrom    string `json:"date_from"`     // Начало периода (дд.мм.гггг)
	DateTo      string `json:"date_to"`       // Конец периода (дд.мм.гггг)
}

func (d timesheetExportData) Validate() (from, to time.Time, err error) {
	from, err = time.Parse(shiftapimodels.DateFormat, d.DateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("некорректный формат периода")
	}
	to, err = time.Parse(shiftapimodels.DateFormat, d.DateTo)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("некорректный формат периода")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("дата окончания периода раньше даты начала")
	}
	return from, to, nil
}

// копия выгрузки сохраняется в архив s3, ошибка сохранения не блокирует ответ
func saveExportCopy(fileName string, body []byte, contentType string) {
	if filestorage.Instance == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := filestorage.Instance.SaveExport(ctx, fileName, body, contentType); err != nil {
			log.WithError(err).WithField("file_name", fileName).Error("ошибка сохранения копии выгрузки в архив")
		}
	}()
}

// @Summary График смен в Excel
// @Tags Выгрузка
// @Description График назначений филиала за неделю в xlsx (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 scheduleExportData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/export/schedule/xlsx [post]
func (c *exportApiController) scheduleXlsx(ctx *fiber.Ctx) error {
	var payload scheduleExportData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	weekStart, err := payload.Validate()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := xlsexport.Instance.ExportWeekSchedule(payload.BranchID, weekStart)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки графика смен в Excel")
	}
	fileName := fmt.Sprintf("schedule-%v.xlsx", weekStart.Format("20060102"))
	saveExportCopy(fileName, data.Bytes(), "application/vnd.ms-excel")
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Табель в PDF
// @Tags Выгрузка
// @Description Табель отработанных часов сотрудника за период в pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timesheetExportData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/export/timesheet/pdf [post]
func (c *exportApiController) timesheetPdf(ctx *fiber.Ctx) error {
	var payload timesheetExportData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	dateFrom, dateTo, err := payload.Validate()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	staffUserID := payload.StaffUserID
	if staffUserID == "" {
		staffUserID = middleware.GetUserID(ctx)
	}
	// чужой табель доступен только менеджеру
	if staffUserID != middleware.GetUserID(ctx) && !middleware.IsManager(ctx) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("табель другого сотрудника доступен только менеджеру"))
	}
	data, err := pdfexport.Instance.GenerateTimesheet(staffUserID, dateFrom, dateTo)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки табеля в PDF")
	}
	fileName := fmt.Sprintf("timesheet-%v-%v.pdf", staffUserID, dateTo.Format("20060102"))
	saveExportCopy(fileName, data, "application/pdf")
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Send(data)
}
