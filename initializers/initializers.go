package initializers

import (
	"context"
	"shift-tools-backend/config"
	"shift-tools-backend/fiberlog"
	assignmenthandler "shift-tools-backend/lib/assignment"
	candidateshandler "shift-tools-backend/lib/candidates"
	closurehandler "shift-tools-backend/lib/closure"
	branchhandler "shift-tools-backend/lib/dicts/branch"
	pdfexport "shift-tools-backend/lib/export/pdf"
	xlsexport "shift-tools-backend/lib/export/xls"
	notifyhandler "shift-tools-backend/lib/notify"
	shifthandler "shift-tools-backend/lib/shift"
	shiftrequesthandler "shift-tools-backend/lib/shift-request"
	staffhandler "shift-tools-backend/lib/staff"
	authhandler "shift-tools-backend/lib/staff/auth"
	connectionhub "shift-tools-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	notifyhandler.NewHandler()
	branchhandler.NewHandler()
	staffhandler.NewHandler()
	authhandler.NewHandler()
	shifthandler.NewHandler()
	closurehandler.NewHandler()
	// заявки применяются через обработчик назначений, порядок важен
	assignmenthandler.NewHandler()
	shiftrequesthandler.NewHandler()
	candidateshandler.NewHandler()
	xlsexport.NewHandler()
	pdfexport.NewHandler()
}
