package update_business_hour

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/business_hours/models"
)

type BusinessHoursService interface {
	Update(ctx context.Context, ruleID int64, req *models.RuleRequest) (*models.RuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
