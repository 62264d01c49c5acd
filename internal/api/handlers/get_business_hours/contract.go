package get_business_hours

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/business_hours/models"
)

type BusinessHoursService interface {
	List(ctx context.Context, professionalID int64) (*models.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
