package delete_business_hour

import "context"

type BusinessHoursService interface {
	Delete(ctx context.Context, ruleID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
