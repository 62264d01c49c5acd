package validate_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BusinessHoursRepository интерфейс репозитория правил рабочего времени
type BusinessHoursRepository interface {
	ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.BusinessHourRule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error)
}

// BlockedTimeRepository интерфейс репозитория блокировок компании
type BlockedTimeRepository interface {
	// ListForCompany возвращает блокировки, пересекающие [from, to)
	ListForCompany(ctx context.Context, companyID int64, from, to time.Time) ([]*domain.CompanyBlockedTime, error)
}

// ProfessionalRepository интерфейс репозитория специалистов
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	GetCompany(ctx context.Context, companyID int64) (*domain.Company, error)
}

// TimezoneResolver часовой пояс компании
type TimezoneResolver interface {
	Location(tz string) *time.Location
}

// MetricsRecorder учет отказов по причинам
type MetricsRecorder interface {
	ObserveValidationRejection(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
