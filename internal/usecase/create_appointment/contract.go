package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// StateHistoryRepository журнал переходов
type StateHistoryRepository interface {
	Append(ctx context.Context, transition *domain.StateTransition) (*domain.StateTransition, error)
}

// ProfessionalRepository интерфейс репозитория специалистов
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	// LockForUpdate берет блокировку строки специалиста до конца транзакции
	LockForUpdate(ctx context.Context, id int64) error
}

// ServiceCatalog услуги вместе с этапами
type ServiceCatalog interface {
	GetServiceWithStages(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// AppointmentValidator проверка записи; отказ возвращается как *domain.RejectionError
type AppointmentValidator interface {
	Validate(ctx context.Context, req *validateAppointment.Request) (*domain.BusinessHourRule, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учет переходов
type MetricsRecorder interface {
	ObserveTransition(state string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
