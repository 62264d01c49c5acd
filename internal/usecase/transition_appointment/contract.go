package transition_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	// GetByIDForUpdate читает запись с блокировкой строки
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error)
	// UpdateState сохраняет состояние и расписание, если версия в БД равна expectedVersion;
	// иначе domain.ErrConcurrentConflict
	UpdateState(ctx context.Context, appointment *domain.Appointment, expectedVersion int64) (*domain.Appointment, error)
}

// StateHistoryRepository журнал переходов
type StateHistoryRepository interface {
	Append(ctx context.Context, transition *domain.StateTransition) (*domain.StateTransition, error)
}

// ProfessionalRepository блокировка специалиста на время переноса
type ProfessionalRepository interface {
	LockForUpdate(ctx context.Context, id int64) error
}

// AppointmentValidator проверка нового времени при переносе
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
