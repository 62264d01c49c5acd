package business_hours

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RuleRepository интерфейс репозитория правил рабочего времени
type RuleRepository interface {
	ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.BusinessHourRule, error)
	GetByID(ctx context.Context, id int64) (*domain.BusinessHourRule, error)
	Create(ctx context.Context, rule *domain.BusinessHourRule) (*domain.BusinessHourRule, error)
	Update(ctx context.Context, rule *domain.BusinessHourRule) (*domain.BusinessHourRule, error)
	Delete(ctx context.Context, id int64) error
}

// ProfessionalRepository интерфейс репозитория специалистов
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	LockForUpdate(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
