package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID       int64
	ServiceID      int64
	ProfessionalID int64
	Date           time.Time        // Дата без времени
	StartTime      types.TimeString // Время начала, конец считается по длительности услуги
	Notes          *string

	Actor  int64 // кто создает запись
	Reason *string
}

// Response созданная запись и первая запись журнала
type Response struct {
	Appointment *domain.Appointment
	Transition  *domain.StateTransition
}
