package transition_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на смену состояния записи
type Request struct {
	AppointmentID int64
	NewState      domain.State
	Actor         int64
	Reason        *string

	// Только для Rescheduled; незаданное поле берется из текущей записи
	NewDate *time.Time
	NewTime *types.TimeString
}

// Response запись после перехода и добавленная запись журнала
type Response struct {
	Appointment *domain.Appointment
	Transition  *domain.StateTransition
}
