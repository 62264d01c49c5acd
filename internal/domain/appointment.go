package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Appointment запись клиента к специалисту
type Appointment struct {
	ID             int64
	ClientID       int64
	ServiceID      int64
	ProfessionalID int64
	RoomID         *int64 // кабинет правила рабочего времени, в которое попала запись

	Date      time.Time // дата без времени
	StartTime types.TimeString
	EndTime   types.TimeString

	CurrentState State
	IsCompleted  bool
	IsAbsent     bool

	Notes *string

	// Version растет на каждом переходе, используется для оптимистичной проверки
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval интервал записи в минутах от полуночи
func (a *Appointment) Interval() types.Interval {
	return types.Interval{Start: a.StartTime.Minutes(), End: a.EndTime.Minutes()}
}

func (a *Appointment) DurationMinutes() int {
	return a.Interval().Duration()
}

// OccupiesTime false для отмененных записей: они не занимают время специалиста
func (a *Appointment) OccupiesTime() bool {
	return a.CurrentState != StateCancelled
}

// StateTransition неизменяемая запись журнала переходов
type StateTransition struct {
	ID            int64
	AppointmentID int64
	State         State
	ChangedBy     int64
	Reason        *string

	PreviousDate time.Time
	PreviousTime types.TimeString
	CurrentDate  time.Time
	CurrentTime  types.TimeString

	CreatedAt time.Time
}

