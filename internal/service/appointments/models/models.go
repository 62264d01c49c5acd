package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentResponse запись в ответе API
type AppointmentResponse struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"clientId"`
	ServiceID      int64     `json:"serviceId"`
	ProfessionalID int64     `json:"professionalId"`
	RoomID         *int64    `json:"roomId,omitempty"`
	Date           string    `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	State          string    `json:"state"`
	StateID        int64     `json:"stateId"`
	IsCompleted    bool      `json:"isCompleted"`
	IsAbsent       bool      `json:"isAbsent"`
	Notes          *string   `json:"notes,omitempty"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TransitionResponse строка журнала переходов
type TransitionResponse struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointmentId"`
	State         string    `json:"state"`
	ChangedBy     int64     `json:"changedBy"`
	Reason        *string   `json:"reason,omitempty"`
	PreviousDate  string    `json:"previousDate"`
	PreviousTime  string    `json:"previousTime"`
	CurrentDate   string    `json:"currentDate"`
	CurrentTime   string    `json:"currentTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HistoryResponse журнал переходов записи, от старых к новым
type HistoryResponse struct {
	AppointmentID int64                `json:"appointmentId"`
	Transitions   []TransitionResponse `json:"transitions"`
}

// AgendaResponse записи специалиста на дату
type AgendaResponse struct {
	ProfessionalID int64                 `json:"professionalId"`
	Date           string                `json:"date"`
	Appointments   []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:             a.ID,
		ClientID:       a.ClientID,
		ServiceID:      a.ServiceID,
		ProfessionalID: a.ProfessionalID,
		RoomID:         a.RoomID,
		Date:           a.Date.Format(domain.DateFormat),
		StartTime:      a.StartTime.String(),
		EndTime:        a.EndTime.String(),
		State:          a.CurrentState.String(),
		StateID:        int64(a.CurrentState),
		IsCompleted:    a.IsCompleted,
		IsAbsent:       a.IsAbsent,
		Notes:          a.Notes,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список записей
func FromDomainAppointmentList(list []*domain.Appointment) []AppointmentResponse {
	result := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		if a == nil {
			continue
		}
		result = append(result, *FromDomainAppointment(a))
	}
	return result
}

// FromDomainTransition конвертирует строку журнала
func FromDomainTransition(t *domain.StateTransition) *TransitionResponse {
	if t == nil {
		return nil
	}

	return &TransitionResponse{
		ID:            t.ID,
		AppointmentID: t.AppointmentID,
		State:         t.State.String(),
		ChangedBy:     t.ChangedBy,
		Reason:        t.Reason,
		PreviousDate:  t.PreviousDate.Format(domain.DateFormat),
		PreviousTime:  t.PreviousTime.String(),
		CurrentDate:   t.CurrentDate.Format(domain.DateFormat),
		CurrentTime:   t.CurrentTime.String(),
		CreatedAt:     t.CreatedAt,
	}
}

// FromDomainHistory собирает журнал в ответ
func FromDomainHistory(appointmentID int64, list []*domain.StateTransition) *HistoryResponse {
	transitions := make([]TransitionResponse, 0, len(list))
	for _, t := range list {
		if t == nil {
			continue
		}
		transitions = append(transitions, *FromDomainTransition(t))
	}

	return &HistoryResponse{
		AppointmentID: appointmentID,
		Transitions:   transitions,
	}
}
