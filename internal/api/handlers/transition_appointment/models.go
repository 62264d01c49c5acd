package transition_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	transitionAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	State   string  `json:"state"` // "Confirmed", "Rescheduled", ...
	Reason  *string `json:"reason,omitempty"`
	NewDate *string `json:"newDate,omitempty"` // только для Rescheduled
	NewTime *string `json:"newTime,omitempty"` // только для Rescheduled
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	Appointment *appointmentModels.AppointmentResponse `json:"appointment"`
	Transition  *appointmentModels.TransitionResponse  `json:"transition"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionRequest) ToUseCaseRequest(appointmentID, actor int64) (*transitionAppointment.Request, error) {
	state, err := domain.ParseState(r.State)
	if err != nil {
		return nil, err
	}

	req := &transitionAppointment.Request{
		AppointmentID: appointmentID,
		NewState:      state,
		Actor:         actor,
		Reason:        r.Reason,
	}

	if r.NewDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.NewDate)
		if err != nil {
			return nil, fmt.Errorf("newDate: %w", err)
		}
		req.NewDate = &date
	}
	if r.NewTime != nil {
		start, err := types.NewTimeStringFromString(*r.NewTime)
		if err != nil {
			return nil, fmt.Errorf("newTime: %w", err)
		}
		req.NewTime = &start
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionAppointment.Response) *TransitionResponse {
	return &TransitionResponse{
		Appointment: appointmentModels.FromDomainAppointment(resp.Appointment),
		Transition:  appointmentModels.FromDomainTransition(resp.Transition),
	}
}
