package validate_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ValidateRequest HTTP request model
type ValidateRequest struct {
	ProfessionalID       int64  `json:"professionalId"`
	Date                 string `json:"date"`      // "2024-03-04"
	StartTime            string `json:"startTime"` // "10:00"
	EndTime              string `json:"endTime"`   // "11:30"
	ExcludeAppointmentID *int64 `json:"excludeAppointmentId,omitempty"`
}

// ValidateResponse HTTP response model
type ValidateResponse struct {
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	RoomID  *int64 `json:"roomId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateRequest) ToUseCaseRequest() (*validateAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &validateAppointment.Request{
		ProfessionalID:       r.ProfessionalID,
		Date:                 date,
		StartTime:            start,
		EndTime:              end,
		ExcludeAppointmentID: r.ExcludeAppointmentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateAppointment.Response) *ValidateResponse {
	return &ValidateResponse{
		OK:      resp.OK,
		Reason:  string(resp.Reason),
		Message: resp.Message,
		RoomID:  resp.RoomID,
	}
}
