package transition_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Actor <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if !req.NewState.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidInput, fmt.Errorf("%w: %s", domain.ErrUnknownState, req.NewState))
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	reschedule := req.NewDate != nil || req.NewTime != nil
	if req.NewState != domain.StateRescheduled {
		if reschedule {
			return fmt.Errorf("%w: newDate/newTime are allowed only for %s", ErrInvalidInput, domain.StateRescheduled)
		}
		return nil
	}

	if !reschedule {
		return fmt.Errorf("%w: newDate or newTime is required for %s", ErrInvalidInput, domain.StateRescheduled)
	}

	if req.NewDate != nil && req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is empty", ErrInvalidInput)
	}

	if req.NewTime != nil {
		if _, err := types.ParseMinutes(*req.NewTime); err != nil {
			return fmt.Errorf("%w: invalid newTime: %v", ErrInvalidInput, err)
		}
	}

	return nil
}
