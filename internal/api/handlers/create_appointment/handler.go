package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgMissingUserID        = "не указан пользователь"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidRequest       = "некорректные параметры записи"
	msgProfessionalNotFound = "специалист не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgConcurrentConflict   = "время только что заняли, попробуйте еще раз"
)

var rejectionMessages = map[domain.RejectionReason]string{
	domain.ReasonOutOfHours:       "время вне рабочих часов специалиста",
	domain.ReasonDuringBreak:      "время попадает на перерыв специалиста",
	domain.ReasonProfessionalBusy: "специалист занят в это время",
	domain.ReasonCompanyBlocked:   "компания не принимает записи в это время",
}

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if rejection, ok := domain.AsRejection(err); ok {
			h.logger.Warn("POST /appointments - Rejected: professional_id=%d, reason=%s", req.ProfessionalID, rejection.Reason)
			handlers.RespondUnprocessable(w, string(rejection.Reason), rejectionMessages[rejection.Reason])
			return
		}

		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, domain.ErrProfessionalNotFound):
			h.logger.Warn("POST /appointments - Professional not found: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, domain.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, domain.ErrConcurrentConflict):
			h.logger.Warn("POST /appointments - Concurrent conflict: professional_id=%d", req.ProfessionalID)
			handlers.RespondConflict(w, domain.CodeConcurrentConflict, msgConcurrentConflict)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: professional_id=%d, client_id=%d, error=%v",
				req.ProfessionalID, req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, professional_id=%d, actor=%d",
		result.Appointment.ID, req.ProfessionalID, actor)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
