package transition_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	transitionAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_appointment"
)

const (
	msgMissingUserID        = "не указан пользователь"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnknownState         = "неизвестное состояние записи"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidRequest       = "некорректные параметры перехода"
	msgAppointmentNotFound  = "запись не найдена"
	msgInvalidTransition    = "переход в это состояние недопустим"
	msgConcurrentConflict   = "запись изменилась, обновите данные и повторите"
)

var rejectionMessages = map[domain.RejectionReason]string{
	domain.ReasonOutOfHours:       "новое время вне рабочих часов специалиста",
	domain.ReasonDuringBreak:      "новое время попадает на перерыв специалиста",
	domain.ReasonProfessionalBusy: "специалист занят в новое время",
	domain.ReasonCompanyBlocked:   "компания не принимает записи в новое время",
}

type Handler struct {
	useCase TransitionAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase TransitionAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/state
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/state - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/state - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/state - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, actor)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/state - Failed to parse request: %v", err)
		if errors.Is(err, domain.ErrUnknownState) {
			handlers.RespondBadRequest(w, msgUnknownState)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDateTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if rejection, ok := domain.AsRejection(err); ok {
			h.logger.Warn("PATCH /appointments/{id}/state - Reschedule rejected: appointment_id=%d, reason=%s",
				appointmentID, rejection.Reason)
			handlers.RespondUnprocessable(w, string(rejection.Reason), rejectionMessages[rejection.Reason])
			return
		}

		switch {
		case errors.Is(err, transitionAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/state - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, domain.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/state - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/state - Invalid transition: appointment_id=%d, state=%s", appointmentID, req.State)
			handlers.RespondConflict(w, domain.CodeInvalidTransition, msgInvalidTransition)

		case errors.Is(err, domain.ErrConcurrentConflict):
			h.logger.Warn("PATCH /appointments/{id}/state - Concurrent conflict: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, domain.CodeConcurrentConflict, msgConcurrentConflict)

		default:
			h.logger.Error("PATCH /appointments/{id}/state - Failed to transition: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/state - Appointment moved to %s: appointment_id=%d, actor=%d",
		result.Appointment.CurrentState, appointmentID, actor)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
