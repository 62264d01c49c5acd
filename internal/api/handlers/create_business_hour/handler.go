package create_business_hour

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/business_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/service/business_hours/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidRule           = "некорректное правило рабочего времени"
	msgProfessionalNotFound  = "специалист не найден"
	msgRuleOverlap           = "правило пересекается с существующим окном в этот день и в этом кабинете"
)

const codeRuleOverlap = "RULE_OVERLAP"

type Handler struct {
	service BusinessHoursService
	logger  Logger
}

func NewHandler(service BusinessHoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/professionals/{professionalId}/business-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		h.logger.Warn("POST /professionals/{id}/business-hours - Invalid professional ID: %s", mux.Vars(r)["professionalId"])
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	var req models.RuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /professionals/{id}/business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, err := h.service.Create(r.Context(), professionalID, &req)
	if err != nil {
		switch {
		case errors.Is(err, business_hours.ErrInvalidInput):
			h.logger.Warn("POST /professionals/{id}/business-hours - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRule)
		case errors.Is(err, business_hours.ErrRuleOverlap):
			h.logger.Warn("POST /professionals/{id}/business-hours - Rule overlap: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondConflict(w, codeRuleOverlap, msgRuleOverlap)
		case errors.Is(err, domain.ErrProfessionalNotFound):
			h.logger.Warn("POST /professionals/{id}/business-hours - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)
		default:
			h.logger.Error("POST /professionals/{id}/business-hours - Failed to create rule: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /professionals/{id}/business-hours - Rule created: rule_id=%d, professional_id=%d", rule.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, rule)
}
