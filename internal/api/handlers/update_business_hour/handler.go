package update_business_hour

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
	msgInvalidRuleID      = "некорректный ID правила"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRule        = "некорректное правило рабочего времени"
	msgRuleNotFound       = "правило не найдено"
	msgRuleOverlap        = "правило пересекается с существующим окном в этот день и в этом кабинете"
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

// Handle PUT /api/v1/business-hours/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil || ruleID <= 0 {
		h.logger.Warn("PUT /business-hours/{id} - Invalid rule ID: %s", mux.Vars(r)["ruleId"])
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req models.RuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /business-hours/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, err := h.service.Update(r.Context(), ruleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, business_hours.ErrInvalidInput):
			h.logger.Warn("PUT /business-hours/{id} - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRule)
		case errors.Is(err, business_hours.ErrRuleOverlap):
			h.logger.Warn("PUT /business-hours/{id} - Rule overlap: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondConflict(w, codeRuleOverlap, msgRuleOverlap)
		case errors.Is(err, domain.ErrRuleNotFound):
			h.logger.Warn("PUT /business-hours/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)
		default:
			h.logger.Error("PUT /business-hours/{id} - Failed to update rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /business-hours/{id} - Rule updated: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, rule)
}
