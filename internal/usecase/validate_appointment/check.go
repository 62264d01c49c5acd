package validate_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Check проверяет кандидата по порядку: рабочие часы, перерыв, занятость специалиста,
// блокировки компании. Возвращает правило, в которое попала запись, или первый отказ.
func Check(c Candidate) (*domain.BusinessHourRule, *domain.RejectionError) {
	date := c.Date.Format(domain.DateFormat)
	slot := types.ToTimeString(c.Interval.Start) + "-" + types.ToTimeString(c.Interval.End)

	containing := make([]*domain.BusinessHourRule, 0, len(c.Rules))
	for _, rule := range c.Rules {
		if rule.AppliesTo(c.Date) && rule.Window().Contains(c.Interval) {
			containing = append(containing, rule)
		}
	}
	if len(containing) == 0 {
		return nil, domain.NewRejection(domain.ReasonOutOfHours,
			"%s on %s is outside business hours", slot, date)
	}

	// Достаточно одного правила (кабинета), где запись не задевает перерыв
	var matched *domain.BusinessHourRule
	for _, rule := range containing {
		if br, ok := rule.Break(); ok && br.Overlaps(c.Interval) {
			continue
		}
		matched = rule
		break
	}
	if matched == nil {
		br, _ := containing[0].Break()
		return nil, domain.NewRejection(domain.ReasonDuringBreak,
			"%s on %s overlaps break %s-%s", slot, date, types.ToTimeString(br.Start), types.ToTimeString(br.End))
	}

	for _, appointment := range c.Appointments {
		if !appointment.OccupiesTime() || appointment.ID == c.ExcludeAppointmentID {
			continue
		}
		if appointment.Interval().Overlaps(c.Interval) {
			return nil, domain.NewRejection(domain.ReasonProfessionalBusy,
				"%s on %s overlaps appointment id=%d (%s-%s)", slot, date,
				appointment.ID, appointment.StartTime, appointment.EndTime)
		}
	}

	for _, blocked := range c.BlockedTimes {
		window, ok := blocked.ProjectOnto(c.Date, c.Location)
		if !ok || !window.Overlaps(c.Interval) {
			continue
		}
		message := blocked.Message
		if message == "" {
			message = "company is closed"
		}
		return nil, domain.NewRejection(domain.ReasonCompanyBlocked, "%s on %s: %s", slot, date, message)
	}

	return matched, nil
}
