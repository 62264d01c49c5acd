package validate_appointment

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRules struct {
	rules []*domain.BusinessHourRule
	err   error
}

func (f *fakeRules) ListByProfessional(_ context.Context, professionalID int64) ([]*domain.BusinessHourRule, error) {
	out := make([]*domain.BusinessHourRule, 0)
	for _, r := range f.rules {
		if r.ProfessionalID == professionalID {
			out = append(out, r)
		}
	}
	return out, f.err
}

type fakeAppointments struct {
	items []*domain.Appointment
}

func (f *fakeAppointments) ListByProfessionalAndDate(_ context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.ProfessionalID == professionalID && a.Date.Format(domain.DateFormat) == date.Format(domain.DateFormat) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeBlocked struct {
	items []*domain.CompanyBlockedTime
}

func (f *fakeBlocked) ListForCompany(_ context.Context, companyID int64, from, to time.Time) ([]*domain.CompanyBlockedTime, error) {
	out := make([]*domain.CompanyBlockedTime, 0)
	for _, b := range f.items {
		if b.CompanyID == companyID && b.InitDate.Before(to) && b.EndDate.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeProfessionals struct{}

func (fakeProfessionals) GetByID(_ context.Context, id int64) (*domain.Professional, error) {
	if id != 1 {
		return nil, domain.ErrProfessionalNotFound
	}
	return &domain.Professional{ID: 1, CompanyID: 10}, nil
}

func (fakeProfessionals) GetCompany(_ context.Context, companyID int64) (*domain.Company, error) {
	if companyID != 10 {
		return nil, errors.New("unexpected company")
	}
	return &domain.Company{ID: 10, Timezone: "UTC"}, nil
}

type utcResolver struct{}

func (utcResolver) Location(string) *time.Location { return time.UTC }

type recorder struct {
	reasons []string
}

func (r *recorder) ObserveValidationRejection(reason string) {
	r.reasons = append(r.reasons, reason)
}

// monday 2024-03-04
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func mondayRule(room int64, start, end, breakStart, breakEnd string) *domain.BusinessHourRule {
	r := &domain.BusinessHourRule{
		ID:             room,
		ProfessionalID: 1,
		RoomID:         room,
		DayOfWeek:      int(time.Monday),
		StartTime:      types.TimeString(start),
		EndTime:        types.TimeString(end),
	}
	if breakStart != "" {
		r.BreakStart = ptr.Ptr(types.TimeString(breakStart))
		r.BreakEnd = ptr.Ptr(types.TimeString(breakEnd))
	}
	return r
}

func appointment(id int64, start, end string, state domain.State) *domain.Appointment {
	return &domain.Appointment{
		ID:             id,
		ProfessionalID: 1,
		Date:           monday,
		StartTime:      types.TimeString(start),
		EndTime:        types.TimeString(end),
		CurrentState:   state,
	}
}
