package get_available_slots

import (
	"context"
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
}

func (f *fakeRules) ListByProfessional(_ context.Context, professionalID int64) ([]*domain.BusinessHourRule, error) {
	out := make([]*domain.BusinessHourRule, 0)
	for _, r := range f.rules {
		if r.ProfessionalID == professionalID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAppointments struct {
	items []*domain.Appointment
}

func (f *fakeAppointments) ListByProfessionalAndDate(_ context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.ProfessionalID == professionalID && a.Date.Equal(date) {
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
	return &domain.Company{ID: companyID, Timezone: "UTC"}, nil
}

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetServiceWithStages(_ context.Context, serviceID int64) (*domain.Service, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return s, nil
}

type utcResolver struct{}

func (utcResolver) Location(string) *time.Location { return time.UTC }

type slotsRecorder struct {
	total int
}

func (r *slotsRecorder) ObserveSlotsComputed(count int) { r.total += count }

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

// workWeek Пн/Ср/Пт 09:00-17:00 с перерывом 12:00-13:00
func workWeek(room int64) []*domain.BusinessHourRule {
	rules := make([]*domain.BusinessHourRule, 0, 3)
	for _, day := range []time.Weekday{time.Monday, time.Wednesday, time.Friday} {
		rules = append(rules, &domain.BusinessHourRule{
			ProfessionalID: 1,
			RoomID:         room,
			DayOfWeek:      int(day),
			StartTime:      "09:00",
			EndTime:        "17:00",
			BreakStart:     ptr.Ptr(types.TimeString("12:00")),
			BreakEnd:       ptr.Ptr(types.TimeString("13:00")),
		})
	}
	return rules
}
