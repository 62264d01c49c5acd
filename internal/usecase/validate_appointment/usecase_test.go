package validate_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fixture struct {
	rules        *fakeRules
	appointments *fakeAppointments
	blocked      *fakeBlocked
	recorder     *recorder
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		rules:        &fakeRules{rules: []*domain.BusinessHourRule{mondayRule(1, "09:00", "17:00", "12:00", "13:00")}},
		appointments: &fakeAppointments{},
		blocked:      &fakeBlocked{},
		recorder:     &recorder{},
	}
	f.uc = NewUseCase(f.rules, f.appointments, f.blocked, fakeProfessionals{}, utcResolver{}, f.recorder, nopLogger{})
	return f
}

func request(start, end string) *Request {
	return &Request{
		ProfessionalID: 1,
		Date:           monday,
		StartTime:      types.TimeString(start),
		EndTime:        types.TimeString(end),
	}
}

func TestExecute_Reasons(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       domain.RejectionReason
	}{
		{name: "before opening", start: "08:30", end: "09:30", want: domain.ReasonOutOfHours},
		{name: "after closing", start: "16:30", end: "17:15", want: domain.ReasonOutOfHours},
		{name: "into break", start: "11:30", end: "12:30", want: domain.ReasonDuringBreak},
		{name: "inside break", start: "12:00", end: "13:00", want: domain.ReasonDuringBreak},
		{name: "overlaps existing", start: "10:00", end: "11:00", want: domain.ReasonProfessionalBusy},
		{name: "overlaps blocked window", start: "15:00", end: "16:00", want: domain.ReasonCompanyBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.appointments.items = []*domain.Appointment{appointment(5, "09:00", "10:30", domain.StateConfirmed)}
			f.blocked.items = []*domain.CompanyBlockedTime{{
				CompanyID: 10,
				InitDate:  monday.Add(14*time.Hour + 30*time.Minute),
				EndDate:   monday.Add(17 * time.Hour),
				Message:   "inventory",
			}}

			resp, err := f.uc.Execute(context.Background(), request(tt.start, tt.end))
			require.NoError(t, err)
			assert.False(t, resp.OK)
			assert.Equal(t, tt.want, resp.Reason)
			assert.NotEmpty(t, resp.Message)
			assert.Equal(t, []string{string(tt.want)}, f.recorder.reasons)
		})
	}
}

func TestExecute_Accepts(t *testing.T) {
	f := newFixture()
	f.appointments.items = []*domain.Appointment{appointment(5, "09:00", "10:30", domain.StateConfirmed)}

	// касание границей не является пересечением
	resp, err := f.uc.Execute(context.Background(), request("10:30", "12:00"))
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, ptr.Ptr(int64(1)), resp.RoomID)
	assert.Empty(t, f.recorder.reasons)
}

func TestExecute_BlockedTimeWithoutOtherConflicts(t *testing.T) {
	f := newFixture()
	f.blocked.items = []*domain.CompanyBlockedTime{{
		CompanyID: 10,
		InitDate:  monday.Add(9 * time.Hour),
		EndDate:   monday.Add(11 * time.Hour),
	}}

	resp, err := f.uc.Execute(context.Background(), request("09:30", "10:30"))
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, domain.ReasonCompanyBlocked, resp.Reason)
}

func TestExecute_IgnoresCancelledAndExcluded(t *testing.T) {
	f := newFixture()
	f.appointments.items = []*domain.Appointment{
		appointment(5, "09:00", "10:30", domain.StateCancelled),
		appointment(6, "14:00", "15:00", domain.StateConfirmed),
	}

	resp, err := f.uc.Execute(context.Background(), request("09:00", "10:30"))
	require.NoError(t, err)
	assert.True(t, resp.OK)

	req := request("14:15", "15:15")
	req.ExcludeAppointmentID = ptr.Ptr(int64(6))
	resp, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.OK)
}

func TestExecute_BreakInOneRoomOnly(t *testing.T) {
	f := newFixture()
	f.rules.rules = append(f.rules.rules, mondayRule(2, "09:00", "17:00", "", ""))

	resp, err := f.uc.Execute(context.Background(), request("12:00", "13:00"))
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, ptr.Ptr(int64(2)), resp.RoomID)
}

func TestExecute_WrongWeekday(t *testing.T) {
	f := newFixture()
	req := request("10:00", "11:00")
	req.Date = monday.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonOutOfHours, resp.Reason)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), request("11:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), request("ten", "11:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	req := request("10:00", "11:00")
	req.ProfessionalID = 2
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrProfessionalNotFound)
}

func TestValidate_ReturnsTypedRejection(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Validate(context.Background(), request("07:00", "08:00"))
	assert.ErrorIs(t, err, domain.ErrOutOfHours)
	assert.Equal(t, "OUT_OF_HOURS", domain.ErrorCode(err))
}

func TestValidate_ReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     error
		conflict bool
	}{
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: domain.ErrConcurrentConflict, conflict: true},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: domain.ErrConcurrentConflict, conflict: true},
		{name: "wrapped conflict", err: fmt.Errorf("scan: %w", domain.ErrConcurrentConflict), want: domain.ErrConcurrentConflict, conflict: true},
		{name: "other failure", err: errors.New("connection reset"), want: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.rules.err = tt.err

			_, err := f.uc.Validate(context.Background(), request("10:00", "11:00"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			if tt.conflict {
				assert.NotErrorIs(t, err, ErrInternal)
			}
		})
	}
}
