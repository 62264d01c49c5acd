package transition_appointment

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fixture struct {
	db            *store
	appointments  *fakeAppointments
	history       *fakeHistory
	professionals *fakeProfessionals
	validator     *fakeValidator
	tx            *fakeTxManager
	recorder      *transitionsRecorder
	uc            *UseCase
}

func newFixture(state domain.State) *fixture {
	db := &store{appointments: map[int64]domain.Appointment{
		1: {
			ID:             1,
			ClientID:       7,
			ServiceID:      3,
			ProfessionalID: 2,
			Date:           monday,
			StartTime:      "09:00",
			EndTime:        "10:30",
			CurrentState:   state,
			Version:        3,
		},
	}}
	f := &fixture{
		db:            db,
		appointments:  &fakeAppointments{db: db},
		history:       &fakeHistory{db: db},
		professionals: &fakeProfessionals{},
		validator:     &fakeValidator{},
		tx:            &fakeTxManager{db: db},
		recorder:      &transitionsRecorder{},
	}
	f.uc = NewUseCase(f.appointments, f.history, f.professionals, f.validator, f.tx, f.recorder, 1, nopLogger{})
	return f
}

func TestExecute_Confirm(t *testing.T) {
	f := newFixture(domain.StateCreated)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1, NewState: domain.StateConfirmed, Actor: 9, Reason: ptr.Ptr("client called"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StateConfirmed, resp.Appointment.CurrentState)
	assert.Equal(t, int64(4), resp.Appointment.Version)
	assert.Equal(t, domain.StateConfirmed, f.db.appointments[1].CurrentState)

	require.Len(t, f.db.history, 1)
	tr := f.db.history[0]
	assert.Equal(t, int64(9), tr.ChangedBy)
	assert.Equal(t, "client called", *tr.Reason)
	assert.Equal(t, types.TimeString("09:00"), tr.PreviousTime)
	assert.Equal(t, types.TimeString("09:00"), tr.CurrentTime)

	assert.Empty(t, f.validator.requests, "confirmation is not re-validated")
	assert.Empty(t, f.professionals.locks)
	assert.Equal(t, []string{"Confirmed"}, f.recorder.states)
}

func TestExecute_CancelledToConfirmedIsInvalid(t *testing.T) {
	f := newFixture(domain.StateCancelled)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, NewState: domain.StateConfirmed, Actor: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "INVALID_TRANSITION", domain.ErrorCode(err))
	assert.Empty(t, f.db.history)
	assert.Equal(t, domain.StateCancelled, f.db.appointments[1].CurrentState)
}

func TestExecute_TerminalFlags(t *testing.T) {
	f := newFixture(domain.StateConfirmed)
	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, NewState: domain.StateCompleted, Actor: 9})
	require.NoError(t, err)
	assert.True(t, resp.Appointment.IsCompleted)
	assert.False(t, resp.Appointment.IsAbsent)

	f = newFixture(domain.StateConfirmed)
	resp, err = f.uc.Execute(context.Background(), &Request{AppointmentID: 1, NewState: domain.StateAbsent, Actor: 9})
	require.NoError(t, err)
	assert.True(t, resp.Appointment.IsAbsent)
}

func TestExecute_Reschedule(t *testing.T) {
	f := newFixture(domain.StateConfirmed)
	wednesday := monday.AddDate(0, 0, 2)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		NewState:      domain.StateRescheduled,
		Actor:         9,
		NewDate:       &wednesday,
		NewTime:       ptr.Ptr(types.TimeString("14:00")),
	})
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, wednesday, a.Date)
	assert.Equal(t, "14:00", a.StartTime.String())
	assert.Equal(t, "15:30", a.EndTime.String(), "duration is kept")
	assert.Equal(t, ptr.Ptr(int64(4)), a.RoomID)

	require.Len(t, f.validator.requests, 1)
	vr := f.validator.requests[0]
	assert.Equal(t, int64(2), vr.ProfessionalID)
	assert.Equal(t, ptr.Ptr(int64(1)), vr.ExcludeAppointmentID)
	assert.Equal(t, []int64{2}, f.professionals.locks)

	tr := resp.Transition
	assert.Equal(t, monday, tr.PreviousDate)
	assert.Equal(t, types.TimeString("09:00"), tr.PreviousTime)
	assert.Equal(t, wednesday, tr.CurrentDate)
	assert.Equal(t, types.TimeString("14:00"), tr.CurrentTime)
}

func TestExecute_RescheduleTimeOnlyKeepsDate(t *testing.T) {
	f := newFixture(domain.StateRescheduled)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1, NewState: domain.StateRescheduled, Actor: 9, NewTime: ptr.Ptr(types.TimeString("11:00")),
	})
	require.NoError(t, err)
	assert.Equal(t, monday, resp.Appointment.Date)
	assert.Equal(t, "12:30", resp.Appointment.EndTime.String())
}

func TestExecute_RejectedRescheduleLeavesAppointmentUnchanged(t *testing.T) {
	f := newFixture(domain.StateConfirmed)
	f.validator.rejection = domain.NewRejection(domain.ReasonProfessionalBusy, "overlaps appointment id=5")
	before := f.db.appointments[1]

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1, NewState: domain.StateRescheduled, Actor: 9, NewTime: ptr.Ptr(types.TimeString("15:00")),
	})
	assert.ErrorIs(t, err, domain.ErrProfessionalBusy)
	assert.Equal(t, before, f.db.appointments[1])
	assert.Empty(t, f.db.history)
	assert.Empty(t, f.recorder.states)
}

func TestExecute_VersionChangedIsRetriedOnce(t *testing.T) {
	f := newFixture(domain.StateCreated)
	f.appointments.bumpBeforeLock = 1

	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, NewState: domain.StateConfirmed, Actor: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, f.tx.calls)
	assert.Len(t, f.db.history, 1)
	assert.Equal(t, domain.StateConfirmed, resp.Appointment.CurrentState)
}

func TestExecute_HistoryAppendConflictIsRetried(t *testing.T) {
	f := newFixture(domain.StateCreated)
	f.history.failWith = []error{&pq.Error{Code: "40001"}}

	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, NewState: domain.StateConfirmed, Actor: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, f.tx.calls)
	assert.Equal(t, 2, f.history.calls)
	assert.Len(t, f.db.history, 1)
	assert.Equal(t, int64(4), resp.Appointment.Version)
}

func TestExecute_SecondConflictSurfaces(t *testing.T) {
	f := newFixture(domain.StateCreated)
	f.appointments.bumpBeforeLock = 2

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, NewState: domain.StateConfirmed, Actor: 9})
	assert.ErrorIs(t, err, domain.ErrConcurrentConflict)
	assert.Equal(t, 2, f.tx.calls)
	assert.Empty(t, f.db.history)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(domain.StateCreated)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 42, NewState: domain.StateConfirmed, Actor: 9})
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestExecute_InputErrors(t *testing.T) {
	newTime := ptr.Ptr(types.TimeString("10:00"))
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no actor", req: &Request{AppointmentID: 1, NewState: domain.StateConfirmed}},
		{name: "unknown state", req: &Request{AppointmentID: 1, NewState: domain.State(99), Actor: 9}},
		{name: "time for confirm", req: &Request{AppointmentID: 1, NewState: domain.StateConfirmed, Actor: 9, NewTime: newTime}},
		{name: "reschedule without target", req: &Request{AppointmentID: 1, NewState: domain.StateRescheduled, Actor: 9}},
		{name: "reschedule bad time", req: &Request{AppointmentID: 1, NewState: domain.StateRescheduled, Actor: 9, NewTime: ptr.Ptr(types.TimeString("9am"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(domain.StateCreated)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestExecute_RescheduleCrossingMidnight(t *testing.T) {
	f := newFixture(domain.StateConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1, NewState: domain.StateRescheduled, Actor: 9, NewTime: ptr.Ptr(types.TimeString("23:00")),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.db.history)
}
