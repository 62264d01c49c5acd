package validate_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	validateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *validateAppointment.Request
	resp *validateAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *validateAppointment.Request) (*validateAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

func post(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/validate", strings.NewReader(body))
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

const body = `{"professionalId":5,"date":"2024-03-04","startTime":"12:30","endTime":"13:30","excludeAppointmentId":8}`

func TestHandler_RejectionIsOK(t *testing.T) {
	uc := &fakeUseCase{resp: &validateAppointment.Response{
		Reason:  domain.ReasonDuringBreak,
		Message: "12:30-13:30 overlaps break 13:00-14:00",
	}}

	rec := post(uc, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"DURING_BREAK","message":"12:30-13:30 overlaps break 13:00-14:00"}`, rec.Body.String())
	require.NotNil(t, uc.got.ExcludeAppointmentID)
	assert.Equal(t, int64(8), *uc.got.ExcludeAppointmentID)
	assert.Equal(t, "13:30", uc.got.EndTime.String())
}

func TestHandler_Accepted(t *testing.T) {
	room := int64(2)
	rec := post(&fakeUseCase{resp: &validateAppointment.Response{OK: true, RoomID: &room}}, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"roomId":2}`, rec.Body.String())
}

func TestHandler_BadInput(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, post(&fakeUseCase{}, `{"professionalId":5,"date":"2024-03-04","startTime":"25:00","endTime":"13:30"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(&fakeUseCase{}, `{"unknown":1}`).Code)
	assert.Equal(t, http.StatusNotFound, post(&fakeUseCase{err: domain.ErrProfessionalNotFound}, body).Code)
}
