package validate_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request предлагаемое время записи
type Request struct {
	ProfessionalID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString

	// ExcludeAppointmentID запись, которую не считать занятостью (перенос самой себя)
	ExcludeAppointmentID *int64
}

// Response результат проверки: OK, либо код причины отказа
type Response struct {
	OK      bool
	Reason  domain.RejectionReason
	Message string
	RoomID  *int64 // кабинет подходящего правила при OK
}

// Candidate данные для чистой проверки, уже загруженные из хранилищ
type Candidate struct {
	Date     time.Time
	Interval types.Interval

	Rules        []*domain.BusinessHourRule
	Appointments []*domain.Appointment
	BlockedTimes []*domain.CompanyBlockedTime
	Location     *time.Location

	ExcludeAppointmentID int64
}
