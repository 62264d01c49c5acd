package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"client_id",
	"service_id",
	"professional_id",
	"room_id",
	"appointment_date",
	"start_time",
	"end_time",
	"current_state_id",
	"is_completed",
	"is_absent",
	"notes",
	"version",
	"created_at",
	"updated_at",
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет запись. Пересечение с другой активной записью специалиста
// отсекает exclusion constraint; такая ошибка возвращается как domain.ErrConcurrentConflict.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"client_id",
			"service_id",
			"professional_id",
			"room_id",
			"appointment_date",
			"start_time",
			"end_time",
			"current_state_id",
			"is_completed",
			"is_absent",
			"notes",
			"version",
		).
		Values(
			a.ClientID,
			a.ServiceID,
			a.ProfessionalID,
			a.RoomID,
			a.Date.Format(domain.DateFormat),
			a.StartTime,
			a.EndTime,
			int64(a.CurrentState),
			a.IsCompleted,
			a.IsAbsent,
			a.Notes,
			a.Version,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *a
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&created.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: Create - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time

	return &created, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, "GetByID", id, false)
}

// GetByIDForUpdate получает запись по ID с блокировкой строки до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, "GetByIDForUpdate", id, true)
}

func (r *Repository) getByID(ctx context.Context, op string, id int64, forUpdate bool) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("appointment.repository: %w", domain.ErrAppointmentNotFound)
	}
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: %s - %v", domain.ErrConcurrentConflict, op, err)
		}
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	return a, nil
}

// ListByProfessionalAndDate возвращает все записи специалиста на дату, включая отмененные
func (r *Repository) ListByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"professional_id":  professionalID,
			"appointment_date": date.Format(domain.DateFormat),
		}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessionalAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: ListByProfessionalAndDate - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: ListByProfessionalAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProfessionalAndDate - scan row: %v", ErrScanRow, err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: ListByProfessionalAndDate - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: ListByProfessionalAndDate - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpdateState сохраняет состояние, расписание и флаги записи при совпадении версии.
// Версия увеличивается на единицу; несовпадение дает domain.ErrConcurrentConflict.
func (r *Repository) UpdateState(ctx context.Context, a *domain.Appointment, expectedVersion int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("current_state_id", int64(a.CurrentState)).
		Set("appointment_date", a.Date.Format(domain.DateFormat)).
		Set("start_time", a.StartTime).
		Set("end_time", a.EndTime).
		Set("room_id", a.RoomID).
		Set("is_completed", a.IsCompleted).
		Set("is_absent", a.IsAbsent).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "version": expectedVersion}).
		Suffix("RETURNING version, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	updated := *a
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updated.Version, &updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrStale(ctx, a.ID, expectedVersion)
	}
	if err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: UpdateState - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: UpdateState - execute update: %v", ErrExecQuery, err)
	}

	return &updated, nil
}

// missingOrStale различает удаленную запись и устаревшую версию
func (r *Repository) missingOrStale(ctx context.Context, id, expectedVersion int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("version").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build version query: %v", ErrBuildQuery, err)
	}

	var version int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("appointment.repository: %w", domain.ErrAppointmentNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateState - scan version: %v", ErrScanRow, err)
	}

	return fmt.Errorf("%w: appointment id=%d expected version %d, found %d",
		domain.ErrConcurrentConflict, id, expectedVersion, version)
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		roomID               sql.NullInt64
		notes                sql.NullString
		state                int64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.ServiceID,
		&a.ProfessionalID,
		&roomID,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&state,
		&a.IsCompleted,
		&a.IsAbsent,
		&notes,
		&a.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CurrentState = domain.State(state)
	if roomID.Valid {
		a.RoomID = &roomID.Int64
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
