package state_history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "appointment_state_history"

// Repository журнал переходов записей; строки только добавляются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет строку журнала
func (r *Repository) Append(ctx context.Context, t *domain.StateTransition) (*domain.StateTransition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"appointment_id",
			"state_id",
			"changed_by",
			"reason",
			"previous_date",
			"previous_time",
			"new_date",
			"new_time",
		).
		Values(
			t.AppointmentID,
			int64(t.State),
			t.ChangedBy,
			t.Reason,
			t.PreviousDate.Format(domain.DateFormat),
			t.PreviousTime,
			t.CurrentDate.Format(domain.DateFormat),
			t.CurrentTime,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	created := *t
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		if pgerrors.IsConcurrentConflict(err) {
			return nil, fmt.Errorf("%w: Append - %v", domain.ErrConcurrentConflict, err)
		}
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// ListByAppointment возвращает журнал записи от старых строк к новым
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.StateTransition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"state_id",
		"changed_by",
		"reason",
		"previous_date",
		"previous_time",
		"new_date",
		"new_time",
		"created_at",
	).
		From(table).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.StateTransition, 0)
	for rows.Next() {
		var (
			t      domain.StateTransition
			state  int64
			reason sql.NullString
		)
		if err := rows.Scan(
			&t.ID,
			&t.AppointmentID,
			&state,
			&t.ChangedBy,
			&reason,
			&t.PreviousDate,
			&t.PreviousTime,
			&t.CurrentDate,
			&t.CurrentTime,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}

		t.State = domain.State(state)
		if reason.Valid {
			t.Reason = &reason.String
		}
		result = append(result, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
