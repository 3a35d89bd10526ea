package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"event_calendar/internal/common"
	"event_calendar/internal/domain/model"
)

const eventColumns = `id, title, description, start_datetime, end_datetime, location, category, is_all_day, created_at, updated_at`

// EventFilter narrows a list query. Zero values mean "no filter".
type EventFilter struct {
	Category string
	Search   string
}

type EventRepository interface {
	List(ctx context.Context, filter EventFilter, limit, offset int) ([]model.Event, int, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, id int, patch model.EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id int) (*model.Event, error)
	Stats(ctx context.Context) (*model.EventStats, error)
}

type pgEventRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func NewPgEventRepository(db *sql.DB, queryTimeout time.Duration) EventRepository {
	return &pgEventRepository{db: db, queryTimeout: queryTimeout}
}

// List runs a count query and a page query. The two reads are not wrapped
// in a transaction; concurrent writes landing between them may make the
// total and the page mutually inconsistent, which is accepted.
func (r *pgEventRepository) List(ctx context.Context, filter EventFilter, limit, offset int) ([]model.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d OR category ILIKE $%d)",
			n, n, n, n))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM calendar_events` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, wrapStorageError("pgEventRepository.List count", err)
	}

	// Secondary id sort makes ordering deterministic among equal start times.
	query := fmt.Sprintf(`SELECT %s FROM calendar_events%s ORDER BY start_datetime DESC, id DESC LIMIT $%d OFFSET $%d`,
		eventColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapStorageError("pgEventRepository.List query", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows.Scan, &e); err != nil {
			return nil, 0, wrapStorageError("pgEventRepository.List scan", err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapStorageError("pgEventRepository.List rows.Err", err)
	}

	return events, total, nil
}

func (r *pgEventRepository) FindByID(ctx context.Context, id int) (*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`
	event := &model.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, id).Scan, event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, wrapStorageError("pgEventRepository.FindByID", err)
	}
	return event, nil
}

func (r *pgEventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `INSERT INTO calendar_events
	          (title, description, start_datetime, end_datetime, location, category, is_all_day)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.StartDatetime, event.EndDatetime,
		event.Location, event.Category, event.IsAllDay,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return wrapStorageError("pgEventRepository.Create", err)
	}
	return nil
}

// Update applies only the fields present in the patch. Column names come
// from the fixed list below; client input never reaches an SQL identifier.
func (r *pgEventRepository) Update(ctx context.Context, id int, patch model.EventPatch) (*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var setClauses []string
	var args []interface{}

	set := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.StartDatetime != nil {
		set("start_datetime", *patch.StartDatetime)
	}
	if patch.EndDatetime != nil {
		set("end_datetime", *patch.EndDatetime)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.IsAllDay != nil {
		set("is_all_day", *patch.IsAllDay)
	}

	if len(setClauses) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", common.ErrValidation)
	}

	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE calendar_events SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), eventColumns)

	event := &model.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, args...).Scan, event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, wrapStorageError("pgEventRepository.Update", err)
	}
	return event, nil
}

func (r *pgEventRepository) Delete(ctx context.Context, id int) (*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `DELETE FROM calendar_events WHERE id = $1 RETURNING ` + eventColumns
	event := &model.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, id).Scan, event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, wrapStorageError("pgEventRepository.Delete", err)
	}
	return event, nil
}

// Stats computes all counts in one statement so they describe a single
// storage snapshot even under concurrent writes.
func (r *pgEventRepository) Stats(ctx context.Context) (*model.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `
        SELECT
            COUNT(*) AS total_events,
            COUNT(CASE WHEN start_datetime >= CURRENT_DATE THEN 1 END) AS upcoming_events,
            COUNT(CASE WHEN start_datetime < CURRENT_DATE THEN 1 END) AS past_events,
            COUNT(CASE WHEN is_all_day = true THEN 1 END) AS all_day_events,
            COUNT(CASE WHEN is_all_day = false THEN 1 END) AS timed_events
        FROM calendar_events`

	stats := &model.EventStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalEvents, &stats.UpcomingEvents, &stats.PastEvents,
		&stats.AllDayEvents, &stats.TimedEvents,
	)
	if err != nil {
		return nil, wrapStorageError("pgEventRepository.Stats", err)
	}
	return stats, nil
}

func scanEvent(scan func(dest ...interface{}) error, e *model.Event) error {
	return scan(
		&e.ID, &e.Title, &e.Description, &e.StartDatetime, &e.EndDatetime,
		&e.Location, &e.Category, &e.IsAllDay, &e.CreatedAt, &e.UpdatedAt,
	)
}
