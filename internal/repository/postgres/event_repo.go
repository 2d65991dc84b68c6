package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventplatform/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.date, e.time, e.location, e.category, e.image, e.created_by, e.created_at, e.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, time, location, category, image, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Time, e.Location, string(e.Category), e.Image, e.CreatedBy.ID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `, COALESCE(u.username, '')
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	var conds []string
	var args []any
	n := 1
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("e.category = $%d", n))
		args = append(args, string(filter.Category))
		n++
	}
	if filter.Location != "" {
		conds = append(conds, fmt.Sprintf("e.location ILIKE $%d", n))
		args = append(args, "%"+escapeLike(filter.Location)+"%")
		n++
	}
	if filter.CreatedBy != "" {
		conds = append(conds, fmt.Sprintf("e.created_by = $%d", n))
		args = append(args, filter.CreatedBy)
		n++
	}
	if filter.SavedBy != "" {
		conds = append(conds, fmt.Sprintf("e.id = ANY (SELECT unnest(saved_events) FROM users WHERE id = $%d)", n))
		args = append(args, filter.SavedBy)
		n++
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events e ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, COALESCE(u.username, '')
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		%s
		ORDER BY e.date ASC, e.created_at ASC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, n, n+1)
	args = append(args, page.PageSize, page.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows, true)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		UPDATE events
		SET title = $1, description = $2, date = $3, time = $4, location = $5, category = $6, image = $7, updated_at = $8
		WHERE id = $9
		RETURNING ` + strings.ReplaceAll(eventColumns, "e.", "") + `
	`
	updated, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Time, e.Location, string(e.Category), e.Image, e.UpdatedAt, e.ID,
	), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanEvent(row rowScanner, withCreator bool) (*domain.Event, error) {
	e := &domain.Event{}
	var category string
	dest := []any{
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &category, &e.Image,
		&e.CreatedBy.ID, &e.CreatedAt, &e.UpdatedAt,
	}
	if withCreator {
		dest = append(dest, &e.CreatedBy.Username)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	return e, nil
}

// escapeLike escapes the LIKE wildcards in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
