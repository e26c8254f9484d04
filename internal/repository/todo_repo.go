package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo_api/internal/filter"
	"todo_api/internal/models"
)

type TodoSQLite struct {
	db *sql.DB
}

func NewTodoSQLite(db *sql.DB) *TodoSQLite { return &TodoSQLite{db: db} }

// Ensure implementation of TodoRepo interface at compile time.
var _ TodoRepo = (*TodoSQLite)(nil)

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
const timestampLayout = "2006-01-02 15:04:05"

const todoColumns = `id, user_id, title, description, completed, due_date, created_at, updated_at`

const (
	insertTodoSQL = `INSERT INTO todos (user_id, title, description, completed, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectTodoByIDSQL = `SELECT ` + todoColumns + ` FROM todos WHERE user_id = ? AND id = ?`
	deleteTodoSQL     = `DELETE FROM todos WHERE user_id = ? AND id = ?`
)

// sqlQuery accumulates conjunctive conditions and a single ORDER BY clause.
// It implements filter.Builder, so the filter engine can restrict the query
// without ever seeing the owner predicate it was seeded with.
type sqlQuery struct {
	conds []string
	args  []any
	order string
}

// ownerScoped seeds the query with the owner predicate. Every todo read goes
// through this; filters can only narrow it.
func ownerScoped(userID int) *sqlQuery {
	return &sqlQuery{
		conds: []string{"user_id = ?"},
		args:  []any{userID},
	}
}

var _ filter.Builder = (*sqlQuery)(nil)

func (q *sqlQuery) WhereEq(column string, value any) {
	q.conds = append(q.conds, column+" = ?")
	q.args = append(q.args, sqlValue(value))
}

func (q *sqlQuery) WhereLikeAny(columns []string, pattern string) {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER("+col+") LIKE ?")
		q.args = append(q.args, pattern)
	}
	q.conds = append(q.conds, "("+strings.Join(parts, " OR ")+")")
}

func (q *sqlQuery) WhereGTE(column string, value any) {
	q.conds = append(q.conds, column+" >= ?")
	q.args = append(q.args, sqlValue(value))
}

func (q *sqlQuery) WhereLTE(column string, value any) {
	q.conds = append(q.conds, column+" <= ?")
	q.args = append(q.args, sqlValue(value))
}

func (q *sqlQuery) OrderBy(column string, descending bool) {
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	q.order = " ORDER BY " + column + " " + dir
}

func (q *sqlQuery) where() string {
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// sqlValue normalizes Go values to their stored SQLite representation.
func sqlValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(timestampLayout)
	}
	return v
}

// Create inserts a new todo and returns it with ID and timestamps set.
func (r *TodoSQLite) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	now := time.Now().UTC().Truncate(time.Second)
	todo.CreatedAt = now
	todo.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, insertTodoSQL,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Completed,
		nullableTime(todo.DueDate),
		now.Format(timestampLayout),
		now.Format(timestampLayout),
	)
	if err != nil {
		return models.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Todo{}, fmt.Errorf("get last insert id for todo: %w", err)
	}
	todo.ID = int(lastID)
	return todo, nil
}

// GetByID fetches one todo within the owner's scope. Returns (nil, nil) if not found.
func (r *TodoSQLite) GetByID(ctx context.Context, userID, id int) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx, selectTodoByIDSQL, userID, id)
	todo, err := scanTodo(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select todo %d: %w", id, err)
	}
	return &todo, nil
}

// List runs the owner-scoped query with the request's filters, ordering and
// paging applied.
func (r *TodoSQLite) List(ctx context.Context, userID int, params filter.Params, limit, offset int) ([]models.Todo, error) {
	q := ownerScoped(userID)
	filter.Apply(params, q)

	stmt := `SELECT ` + todoColumns + ` FROM todos` + q.where() + q.order + ` LIMIT ? OFFSET ?`
	args := append(q.args, limit, offset)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := make([]models.Todo, 0, limit)
	for rows.Next() {
		todo, err := scanTodo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan todo row: %w", err)
		}
		out = append(out, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo rows: %w", err)
	}
	return out, nil
}

// Count returns the total matching rows for the same filters, ignoring paging.
func (r *TodoSQLite) Count(ctx context.Context, userID int, params filter.Params) (int, error) {
	q := ownerScoped(userID)
	filter.Apply(params, q)

	var total int
	stmt := `SELECT COUNT(*) FROM todos` + q.where()
	if err := r.db.QueryRowContext(ctx, stmt, q.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return total, nil
}

// Update applies a partial update within the owner's scope and returns the
// fresh row. Returns (nil, nil) if the todo does not exist for this owner.
func (r *TodoSQLite) Update(ctx context.Context, userID, id int, upd models.TodoUpdate) (*models.Todo, error) {
	current, err := r.GetByID(ctx, userID, id)
	if err != nil || current == nil {
		return nil, err
	}

	if upd.Title != nil {
		current.Title = *upd.Title
	}
	if upd.Description != nil {
		current.Description = upd.Description
	}
	if upd.Completed != nil {
		current.Completed = *upd.Completed
	}
	if upd.DueDate != nil {
		current.DueDate = upd.DueDate
	}
	current.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = r.db.ExecContext(ctx, `UPDATE todos SET title = ?, description = ?, completed = ?, due_date = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		current.Title,
		current.Description,
		current.Completed,
		nullableTime(current.DueDate),
		current.UpdatedAt.Format(timestampLayout),
		userID,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	return current, nil
}

// Delete removes a todo within the owner's scope and reports whether a row
// was actually deleted.
func (r *TodoSQLite) Delete(ctx context.Context, userID, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTodoSQL, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for todo %d: %w", id, err)
	}
	return affected > 0, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}

// scanTodo reads one row regardless of whether it comes from QueryRow or Rows.
func scanTodo(scan func(dest ...any) error) (models.Todo, error) {
	var (
		todo        models.Todo
		description sql.NullString
		dueDate     sql.NullString
		createdAt   string
		updatedAt   string
	)
	if err := scan(&todo.ID, &todo.UserID, &todo.Title, &description, &todo.Completed, &dueDate, &createdAt, &updatedAt); err != nil {
		return models.Todo{}, err
	}
	if description.Valid {
		todo.Description = &description.String
	}
	if dueDate.Valid && dueDate.String != "" {
		if t, err := parseTimestamp(dueDate.String); err == nil {
			todo.DueDate = &t
		}
	}
	var err error
	if todo.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Todo{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if todo.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Todo{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return todo, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
