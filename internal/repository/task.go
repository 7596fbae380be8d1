package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oakmill/taskman/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// taskSortColumns maps request-facing sort fields to columns. Fields outside
// this map produce no ordering change rather than an error, matching the
// long-standing behavior of the list endpoint.
var taskSortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// TaskListParams shapes an owner-scoped task listing. Zero values mean "no
// filter", "natural order", "no cap" and "no offset" respectively.
type TaskListParams struct {
	Completed *bool
	OrderBy   string // validated column name, empty for natural order
	Desc      bool
	Limit     int
	Skip      int
}

// ParseTaskListParams builds list params from raw query string inputs.
// Values that do not parse (a non-boolean completed, a non-numeric limit)
// are treated as absent rather than rejected.
func ParseTaskListParams(completed, sortBy, limit, skip string) TaskListParams {
	var p TaskListParams

	if completed != "" {
		b, err := strconv.ParseBool(completed)
		if err == nil {
			p.Completed = &b
		}
	}

	if sortBy != "" {
		field, direction, _ := strings.Cut(sortBy, ":")
		column, ok := taskSortColumns[field]
		if ok {
			p.OrderBy = column
			p.Desc = direction == "desc"
		}
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err == nil && n > 0 {
			p.Limit = n
		}
	}

	if skip != "" {
		n, err := strconv.Atoi(skip)
		if err == nil && n > 0 {
			p.Skip = n
		}
	}

	return p
}

// TaskRepository scopes every lookup and mutation to the owning user in a
// single statement. A task that exists but belongs to someone else is
// indistinguishable from one that does not exist.
type TaskRepository interface {
	Create(task *model.Task) error
	ByID(userID, taskID string) (*model.Task, error)
	Tasks(userID string, params TaskListParams) ([]*model.Task, error)
	Update(task *model.Task) error
	Delete(userID, taskID string) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	query := `INSERT INTO tasks (id, user_id, description, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		task.ID,
		task.UserID,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)

	return err
}

func (r *taskRepository) ByID(userID, taskID string) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT * FROM tasks WHERE id = $1 AND user_id = $2`

	err := r.db.Get(task, query, taskID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

// noLimit stands in for "no cap" when a skip is requested without a limit.
// SQLite requires a LIMIT clause before OFFSET and Postgres rejects a
// negative one, so the largest value both engines accept is used instead of
// SQLite's -1 shorthand.
const noLimit int64 = math.MaxInt64

func buildTaskListQuery(userID string, params TaskListParams) (string, []any) {
	query := `SELECT * FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if params.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", len(args)+1)
		args = append(args, *params.Completed)
	}

	// Only whitelisted columns reach OrderBy, so string concatenation is safe
	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	direction := "ASC"
	if params.Desc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, direction)

	if params.Limit > 0 || params.Skip > 0 {
		limit := int64(params.Limit)
		if limit <= 0 {
			limit = noLimit
		}
		query += fmt.Sprintf(" LIMIT %d", limit)
		if params.Skip > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Skip)
		}
	}

	return query, args
}

func (r *taskRepository) Tasks(userID string, params TaskListParams) ([]*model.Task, error) {
	query, args := buildTaskListQuery(userID, params)

	var tasks []*model.Task
	err := r.db.Select(&tasks, query, args...)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) Update(task *model.Task) error {
	query := `UPDATE tasks
	          SET description = $1, completed = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query,
		task.Description,
		task.Completed,
		time.Now(),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) Delete(userID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, taskID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}
