package outbox

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dropmart/dropmart-golang/internal/models"
)

// IRepo owns the shipment_tasks outbox table. Task rows are INSERTed by
// the order-creation handler inside the order's own transaction; this repo
// covers everything after that commit.
type IRepo interface {
	GetPendingTasks(ctx context.Context, limit int) ([]models.ShipmentTask, error)
	MarkCompleted(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, id int64) error
	IncrementAttempts(ctx context.Context, id int64) (int, error)
}

func NewRepo(db *sqlx.DB) IRepo {
	return &repo{db: db}
}

type repo struct {
	db *sqlx.DB
}

var getPendingTasksQuery = "SELECT * FROM shipment_tasks WHERE status = ? ORDER BY id LIMIT ?"

func (r *repo) GetPendingTasks(ctx context.Context, limit int) ([]models.ShipmentTask, error) {
	var res []models.ShipmentTask
	err := r.db.SelectContext(ctx, &res, getPendingTasksQuery, models.TaskPending, limit)
	return res, err
}

var markCompletedQuery = "UPDATE shipment_tasks SET status = ? WHERE id IN (?)"

func (r *repo) MarkCompleted(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(markCompletedQuery, models.TaskCompleted, ids)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

var markFailedQuery = "UPDATE shipment_tasks SET status = ? WHERE id = ?"

func (r *repo) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, markFailedQuery, models.TaskFailed, id)
	return err
}

var incrementAttemptsQuery = "UPDATE shipment_tasks SET attempts = attempts + 1 WHERE id = ?"
var getAttemptsQuery = "SELECT attempts FROM shipment_tasks WHERE id = ?"

// IncrementAttempts bumps the attempt counter and returns the new value.
func (r *repo) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	if _, err := r.db.ExecContext(ctx, incrementAttemptsQuery, id); err != nil {
		return 0, err
	}

	var attempts int
	err := r.db.GetContext(ctx, &attempts, getAttemptsQuery, id)
	return attempts, err
}
