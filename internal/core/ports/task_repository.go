package ports

import (
	"context"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/task"
)

// TaskRepository reads tasks owned by the execution subsystem.
type TaskRepository interface {
	// Get returns the task or an errs.ErrObjectNotFound error when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*task.Task, error)
}
