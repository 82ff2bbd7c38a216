// Package taskrepo reads tasks written by the execution subsystem.
package taskrepo

import (
	"context"
	"errors"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/task"
	"notice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskDTO is a row of tasks. Status is compared case-insensitively when
// mapped back to the domain.
type TaskDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Status       string `gorm:"type:varchar(16)"`
	ReturnSum    int
	ResourcesSum int
}

func (TaskDTO) TableName() string {
	return "tasks"
}

type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", id.String())
		}
		return nil, err
	}

	return task.RestoreTask(id, dto.Name, task.ParseStatus(dto.Status), dto.ReturnSum, dto.ResourcesSum)
}
