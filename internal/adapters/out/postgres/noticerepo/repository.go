// Package noticerepo runs the aggregate queries that feed a notification.
package noticerepo

import (
	"context"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/notice"
	"notice/internal/core/domain/model/task"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormNoticeSummaryRepository struct {
	db *gorm.DB
}

func NewGormNoticeSummaryRepository(db *gorm.DB) *GormNoticeSummaryRepository {
	return &GormNoticeSummaryRepository{db: db}
}

// Summarize reads the topN tasks of the order by findings and the totals over
// all of its tasks. Items whose task is missing are ignored.
func (r *GormNoticeSummaryRepository) Summarize(ctx context.Context, orderID kernel.UUID, topN int) (notice.Summary, error) {
	if err := orderID.Validate(); err != nil {
		return notice.Summary{}, err
	}

	db := r.db.WithContext(ctx)
	summary := notice.Summary{TopTasks: []notice.TaskSummary{}}

	err := db.Raw(`
		SELECT
			COALESCE(SUM(t.return_sum), 0),
			COALESCE(SUM(t.resources_sum), 0)
		FROM message_order_items i
		JOIN tasks t ON t.id = i.task_id
		WHERE i.order_id = ?
	`, orderID.Bytes()).Row().Scan(&summary.ReturnSum, &summary.ResourcesSum)
	if err != nil {
		return notice.Summary{}, err
	}

	if topN <= 0 {
		return summary, nil
	}

	rows, err := db.Raw(`
		SELECT
			t.id,
			t.name,
			t.status,
			t.return_sum,
			t.resources_sum
		FROM message_order_items i
		JOIN tasks t ON t.id = i.task_id
		WHERE i.order_id = ?
		ORDER BY t.return_sum DESC, t.name
		LIMIT ?
	`, orderID.Bytes(), topN).Rows()
	if err != nil {
		return notice.Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			status string
			ts     notice.TaskSummary
		)
		if err = rows.Scan(&id, &ts.Name, &status, &ts.ReturnSum, &ts.ResourcesSum); err != nil {
			return notice.Summary{}, err
		}

		taskID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return notice.Summary{}, idErr
		}
		ts.ID = taskID
		ts.Status = task.ParseStatus(status).String()

		summary.TopTasks = append(summary.TopTasks, ts)
	}

	if err = rows.Err(); err != nil {
		return notice.Summary{}, err
	}

	return summary, nil
}
