package queries

import (
	"context"
	"database/sql"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMessageOrdersQueryHandler reads order summaries straight from PostgreSQL.
type GetMessageOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetMessageOrdersQueryHandler(db *gorm.DB) GetMessageOrdersQueryHandler {
	return GetMessageOrdersQueryHandler{db: db}
}

func (h GetMessageOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetMessageOrdersQuery,
) ([]GetMessageOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var status string
	if s := query.Status(); s != nil {
		status = s.String()
	}

	orders := make([]GetMessageOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.name,
			o.status,
			o.created_at,
			o.send_time,
			COUNT(i.id),
			COUNT(i.id) FILTER (WHERE i.status = ?),
			COUNT(i.id) FILTER (WHERE i.status = ?)
		FROM message_orders o
		LEFT JOIN message_order_items i ON i.order_id = o.id
		WHERE (? = '' OR o.status = ?)
		GROUP BY o.id
		ORDER BY o.created_at, o.id
		LIMIT ?
	`,
		messageorder.Finished.String(),
		messageorder.Error.String(),
		status, status,
		query.Limit(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetMessageOrdersQueryResponse
		var id uuid.UUID
		var rawStatus string
		var sendTime sql.NullTime

		err = rows.Scan(
			&id,
			&resp.Name,
			&rawStatus,
			&resp.CreatedAt,
			&sendTime,
			&resp.ItemsTotal,
			&resp.ItemsFinished,
			&resp.ItemsFailed,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		resp.Status, err = messageorder.ParseStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		if sendTime.Valid {
			t := sendTime.Time.UTC()
			resp.SendTime = &t
		}
		resp.CreatedAt = resp.CreatedAt.UTC()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
