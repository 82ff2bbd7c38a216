package memory

import (
	"context"

	"notice/internal/core/application/usecases/queries"
)

// GetMessageOrdersQueryHandler serves the order read model from the store.
type GetMessageOrdersQueryHandler struct {
	store *Store
}

func NewGetMessageOrdersQueryHandler(store *Store) GetMessageOrdersQueryHandler {
	return GetMessageOrdersQueryHandler{store: store}
}

func (h GetMessageOrdersQueryHandler) Handle(
	ctx context.Context,
	query queries.GetMessageOrdersQuery,
) ([]queries.GetMessageOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	rows := h.store.orderRows(query.Status(), query.Limit())
	result := make([]queries.GetMessageOrdersQueryResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, queries.GetMessageOrdersQueryResponse{
			ID:            row.order.ID(),
			Name:          row.order.Name(),
			Status:        row.order.Status(),
			CreatedAt:     row.order.CreatedAt(),
			SendTime:      row.order.SendTime(),
			ItemsTotal:    row.itemsTotal,
			ItemsFinished: row.finished,
			ItemsFailed:   row.failed,
		})
	}
	return result, nil
}
