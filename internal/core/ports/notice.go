package ports

import (
	"context"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/notice"
)

// NoticeSummaryRepository runs the read-only aggregate queries behind a notification.
type NoticeSummaryRepository interface {
	// Summarize returns the topN tasks of the order by findings, the total
	// findings and the total scanned resources across all its tasks.
	Summarize(ctx context.Context, orderID kernel.UUID, topN int) (notice.Summary, error)
}

// NoticeSender hands a request to the notification transport. Delivery is
// fire-and-forget from the caller's point of view; an error only means the
// request could not be handed over.
type NoticeSender interface {
	Send(ctx context.Context, request notice.Request) error
}
