// Package logsink is a notification sender that only records requests in the
// structured log. It is used when no Kafka brokers are configured.
package logsink

import (
	"context"
	"log/slog"

	"notice/internal/core/domain/model/notice"
)

type NoticeSender struct {
	logger *slog.Logger
}

func NewNoticeSender(logger *slog.Logger) *NoticeSender {
	return &NoticeSender{logger: logger.With("component", "log_notice_sender")}
}

func (s *NoticeSender) Send(ctx context.Context, request notice.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Notice",
		"order_id", request.OrderID.String(),
		"order_name", request.OrderName,
		"order_status", request.OrderStatus,
		"event", string(request.Event),
		"recipients", request.Recipients,
		"subject", request.Subject,
		"return_sum", request.Params.ReturnSum,
		"resources_sum", request.Params.ResourcesSum,
		"top_tasks", len(request.Params.TopTasks),
	)
	return nil
}

func (s *NoticeSender) Close() error { return nil }
