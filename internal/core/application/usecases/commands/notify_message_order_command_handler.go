package commands

import (
	"context"
	"fmt"
	"log/slog"

	"notice/internal/core/domain/model/notice"
	"notice/internal/core/ports"
	"notice/internal/metrics"
)

// DefaultNoticeTopTasks is how many tasks a notification lists when no
// other value is configured.
const DefaultNoticeTopTasks = 10

// NotifyMessageOrderCommandHandler builds the notification request for a
// terminal order and hands it to the sender. A failed aggregate read does not
// block the notification: the request goes out with what could be read.
// Delivery is attempted once.
type NotifyMessageOrderCommandHandler struct {
	uowFactory NoticeUoWFactory
	sender     ports.NoticeSender
	topN       int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewNotifyMessageOrderCommandHandler(
	uowFactory NoticeUoWFactory,
	sender ports.NoticeSender,
	topN int,
	m *metrics.Metrics,
	logger *slog.Logger,
) NotifyMessageOrderCommandHandler {
	if topN <= 0 {
		topN = DefaultNoticeTopTasks
	}

	return NotifyMessageOrderCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		topN:       topN,
		metrics:    m,
		logger:     logger.With("component", "notification_trigger"),
	}
}

func (h NotifyMessageOrderCommandHandler) Handle(ctx context.Context, cmd NotifyMessageOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	order := cmd.Order()

	summary, err := h.uowFactory.Create().NoticeSummaryRepository().Summarize(ctx, order.ID(), h.topN)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to read notification aggregates, sending without them",
			"order_id", order.ID().String(),
			"error", err,
		)
		summary = notice.Summary{}
	}

	request, err := notice.NewRequest(order, summary)
	if err != nil {
		return err
	}

	if err = h.sender.Send(ctx, request); err != nil {
		h.metrics.NoticesSent.WithLabelValues(string(request.Event), "error").Inc()
		return fmt.Errorf("send notification for order %s: %w", order.ID(), err)
	}

	h.metrics.NoticesSent.WithLabelValues(string(request.Event), "ok").Inc()
	h.logger.InfoContext(ctx, "Notification sent",
		"order_id", order.ID().String(),
		"event", string(request.Event),
		"top_tasks", len(request.Params.TopTasks),
	)
	return nil
}
