package jobs

import (
	"context"
	"errors"
	"log/slog"

	"notice/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultNoticeDispatchSchedule fires a dispatcher tick every five seconds.
const DefaultNoticeDispatchSchedule = "*/5 * * * * *"

// Dispatcher runs one tick of the message order dispatcher.
type Dispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchMessageOrdersCommand) (commands.DispatchResult, error)
}

// NoticeDispatchJob triggers the dispatcher on a cron schedule. A tick that
// is still running when the next one is due makes the scheduler skip it.
type NoticeDispatchJob struct {
	handler  Dispatcher
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewNoticeDispatchJob(handler Dispatcher, schedule string, logger *slog.Logger) *NoticeDispatchJob {
	logger = logger.With("component", "notice_dispatch_job")
	if schedule == "" {
		schedule = DefaultNoticeDispatchSchedule
	}

	return &NoticeDispatchJob{
		handler:  handler,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(
				cron.Recover(cronLogger{logger}),
				cron.SkipIfStillRunning(cronLogger{logger}),
			),
		),
		logger: logger,
	}
}

func (j *NoticeDispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notice dispatch job started", "schedule", j.schedule)
	return nil
}

// Stop halts the schedule and waits for a running tick to return.
func (j *NoticeDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notice dispatch job stopped")
}

func (j *NoticeDispatchJob) tick() {
	ctx := context.Background()

	result, err := j.handler.Handle(ctx, commands.NewDispatchMessageOrdersCommand())
	if errors.Is(err, commands.ErrDispatchTickInProgress) {
		j.logger.DebugContext(ctx, "Notice dispatch tick skipped, manual tick in progress")
		return
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Notice dispatch tick failed", "error", err)
		return
	}

	if result.Listed > 0 {
		j.logger.DebugContext(ctx, "Notice dispatch tick",
			"listed", result.Listed,
			"submitted", result.Submitted,
			"contended", result.Contended,
			"saturated", result.Saturated,
		)
	}
}

// cronLogger routes scheduler diagnostics into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
