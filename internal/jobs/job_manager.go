package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	noticeDispatchJob *NoticeDispatchJob
}

// NewJobManager wires the scheduled jobs to their handlers.
func NewJobManager(dispatcher Dispatcher, dispatchSchedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		noticeDispatchJob: NewNoticeDispatchJob(dispatcher, dispatchSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.noticeDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start notice dispatch job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running ticks.
func (jm *JobManager) StopAll() {
	jm.noticeDispatchJob.Stop()
}
