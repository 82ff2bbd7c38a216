// Package jobs provides scheduled background tasks for the notice service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// NoticeDispatchJob runs one dispatcher tick per schedule firing. The tick
// lists PROCESSING message orders that are not already claimed and hands them
// to the worker pool. Ticks never overlap: a firing that finds the previous
// tick still running is skipped.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatchHandler, "*/5 * * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed tick is logged and the schedule keeps running. Orders that were not
// reached are picked up by the next tick.
package jobs
