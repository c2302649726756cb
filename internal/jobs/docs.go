// Package jobs runs the relay's scheduled background work on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. OutboxRelayJob publishes committed change feed messages (every second by default)
//  2. OutboxPurgeJob removes published messages past their retention (hourly)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(outboxRepo, publisher, jobs.Config{}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Both jobs skip a tick while the previous run is still going, so a slow
// broker never causes the same message to be published twice concurrently.
package jobs
