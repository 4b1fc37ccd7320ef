package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshResult tracks per-outcome counters for one refresh pass.
type RefreshResult struct {
	Listed       int
	Fetched      int
	FromSnapshot int
	Failed       int
	Warnings     []string
}

// RefreshAll invalidates the cache, re-lists the folder, and prefetches every
// file so the next dashboard request serves warm data. It has no HTTP-handler
// dependency so the scheduler and a future admin endpoint can both call it.
func RefreshAll(src *DataSource) RefreshResult {
	src.Invalidate()

	var result RefreshResult
	names, warning := src.Files()
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.Listed = len(names)

	for _, name := range names {
		ds := src.Dataset(name)
		switch {
		case ds.FromSnapshot:
			result.FromSnapshot++
		case ds.Table.Empty():
			result.Failed++
		default:
			result.Fetched++
		}
		if ds.Warning != "" {
			result.Warnings = append(result.Warnings, ds.Warning)
		}
	}
	return result
}

// FormatRefreshSummary returns a human-readable summary of a RefreshResult.
func FormatRefreshSummary(result RefreshResult) string {
	if result.Listed == 0 {
		msg := "No CSV files listed"
		if len(result.Warnings) > 0 {
			msg += fmt.Sprintf(" (%s)", strings.Join(result.Warnings, "; "))
		}
		return msg
	}

	parts := []string{fmt.Sprintf("%d fetched", result.Fetched)}
	if result.FromSnapshot > 0 {
		parts = append(parts, fmt.Sprintf("%d from snapshot", result.FromSnapshot))
	}
	if result.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", result.Failed))
	}
	msg := fmt.Sprintf("Refreshed %d files: %s", result.Listed, strings.Join(parts, ", "))
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\nWarnings:\n%s", strings.Join(result.Warnings, "\n"))
	}
	return msg
}

// StartRefreshScheduler starts a cron-based scheduler that periodically
// invalidates the cache and prefetches the folder.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 6 * * *" (daily 6am), "*/30 * * * *" (every 30 minutes).
func StartRefreshScheduler(cfg Config, src *DataSource) {
	schedule := strings.TrimSpace(cfg.RefreshSchedule)
	if schedule == "" {
		log.Println("Auto-refresh disabled (refresh_schedule not set); cached data is kept until restart or TTL expiry")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid refresh_schedule '%s': %v — auto-refresh disabled", schedule, err)
		return
	}

	log.Printf("Auto-refresh scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next refresh at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			result := RefreshAll(src)
			log.Printf("Refresh complete: %s", FormatRefreshSummary(result))
		}
	}()
}
