package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

const DefaultSchedule = "0 */6 * * *" // every 6 hours

// Job is one pipeline pass. *pipeline.Pipeline satisfies it.
type Job interface {
	Run(ctx context.Context)
}

// Run executes job immediately, then repeats it on schedule until ctx is
// cancelled. An overlapping tick is skipped rather than queued.
func Run(ctx context.Context, job Job, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { job.Run(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	log.Println("Running initial pipeline...")
	job.Run(ctx)

	c.Start()
	log.Printf("Scheduler started with schedule: %s", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
