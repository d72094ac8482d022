package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/soaringjerry/Mindtrack/internal/logging"
	"github.com/soaringjerry/Mindtrack/internal/services"
)

const sweepTimeout = 30 * time.Second

// startSweeper runs the reminder sweep on spec in loc. A sweep still running
// when the next tick arrives makes that tick a no-op.
func startSweeper(spec string, loc *time.Location, reminders *services.ReminderService, log *logging.ZapLogger) (*cron.Cron, error) {
	cl := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		due, err := reminders.Sweep(ctx)
		if err != nil {
			log.Errorf("reminder sweep: %v", err)
			return
		}
		if len(due) > 0 {
			log.Infof("reminder sweep: %d reminders due", len(due))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reminder sweep %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
