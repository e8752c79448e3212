package scanner

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/goalraiders/goalraiders/internal/notify"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// DaemonOpts holds configuration for the scanner daemon.
type DaemonOpts struct {
	Schedule string // 5-field cron expression, e.g. "0 0 * * *"
	Notifier notify.Notifier
	Out      io.Writer
}

// RunDaemon scans once immediately, then on every fire of the configured
// cron schedule, until ctx is cancelled. Scan errors are logged and the
// daemon keeps running; only an invalid schedule is fatal.
func RunDaemon(ctx context.Context, db *gorm.DB, opts DaemonOpts) error {
	if db == nil {
		return fmt.Errorf("scanner: db is required")
	}
	if opts.Schedule == "" {
		opts.Schedule = "0 0 * * *"
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return fmt.Errorf("scanner: parse schedule %q: %w", opts.Schedule, err)
	}

	fmt.Fprintf(opts.Out, "Recurrence scanner starting (schedule %q)...\n", opts.Schedule)

	scan := func(now time.Time) {
		n, err := ScanOnce(ctx, db, now, opts.Notifier, opts.Out)
		if err != nil {
			log.Printf("scanner: scan error: %v", err)
			return
		}
		if n > 0 {
			fmt.Fprintf(opts.Out, "Scan reopened %d task(s)\n", n)
		}
	}

	scan(time.Now())

	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			fmt.Fprintf(opts.Out, "Recurrence scanner stopped.\n")
			return nil
		case now := <-timer.C:
			scan(now)
		}
	}
}
