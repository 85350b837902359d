/*
scheduler.go - Automated holiday-calendar maintenance

PURPOSE:
  Periodically makes sure the public-holiday calendar has rows for the
  current and the upcoming year, so day classification never runs against
  an empty calendar after a year rollover.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Generation skips dates that already have rows, so repeated runs are
    harmless and manual edits survive
  - The upcoming year is generated ahead of time because absences are
    routinely requested months in advance

CONFIGURATION:
  - CheckInterval: How often to check (default: 24 hours)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewCalendarScheduler(handler, canton)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - engine/holidaygen.go: GenerateYear semantics
  - handlers.go: GenerateHolidays (manual trigger)
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CalendarScheduler keeps the holiday calendar populated.
type CalendarScheduler struct {
	Handler       *Handler
	Canton        string
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCalendarScheduler creates a new scheduler.
func NewCalendarScheduler(handler *Handler, canton string) *CalendarScheduler {
	return &CalendarScheduler{
		Handler:       handler,
		Canton:        canton,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (cs *CalendarScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		logrus.Info("calendar scheduler disabled, not starting")
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.wg.Add(1)

	go cs.run()

	logrus.WithField("interval", cs.CheckInterval).Info("calendar scheduler started")
}

// Stop stops the scheduler.
func (cs *CalendarScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		logrus.Info("calendar scheduler stopped")
	}
}

func (cs *CalendarScheduler) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.ensureCalendars()

	for {
		select {
		case <-cs.ticker.C:
			cs.ensureCalendars()
		case <-cs.stop:
			return
		}
	}
}

func (cs *CalendarScheduler) ensureCalendars() {
	ctx := context.Background()
	year := time.Now().Year()

	for _, y := range []int{year, year + 1} {
		created, err := cs.Handler.Calendar.GenerateYear(ctx, y, cs.Canton)
		if err != nil {
			logrus.WithError(err).WithField("year", y).Error("holiday calendar generation failed")
			continue
		}
		if len(created) > 0 {
			logrus.WithFields(logrus.Fields{
				"year":    y,
				"created": len(created),
			}).Info("holiday calendar populated")
		}
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (cs *CalendarScheduler) RunNow() {
	cs.ensureCalendars()
}

// GetNextRunTime returns when the next scheduled check will occur.
func (cs *CalendarScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}
