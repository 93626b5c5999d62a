/*
sweeper.go - Automated deadline sweep scheduler

PURPOSE:
  Periodically recomputes the urgent-deadline ranking across all
  projects and persists the resulting notifications. Because alert ids
  derive from (project, sweep date), running the sweep twice in one day
  inserts nothing new - the sweep is safely re-entrant.

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 24 hours)
  - Enabled: Whether the sweeper is active (default: true)

USAGE:
  sweeper := NewDeadlineSweeper(handler)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: Sweep (shared with the manual /api/admin/sweep endpoint)
  - engine/alerts.go: RankUrgent
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// DeadlineSweeper handles the periodic deadline sweep.
type DeadlineSweeper struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewDeadlineSweeper creates a new sweeper.
func NewDeadlineSweeper(handler *Handler) *DeadlineSweeper {
	return &DeadlineSweeper{
		Handler:       handler,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweeper.
func (ds *DeadlineSweeper) Start() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.Enabled {
		log.Println("[Sweeper] Disabled, not starting")
		return
	}

	ds.ticker = time.NewTicker(ds.CheckInterval)
	ds.wg.Add(1)

	go ds.run()

	log.Printf("[Sweeper] Started with check interval: %v", ds.CheckInterval)
}

// Stop stops the sweeper.
func (ds *DeadlineSweeper) Stop() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.ticker != nil {
		ds.ticker.Stop()
		close(ds.stop)
		ds.wg.Wait()
		log.Println("[Sweeper] Stopped")
	}
}

func (ds *DeadlineSweeper) run() {
	defer ds.wg.Done()

	// Run immediately on start
	ds.sweep()

	for {
		select {
		case <-ds.ticker.C:
			ds.sweep()
		case <-ds.stop:
			return
		}
	}
}

func (ds *DeadlineSweeper) sweep() {
	ctx := context.Background()

	result, err := ds.Handler.Sweep(ctx)
	if err != nil {
		log.Printf("[Sweeper] Sweep failed: %v", err)
		return
	}

	if result.Alerts > 0 {
		log.Printf("[Sweeper] %s: %d alerts, %d new notifications",
			result.SweepDate, result.Alerts, result.Inserted)
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (ds *DeadlineSweeper) RunNow() {
	ds.sweep()
}
