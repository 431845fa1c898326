package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Cron wraps robfig/cron around a Refresher. The freshness gate lives
// in Refresh itself, so an aggressive spec just means cheap skips.
type Cron struct {
	cron      *cron.Cron
	refresher *Refresher
	spec      string // e.g. "@every 24h"
}

func NewCron(r *Refresher, spec string) *Cron {
	return &Cron{
		cron:      cron.New(),
		refresher: r,
		spec:      spec,
	}
}

// Start registers the job and starts the loop. Also kicks one cycle
// immediately so a cold start doesn't wait for the first tick.
func (c *Cron) Start(ctx context.Context) error {
	_, err := c.cron.AddFunc(c.spec, func() {
		c.refresher.Refresh(ctx, false)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	c.cron.Start()
	log.Printf("[scheduler] cron started, spec %s", c.spec)

	go c.refresher.Refresh(ctx, false)
	return nil
}

func (c *Cron) Stop() {
	c.cron.Stop()
	log.Printf("[scheduler] cron stopped")
}
