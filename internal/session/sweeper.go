package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartSweeper evicts idle sessions on schedule (cron spec or "@every 5m").
// Stop the returned cron to end it.
func StartSweeper(r *Registry, schedule string, idle time.Duration, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := r.Sweep(idle); n > 0 {
			log.Info("idle sessions evicted", zap.Int("count", n), zap.Int("active", r.Len()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
