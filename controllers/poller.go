package controllers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PollerTask refreshes the guest list once at start and then on every tick.
// A zero interval only performs the initial refresh.
type PollerTask struct {
	name     string
	interval time.Duration
	manager  *Manager
}

func NewPoller(name string, interval time.Duration) *PollerTask {
	return &PollerTask{name: name, interval: interval}
}

func (t *PollerTask) Setup(db *gorm.DB, manager *Manager) {
	t.manager = manager
}

func (t *PollerTask) Main(ctx context.Context) {
	t.poll(ctx)
	if t.interval <= 0 {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.poll(ctx)
		case <-ctx.Done():
			log.Infof("Task %s is stopping", t.name)
			return
		}
	}
}

// poll waits for the refresh so slow responses do not pile up.
func (t *PollerTask) poll(ctx context.Context) {
	if !t.manager.AppReady() {
		log.Debugf("Task %s skipped: settings incomplete", t.name)
		return
	}
	if err := t.manager.Refresh().Wait(ctx); err != nil {
		log.Debugf("Task %s refresh failed: %v", t.name, err)
	}
}

func (t *PollerTask) String() string {
	return t.name
}
