package controllers

import (
	"context"

	"proxpeek/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActionLogTask stores every toggle outcome in the actions table.
type ActionLogTask struct {
	name    string
	db      *gorm.DB
	manager *Manager
}

func NewActionLog(name string) *ActionLogTask {
	return &ActionLogTask{name: name}
}

func (t *ActionLogTask) Setup(db *gorm.DB, manager *Manager) {
	t.db = db
	t.manager = manager
}

func (t *ActionLogTask) Main(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case action := <-t.manager.Actions():
			t.save(action)
		}
	}
}

func (t *ActionLogTask) save(action models.Action) {
	if t.db == nil {
		return
	}
	if err := t.db.Create(&action).Error; err != nil {
		log.Errorf("Failed to save action for %s: %v", action.ResourceID, err)
	}
}

func (t *ActionLogTask) String() string {
	return t.name
}
