package models

import "time"

// BaseModel holds the columns shared by every table.
type BaseModel struct {
	ID        uint      `gorm:"primary_key" json:"id" example:"1"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-21T16:33:51.147843-03:00"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-05-21T15:00:49.117789-03:00"`
}

// PowerAction is the status transition requested from Proxmox.
type PowerAction string

const (
	ActionStart PowerAction = "start"
	ActionStop  PowerAction = "stop"
)

// ActionFor picks stop for a running guest and start for anything else.
func ActionFor(currentStatus string) PowerAction {
	if currentStatus == StatusRunning {
		return ActionStop
	}
	return ActionStart
}

// ResultingStatus is the status assumed once the action succeeded.
func (a PowerAction) ResultingStatus() string {
	if a == ActionStop {
		return StatusStopped
	}
	return StatusRunning
}

// PastTense is used in log lines ("stopped lxc successfully").
func (a PowerAction) PastTense() string {
	if a == ActionStop {
		return "stopped"
	}
	return "started"
}

// Action records one toggle request and its outcome.
type Action struct {
	BaseModel
	VMID       int          `json:"vmid" gorm:"column:vmid;index"`
	ResourceID string       `json:"resource_id"`
	Type       ResourceType `json:"type"`
	Action     PowerAction  `json:"action"`
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Time       time.Time    `json:"time" gorm:"index"`
}
