package filters

import (
	"time"

	"gorm.io/gorm"
)

// ActionFilter narrows the toggle history.
type ActionFilter struct {
	VMIDs           []int      `form:"vmids" json:"vmids"`
	Type            string     `form:"type" json:"type"`
	InitialDatetime *time.Time `form:"initial_datetime" json:"initial_datetime" time_format:"2006-01-02T15:04:05Z07:00"`
	FinalDatetime   *time.Time `form:"final_datetime" json:"final_datetime" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (filter *ActionFilter) Filter(query *gorm.DB) *gorm.DB {
	if len(filter.VMIDs) > 0 {
		query = query.Where("vmid IN ?", filter.VMIDs)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.InitialDatetime != nil {
		query = query.Where("time >= ?", *filter.InitialDatetime)
	}
	if filter.FinalDatetime != nil {
		query = query.Where("time <= ?", *filter.FinalDatetime)
	}
	return query
}
