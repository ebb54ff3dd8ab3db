package models

import (
	"fmt"

	"proxpeek/config"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Setting is one persisted key/value pair of the settings store.
type Setting struct {
	BaseModel
	Key   string `json:"key" gorm:"uniqueIndex;size:64"`
	Value string `json:"value"`
}

// SettingStore keeps config.Settings in the settings table.
type SettingStore struct {
	db *gorm.DB
}

func NewSettingStore(db *gorm.DB) *SettingStore {
	return &SettingStore{db: db}
}

// Load reads every known key. Missing rows are empty strings.
func (s *SettingStore) Load() (config.Settings, error) {
	var rows []Setting
	if err := s.db.Find(&rows).Error; err != nil {
		return config.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return config.SettingsFromMap(values), nil
}

// Save upserts all four keys in a single transaction.
func (s *SettingStore) Save(settings config.Settings) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range settings.Map() {
			row := Setting{Key: key, Value: value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// Reset deletes every stored setting.
func (s *SettingStore) Reset() error {
	if err := s.db.Where("1 = 1").Delete(&Setting{}).Error; err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}

var _ config.Store = (*SettingStore)(nil)
