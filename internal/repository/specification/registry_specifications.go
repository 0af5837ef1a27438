package specification

import "gorm.io/gorm"

// ByAppID filters any cortex table by its app_id column
type ByAppID struct {
	AppID int
}

func (s ByAppID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("app_id = ?", s.AppID)
}

// ActiveApps keeps registry rows flagged active
type ActiveApps struct{}

func (s ActiveApps) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("app_active = ?", true)
}

// ActiveModels keeps semantic model rows flagged active
type ActiveModels struct{}

func (s ActiveModels) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cortex_yaml_active = ?", true)
}
