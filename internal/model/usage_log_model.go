package model

import (
	"time"

	"gorm.io/datatypes"
)

type UsageLog struct {
	Id             int64          `gorm:"column:log_id;primaryKey;autoIncrement"`
	DateTime       time.Time      `gorm:"column:date_time;not null;index"`
	Username       string         `gorm:"column:username;type:varchar(200);not null"`
	AppName        string         `gorm:"column:app_name;type:varchar(200)"`
	AppId          int            `gorm:"column:app_id;not null;index"`
	YamlFile       string         `gorm:"column:yaml_file;type:varchar(500)"`
	InputText      string         `gorm:"column:input_text;type:text;not null"`
	OutputJson     datatypes.JSON `gorm:"column:output_json"`
	ElapsedTime    int64          `gorm:"column:elapsed_time;not null"`
	ResolutionTime int64          `gorm:"column:resolution_time;not null"`
}

func (UsageLog) TableName() string {
	return "cortex_logs"
}
