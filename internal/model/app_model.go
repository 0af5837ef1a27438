package model

type App struct {
	Id         int    `gorm:"column:app_id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:app_name;type:varchar(200);not null"`
	LogoUrl    string `gorm:"column:app_logo_url;type:text"`
	Url        string `gorm:"column:app_url;type:varchar(200)"`
	Active     bool   `gorm:"column:app_active;not null;index"`
	AccessRole string `gorm:"column:app_access_role;type:varchar(100)"`
	Database   string `gorm:"column:app_database;type:varchar(200);not null"`
	Schema     string `gorm:"column:app_schema;type:varchar(200);not null"`
	Stage      string `gorm:"column:app_stage;type:varchar(200);not null"`
}

func (App) TableName() string {
	return "cortex_apps"
}

type SemanticModel struct {
	Id     int    `gorm:"column:model_id;primaryKey;autoIncrement"`
	AppId  int    `gorm:"column:app_id;not null;index"`
	Name   string `gorm:"column:cortex_yaml_name;type:varchar(200);not null"`
	File   string `gorm:"column:cortex_yaml_file;type:varchar(500);not null"`
	Active bool   `gorm:"column:cortex_yaml_active;not null;index"`
}

func (SemanticModel) TableName() string {
	return "cortex_models"
}
