package model

import "time"

type Bookmark struct {
	Id        int64     `gorm:"column:bk_id;primaryKey;autoIncrement"`
	AppId     int       `gorm:"column:app_id;not null;index"`
	Username  string    `gorm:"column:bk_username;type:varchar(200);not null;index"`
	Question  string    `gorm:"column:bk_question;type:text;not null"`
	Lang      string    `gorm:"column:bk_lang;type:varchar(8)"`
	CreatedAt time.Time `gorm:"column:bk_created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:bk_updated_at;autoUpdateTime;index"`
}

func (Bookmark) TableName() string {
	return "cortex_bookmarks"
}

type Vote struct {
	Id           int64     `gorm:"column:vote_id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:vote_username;type:varchar(200);not null;index"`
	QuestionText string    `gorm:"column:question_text;type:text;not null"`
	YamlFile     string    `gorm:"column:yaml_file;type:varchar(500);not null"`
	Value        int       `gorm:"column:vote_value;not null"`
	CreatedAt    time.Time `gorm:"column:vote_timestamp;autoCreateTime"`
}

func (Vote) TableName() string {
	return "cortex_votes"
}
