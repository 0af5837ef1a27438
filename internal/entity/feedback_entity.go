package entity

import "time"

// SharedUsername is the bookmark owner used for key questions shown to every user of an app
const SharedUsername = "ALL"

type Bookmark struct {
	Id        int64
	AppId     int
	Username  string
	Question  string
	Lang      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsShared reports whether the bookmark belongs to the shared key-question pool
func (b *Bookmark) IsShared() bool {
	return b.Username == SharedUsername
}

type Vote struct {
	Id           int64
	Username     string
	QuestionText string
	ModelRef     string
	Value        int
	CreatedAt    time.Time
}
