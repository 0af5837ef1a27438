package entity

import (
	"encoding/json"
	"time"
)

// UsageLog is one completed analyst turn
type UsageLog struct {
	Id               int64
	Timestamp        time.Time
	Username         string
	AppId            int
	AppName          string
	ModelRef         string
	InputText        string
	OutputJson       json.RawMessage
	ElapsedTimeMs    int64
	ResolutionTimeMs int64
}

// QuestionCount is one row of the popular questions ranking
type QuestionCount struct {
	InputText string
	Count     int64
}
