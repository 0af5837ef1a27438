package dto

import "time"

// RunRequest is one interaction of the front-end. Only the fields relevant to Action are read.
type RunRequest struct {
	Action       string `json:"action" validate:"required,oneof=render ask suggestion key_question popular_question bookmark_question select_model clear_history add_bookmark vote begin_edit_bookmark draft_bookmark cancel_edit_bookmark save_bookmark delete_bookmark"`
	Prompt       string `json:"prompt"`
	Text         string `json:"text"`
	ModelId      int    `json:"model_id" validate:"min=0"`
	BookmarkId   int64  `json:"bookmark_id" validate:"min=0"`
	MessageIndex int    `json:"message_index" validate:"min=0"`
	Value        int    `json:"value" validate:"omitempty,oneof=1 -1"`
	Lang         string `json:"lang" validate:"max=8"`
}

type AppResponse struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	LogoUrl string `json:"logo_url"`
	Url     string `json:"url"`
}

type BookmarkResponse struct {
	Id        int64     `json:"id"`
	Question  string    `json:"question"`
	Lang      string    `json:"lang"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuestionsResponse struct {
	Questions []string `json:"questions"`
}
