package specification

import "gorm.io/gorm"

type ByBookmarkID struct {
	ID int64
}

func (s ByBookmarkID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bk_id = ?", s.ID)
}

// BookmarkOwnedBy restricts bookmarks to one username (or the shared "ALL" pool)
type BookmarkOwnedBy struct {
	Username string
}

func (s BookmarkOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bk_username = ?", s.Username)
}

// ByQuestion matches a bookmark by its exact question text
type ByQuestion struct {
	Question string
}

func (s ByQuestion) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bk_question = ?", s.Question)
}

// MostRecentlyUpdated orders bookmarks newest first, id breaking ties
type MostRecentlyUpdated struct{}

func (s MostRecentlyUpdated) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("bk_updated_at DESC").Order("bk_id DESC")
}

type VotedBy struct {
	Username string
}

func (s VotedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vote_username = ?", s.Username)
}
