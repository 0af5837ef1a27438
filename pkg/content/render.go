package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ElementRole names the interactive element a key is generated for
type ElementRole string

const (
	ElementSuggestion      ElementRole = "suggestion"
	ElementBookmark        ElementRole = "add_bookmark"
	ElementVoteUp          ElementRole = "like"
	ElementVoteDown        ElementRole = "dislike"
	ElementDownload        ElementRole = "download"
	ElementKeyQuestion     ElementRole = "key_question"
	ElementPopularQuestion ElementRole = "popular_question"
	ElementBookmarkItem    ElementRole = "bookmark_button"
	ElementBookmarkEdit    ElementRole = "edit_bookmark"
	ElementBookmarkDelete  ElementRole = "delete_bookmark"
)

// Position locates a block inside the conversation
type Position struct {
	MessageIndex int
	BlockIndex   int
}

// ElementKey derives a UI element key from structural inputs only.
// The same (position, role, payload) always yields the same key, in any process.
func ElementKey(role ElementRole, pos Position, payload string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%s\x00%d\x00", pos.MessageIndex, role, pos.BlockIndex)
	h.Write([]byte(payload))
	sum := h.Sum(nil)
	return string(role) + "_" + hex.EncodeToString(sum[:10])
}

// SuggestionItem is one clickable suggestion
type SuggestionItem struct {
	Key  string
	Text string
}

// Rendering is the minimal read contract a renderer needs for one block.
// Exactly one of the variant fields is set, matching Kind.
type Rendering struct {
	Kind     Kind
	Position Position

	Text string

	Suggestions []SuggestionItem

	Statement   string
	Columns     []string
	Rows        RowCursor
	QueryError  string
	DownloadKey string

	OpaqueType string
}

// Render returns the render contract of a block at the given position
func Render(b Block, pos Position) Rendering {
	r := Rendering{Kind: b.Kind(), Position: pos}
	switch v := b.(type) {
	case Text:
		r.Text = v.Body
	case Suggestions:
		r.Suggestions = make([]SuggestionItem, len(v.Items))
		for i, item := range v.Items {
			// the item index is part of the payload so duplicate suggestions in one block never collide
			r.Suggestions[i] = SuggestionItem{
				Key:  ElementKey(ElementSuggestion, pos, fmt.Sprintf("%d\x00%s", i, item)),
				Text: item,
			}
		}
	case SqlResult:
		r.Statement = v.Statement
		r.QueryError = v.QueryError
		r.Rows = v.Table.Cursor()
		if v.Table != nil {
			r.Columns = v.Table.Columns
		}
		r.DownloadKey = ElementKey(ElementDownload, pos, v.Statement)
	case Opaque:
		r.OpaqueType = v.Type
	}
	return r
}
