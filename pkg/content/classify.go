package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MalformedContentError reports a block that could not be classified.
// It is recoverable: the block is rendered as Opaque and the rest of the message is kept.
type MalformedContentError struct {
	Type   string
	Reason string
}

func (e *MalformedContentError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("malformed content block: %s", e.Reason)
	}
	return fmt.Sprintf("malformed content block %q: %s", e.Type, e.Reason)
}

// wireBlock is the union of every field a block may carry on the wire.
// Table and QueryError only appear in stored sessions, never in analyst responses.
type wireBlock struct {
	Type        *string         `json:"type"`
	Text        *string         `json:"text,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Statement   *string         `json:"statement,omitempty"`
	Table       *Table          `json:"table,omitempty"`
	QueryError  string          `json:"query_error,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// Classify converts one raw block into a typed Block.
// On failure it returns an Opaque block alongside a *MalformedContentError so callers can keep rendering.
func Classify(raw json.RawMessage) (Block, error) {
	raw = bytes.TrimSpace(raw)
	fallback := Opaque{Raw: append(json.RawMessage(nil), raw...)}

	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		return fallback, &MalformedContentError{Reason: "not a JSON object"}
	}
	if w.Type == nil || *w.Type == "" {
		return fallback, &MalformedContentError{Reason: "missing type discriminator"}
	}

	fallback.Type = *w.Type
	switch Kind(*w.Type) {
	case KindText:
		if w.Text == nil {
			return fallback, &MalformedContentError{Type: *w.Type, Reason: "missing text"}
		}
		return Text{Body: *w.Text}, nil
	case KindSuggestions:
		items := make([]string, len(w.Suggestions))
		copy(items, w.Suggestions)
		return Suggestions{Items: items}, nil
	case KindSQL:
		if w.Statement == nil || *w.Statement == "" {
			return fallback, &MalformedContentError{Type: *w.Type, Reason: "missing statement"}
		}
		return SqlResult{Statement: *w.Statement, Table: w.Table, QueryError: w.QueryError}, nil
	case KindOpaque:
		// re-reading a stored fallback block
		inner := Opaque{Raw: w.Raw}
		var probe wireBlock
		if json.Unmarshal(w.Raw, &probe) == nil && probe.Type != nil {
			inner.Type = *probe.Type
		}
		return inner, nil
	default:
		return fallback, &MalformedContentError{Type: *w.Type, Reason: "unrecognized type"}
	}
}

// ClassifyAll classifies blocks in order. Failed blocks become Opaque; their errors are returned separately.
func ClassifyAll(raws []json.RawMessage) ([]Block, []error) {
	blocks := make([]Block, 0, len(raws))
	var failures []error
	for _, raw := range raws {
		b, err := Classify(raw)
		if err != nil {
			failures = append(failures, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, failures
}

// Encode serializes a block with its wire discriminator
func Encode(b Block) (json.RawMessage, error) {
	switch v := b.(type) {
	case Text:
		t := string(KindText)
		return json.Marshal(wireBlock{Type: &t, Text: &v.Body})
	case Suggestions:
		t := string(KindSuggestions)
		items := v.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(struct {
			Type        string   `json:"type"`
			Suggestions []string `json:"suggestions"`
		}{t, items})
	case SqlResult:
		t := string(KindSQL)
		return json.Marshal(wireBlock{Type: &t, Statement: &v.Statement, Table: v.Table, QueryError: v.QueryError})
	case Opaque:
		t := string(KindOpaque)
		raw := v.Raw
		if len(raw) == 0 || !json.Valid(raw) {
			raw = json.RawMessage("null")
		}
		return json.Marshal(wireBlock{Type: &t, Raw: raw})
	default:
		return nil, fmt.Errorf("unsupported block %T", b)
	}
}

// Blocks is an ordered block list that round-trips through JSON
type Blocks []Block

func (bs Blocks) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(bs))
	for _, b := range bs {
		raw, err := Encode(b)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	blocks, _ := ClassifyAll(raws)
	*bs = blocks
	return nil
}

// StripTables returns a copy of the blocks without preview tables, as logged in usage records
func (bs Blocks) StripTables() Blocks {
	out := make(Blocks, len(bs))
	for i, b := range bs {
		if s, ok := b.(SqlResult); ok {
			s.Table = nil
			s.QueryError = ""
			b = s
		}
		out[i] = b
	}
	return out
}
