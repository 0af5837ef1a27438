package content

import "encoding/json"

// Kind is the discriminator of a content block as sent by the analyst service
type Kind string

const (
	KindText        Kind = "text"
	KindSuggestions Kind = "suggestions"
	KindSQL         Kind = "sql"

	// KindOpaque is never sent by the service. It marks a block we could not classify.
	KindOpaque Kind = "opaque"
)

// Block is one typed unit of an assistant answer.
// The set of implementations is closed: Text, Suggestions, SqlResult and Opaque.
type Block interface {
	Kind() Kind
	sealed()
}

// Text is a narrative paragraph (markdown)
type Text struct {
	Body string
}

// Suggestions is an ordered list of follow-up questions
type Suggestions struct {
	Items []string
}

// SqlResult is a generated statement plus, once executed, its preview table
type SqlResult struct {
	Statement string
	Table     *Table
	// QueryError is set when the preview execution failed. The block still renders its statement.
	QueryError string
}

// Opaque keeps the raw payload of a block with an unknown or missing discriminator
type Opaque struct {
	Type string
	Raw  json.RawMessage
}

func (Text) Kind() Kind        { return KindText }
func (Suggestions) Kind() Kind { return KindSuggestions }
func (SqlResult) Kind() Kind   { return KindSQL }
func (Opaque) Kind() Kind      { return KindOpaque }

func (Text) sealed()        {}
func (Suggestions) sealed() {}
func (SqlResult) sealed()   {}
func (Opaque) sealed()      {}

// Role of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history
type Message struct {
	Role    Role   `json:"role"`
	Content Blocks `json:"content"`
}

// UserMessage wraps a prompt into a single text block message
func UserMessage(prompt string) Message {
	return Message{Role: RoleUser, Content: Blocks{Text{Body: prompt}}}
}

// PromptText returns the body of the first text block, used to recover the question of a user message
func (m Message) PromptText() string {
	for _, b := range m.Content {
		if t, ok := b.(Text); ok {
			return t.Body
		}
	}
	return ""
}
