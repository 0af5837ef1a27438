package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementKeyIsDeterministic(t *testing.T) {
	pos := Position{MessageIndex: 3, BlockIndex: 1}

	first := ElementKey(ElementVoteUp, pos, "What was total revenue in 2023?")
	second := ElementKey(ElementVoteUp, pos, "What was total revenue in 2023?")

	assert.Equal(t, first, second)
	assert.Regexp(t, `^like_[0-9a-f]{20}$`, first)
}

func TestElementKeyDistinguishesInputs(t *testing.T) {
	pos := Position{MessageIndex: 1, BlockIndex: 0}
	base := ElementKey(ElementSuggestion, pos, "q")

	assert.NotEqual(t, base, ElementKey(ElementSuggestion, Position{MessageIndex: 2}, "q"))
	assert.NotEqual(t, base, ElementKey(ElementSuggestion, Position{MessageIndex: 1, BlockIndex: 1}, "q"))
	assert.NotEqual(t, base, ElementKey(ElementSuggestion, pos, "q2"))
	assert.NotEqual(t, ElementKey(ElementVoteUp, pos, "q")[5:], ElementKey(ElementVoteDown, pos, "q")[8:])
}

func TestRenderSuggestionsGivesUniqueKeysForDuplicates(t *testing.T) {
	r := Render(Suggestions{Items: []string{"same", "same", "other"}}, Position{MessageIndex: 1})

	require.Len(t, r.Suggestions, 3)
	assert.Equal(t, KindSuggestions, r.Kind)
	assert.NotEqual(t, r.Suggestions[0].Key, r.Suggestions[1].Key)
	assert.Equal(t, "other", r.Suggestions[2].Text)

	again := Render(Suggestions{Items: []string{"same", "same", "other"}}, Position{MessageIndex: 1})
	assert.Equal(t, r.Suggestions, again.Suggestions)
}

func TestRenderSqlResultCursorIsSinglePass(t *testing.T) {
	table := &Table{Columns: []string{"YEAR", "REVENUE"}, Rows: [][]any{{"2022", 1.5}, {"2023", 2.5}}}
	r := Render(SqlResult{Statement: "SELECT 1", Table: table}, Position{MessageIndex: 1})

	assert.Equal(t, "SELECT 1", r.Statement)
	assert.Equal(t, []string{"YEAR", "REVENUE"}, r.Columns)
	assert.NotEmpty(t, r.DownloadKey)

	var years []any
	for r.Rows.Next() {
		years = append(years, r.Rows.Row()[0])
	}
	require.NoError(t, r.Rows.Err())
	assert.Equal(t, []any{"2022", "2023"}, years)
	assert.False(t, r.Rows.Next(), "cursor must not rewind")
	assert.NoError(t, r.Rows.Close())
}

func TestRenderSqlResultWithoutTable(t *testing.T) {
	r := Render(SqlResult{Statement: "SELECT 1", QueryError: "permission denied"}, Position{})

	assert.Equal(t, "permission denied", r.QueryError)
	assert.Nil(t, r.Columns)
	assert.False(t, r.Rows.Next())
}

func TestNumericColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"REGION", "TOTAL", "LABEL", "SHARE", "EMPTY"},
		Rows: [][]any{
			{"EU", int64(10), "a", []byte("0.25"), nil},
			{"US", 12.5, "b", "0.75", nil},
		},
	}

	assert.Equal(t, []string{"TOTAL", "SHARE"}, table.NumericColumns())
}
