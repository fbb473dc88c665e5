package export

import (
	"encoding/json"
	"testing"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []domain.Flashcard
		want  string
	}{
		{
			name:  "empty set is header only",
			cards: nil,
			want:  `"Question","Answer"`,
		},
		{
			name: "quotes doubled and tags omitted",
			cards: []domain.Flashcard{
				{Question: `What is "ATP"?`, Answer: "Energy, for cells", Tags: []string{"bio"}},
				{Question: "Line\nbreak", Answer: "ok"},
			},
			want: "\"Question\",\"Answer\"\n" +
				"\"What is \"\"ATP\"\"?\",\"Energy, for cells\"\n" +
				"\"Line\nbreak\",\"ok\"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CSV(tc.cards))
		})
	}
}

func TestCSVRowCount(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{{Question: "a", Answer: "b"}, {Question: "c", Answer: "d"}}
	out := CSV(cards)

	assert.NotEqual(t, byte('\n'), out[len(out)-1])
	assert.Equal(t, `"Question","Answer"`+"\n"+`"a","b"`+"\n"+`"c","d"`, out)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{
		{Question: "Q1 <b>", Answer: "A1", Tags: []string{"x", "y"}},
		{Question: "Q2", Answer: "A2"},
	}

	out, err := JSON("Cell Biology", cards)
	require.NoError(t, err)

	want := `{
  "title": "Cell Biology",
  "flashcards": [
    {
      "question": "Q1 <b>",
      "answer": "A1",
      "tags": [
        "x",
        "y"
      ]
    },
    {
      "question": "Q2",
      "answer": "A2"
    }
  ]
}`
	assert.Equal(t, want, out)

	var decoded struct {
		Title      string             `json:"title"`
		Flashcards []domain.Flashcard `json:"flashcards"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Cell Biology", decoded.Title)
	assert.Equal(t, cards, decoded.Flashcards)
}

func TestJSONEmptySet(t *testing.T) {
	t.Parallel()

	out, err := JSON("Flashcards", nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"title\": \"Flashcards\",\n  \"flashcards\": []\n}", out)
}

func TestFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"Cell Biology", FormatCSV, "cell-biology.csv"},
		{"Cell   Biology\tBasics", FormatJSON, "cell-biology-basics.json"},
		{" Padded ", FormatCSV, "-padded-.csv"},
		{"Flashcards", FormatJSON, "flashcards.json"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Filename(tc.title, tc.format), tc.title)
	}
}

func TestNewFiles(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{{Question: "Q", Answer: "A"}}

	csvFile := NewCSVFile("My Set", cards)
	assert.Equal(t, "my-set.csv", csvFile.Name)
	assert.Equal(t, MIMETypeCSV, csvFile.MIMEType)
	assert.Equal(t, CSV(cards), string(csvFile.Content))

	jsonFile, err := NewJSONFile("My Set", cards)
	require.NoError(t, err)
	assert.Equal(t, "my-set.json", jsonFile.Name)
	assert.Equal(t, MIMETypeJSON, jsonFile.MIMEType)
}
