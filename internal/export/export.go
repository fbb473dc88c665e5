package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/flashforge/internal/domain"
)

// Format identifies an export encoding.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// MIME types of the exported files.
const (
	MIMETypeCSV  = "text/csv"
	MIMETypeJSON = "application/json"
)

// File is an encoded export ready for delivery.
type File struct {
	Name     string
	Content  []byte
	MIMEType string
}

var csvHeader = []string{"Question", "Answer"}

// CSV encodes cards as a two-column table. Every field is quoted with inner
// quotes doubled, rows are joined by "\n" without a trailing newline, and
// tags are not exported. An empty set yields only the header row.
func CSV(cards []domain.Flashcard) string {
	rows := make([]string, 0, len(cards)+1)
	rows = append(rows, csvRow(csvHeader...))
	for _, c := range cards {
		rows = append(rows, csvRow(c.Question, c.Answer))
	}
	return strings.Join(rows, "\n")
}

func csvRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

type jsonDocument struct {
	Title      string             `json:"title"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// JSON encodes the set as a 2-space indented {"title", "flashcards"} object.
// Tags are included only for cards that have them.
func JSON(title string, cards []domain.Flashcard) (string, error) {
	if cards == nil {
		cards = []domain.Flashcard{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDocument{Title: title, Flashcards: cards}); err != nil {
		return "", fmt.Errorf("failed to encode flashcards: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// Filename derives the export file name from a set title: runs of whitespace
// become a single "-", the result is lowercased and the extension appended.
func Filename(title string, format Format) string {
	base := strings.ToLower(whitespaceRun.ReplaceAllString(title, "-"))
	return base + "." + string(format)
}

// NewCSVFile encodes cards into a CSV File named after title.
func NewCSVFile(title string, cards []domain.Flashcard) File {
	return File{
		Name:     Filename(title, FormatCSV),
		Content:  []byte(CSV(cards)),
		MIMEType: MIMETypeCSV,
	}
}

// NewJSONFile encodes the set into a JSON File named after title.
func NewJSONFile(title string, cards []domain.Flashcard) (File, error) {
	content, err := JSON(title, cards)
	if err != nil {
		return File{}, err
	}
	return File{
		Name:     Filename(title, FormatJSON),
		Content:  []byte(content),
		MIMEType: MIMETypeJSON,
	}, nil
}
