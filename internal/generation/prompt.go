package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/flashforge/internal/domain"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// SystemInstruction is sent alongside every prompt by backends that support it.
const SystemInstruction = "You are a study assistant that writes accurate, self-contained flashcards. " +
	"Answer only with JSON."

var styleHints = map[domain.Style]string{
	domain.StyleBalanced: "Mix definitions, reasoning and recall questions.",
	domain.StyleExam:     "Phrase cards like exam questions with precise, complete answers.",
	domain.StyleSimple:   "Use plain language and short answers.",
}

var modeHints = map[domain.Mode]string{
	domain.ModeAuto:       "Choose whatever card shape suits each fact.",
	domain.ModeQuestions:  "Every card front is a direct question.",
	domain.ModeShortNotes: "Every card front is a term or cue and the back a brief note.",
}

// Prompt renders generation requests into LLM prompts.
type Prompt struct {
	tmpl *template.Template
}

type promptData struct {
	Notes      string
	Count      int
	Style      domain.Style
	StyleLabel string
	StyleHint  string
	Mode       domain.Mode
	ModeLabel  string
	ModeHint   string
}

// LoadPrompt parses the template at path, or the built-in template when path is empty.
func LoadPrompt(path string) (*Prompt, error) {
	text := defaultPromptTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v", ErrInvalidConfig, path, err)
		}
		text = string(raw)
	}

	tmpl, err := template.New("flashcards").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// Render executes the template for req.
func (p *Prompt) Render(req domain.GenerationRequest) (string, error) {
	data := promptData{
		Notes:      req.Notes,
		Count:      req.Count,
		Style:      req.Style,
		StyleLabel: req.Style.Label(),
		StyleHint:  styleHints[req.Style],
		Mode:       req.Mode,
		ModeLabel:  req.Mode.Label(),
		ModeHint:   modeHints[req.Mode],
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
