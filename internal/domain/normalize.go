package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Payload is the loosely typed shape of a generation response. Every field is
// kept raw so that schema drift on the producing side degrades to defaults
// instead of a decode failure.
type Payload struct {
	Title      json.RawMessage `json:"title"`
	Flashcards json.RawMessage `json:"flashcards"`
	Error      json.RawMessage `json:"error"`
}

type rawFlashcard struct {
	Question json.RawMessage `json:"question"`
	Answer   json.RawMessage `json:"answer"`
	Tags     json.RawMessage `json:"tags"`
}

// DecodePayload reads a generation response body. The boolean is false when
// the body is not a JSON object at all.
func DecodePayload(data []byte) (Payload, bool) {
	var p Payload
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Payload{}, false
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Payload{}, false
	}
	return p, true
}

// ErrorMessage returns the payload's error text, or "" when there is none.
func (p Payload) ErrorMessage() string {
	msg, _ := rawString(p.Error)
	return strings.TrimSpace(msg)
}

// Result normalizes the payload into a GenerationResult:
//   - a missing, non-string or blank title becomes DefaultTitle;
//   - a missing or non-array flashcards field becomes an empty set;
//   - array elements without a non-blank string question and answer are dropped;
//   - non-string tags are dropped, an empty tag list becomes nil.
func (p Payload) Result() GenerationResult {
	result := EmptyResult()

	if title, ok := rawString(p.Title); ok && strings.TrimSpace(title) != "" {
		result.Title = strings.TrimSpace(title)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(p.Flashcards, &elems); err != nil {
		return result
	}

	for _, elem := range elems {
		card, ok := normalizeFlashcard(elem)
		if !ok {
			continue
		}
		result.Flashcards = append(result.Flashcards, card)
	}

	return result
}

// ParseGenerationResult leniently decodes a generation body. It never fails:
// anything that is not a usable object yields EmptyResult.
func ParseGenerationResult(data []byte) GenerationResult {
	p, ok := DecodePayload(data)
	if !ok {
		return EmptyResult()
	}
	return p.Result()
}

func normalizeFlashcard(elem json.RawMessage) (Flashcard, bool) {
	var raw rawFlashcard
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Flashcard{}, false
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Flashcard{}, false
	}

	question, _ := rawString(raw.Question)
	answer, _ := rawString(raw.Answer)
	card := Flashcard{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
		Tags:     rawStrings(raw.Tags),
	}
	if card.Validate() != nil {
		return Flashcard{}, false
	}
	return card, true
}

func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func rawStrings(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	var out []string
	for _, elem := range elems {
		if s, ok := rawString(elem); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
