// Package gemini implements generation.Generator on Google's Gemini API
// through the google.golang.org/genai client. Requests ask for JSON output
// with a response schema; responses go through the same lenient normalizer
// the studio uses, so schema drift degrades to dropped cards instead of
// failures.
package gemini
