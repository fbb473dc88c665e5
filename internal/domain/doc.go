// Package domain contains the core entities shared by the FlashForge server
// and studio: flashcards, generation requests and results, transcript
// entries, profile themes and users. It also owns the lenient normalization
// of generation payloads, so both sides of the wire agree on what a valid
// flashcard set looks like.
package domain
