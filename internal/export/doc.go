// Package export serializes flashcard sets to CSV and JSON and delivers the
// resulting files to the local filesystem.
package export
