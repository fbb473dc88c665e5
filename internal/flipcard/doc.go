// Package flipcard holds the interactive state of rendered flashcards: which
// face each card shows, its visible tags and face background, and copying a
// card to the clipboard.
package flipcard
