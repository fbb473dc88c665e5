package studio

import "errors"

// User-facing messages.
const (
	MessageEmptyNotes     = "Please paste your notes first."
	MessageLoginAgain     = "Please log in again."
	MessageSomethingWrong = "Something went wrong"
	MessageAssistantFail  = "I couldn't generate flashcards from that input. Try shorter notes or clearer headings."
)

var (
	// ErrBusy is returned by Submit while another generation is in flight.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrClosed is returned once the view-model has been closed.
	ErrClosed = errors.New("studio is closed")

	// ErrStale is returned by a Submit whose result was discarded because
	// Detach or Close happened while it was in flight.
	ErrStale = errors.New("generation result discarded")

	// ErrNothingToExport is returned by the export operations when there are no cards.
	ErrNothingToExport = errors.New("no flashcards to export")
)
