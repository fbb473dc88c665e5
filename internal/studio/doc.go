// Package studio is the view-model behind the flashcard studio: the notes
// input and generation parameters, the conversation transcript, the current
// titled card set, the inline error and the loading phase. It drives the
// generation client and the export encoders; rendering is left to the caller.
package studio
