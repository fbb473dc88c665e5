// Package generation defines the Generator boundary between the flashcard
// endpoint and the LLM backends (Gemini, OpenAI), together with the pieces
// shared by every backend: the prompt template, retry with backoff and a
// circuit breaker.
package generation
