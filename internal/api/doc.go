// Package api implements the HTTP handlers of the flashforge server:
// account registration and sign-in, token refresh and logout, the per-user
// card theme profile, and flashcard generation.
//
// Handlers decode and validate requests, delegate to the service and
// generation layers, and map their errors onto status codes with
// MapErrorToStatusCode and GetSafeErrorMessage so that no internal detail
// reaches the client.
package api
