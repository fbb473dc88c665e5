// Package events provides session lifecycle events and an in-memory emitter
// that fans them out to registered handlers.
//
// The session client emits an event whenever the signed-in identity changes
// (sign in, token refresh, sign out, expiry); the auth gate and the studio
// surface subscribe without knowing where the change came from.
package events
