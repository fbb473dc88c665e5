// Package session is the studio's client for the identity and profile
// service. It signs users in and out, persists tokens to a TOML file,
// refreshes expired access tokens and notifies subscribers whenever the
// session changes.
package session
