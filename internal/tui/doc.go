// Package tui is the flashforge studio: a Bubbletea terminal interface over
// the studio view-model, the auth gate and the flip-card deck.
//
// Surfaces map onto auth gate routes. The login view backs RouteLogin, the
// dashboard backs RouteDashboard and the signed-out screen backs
// RouteLanding. Navigation requested by the gates arrives through Navigator,
// which may be called from any goroutine.
package tui
