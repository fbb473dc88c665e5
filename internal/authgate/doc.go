// Package authgate guards the studio behind a valid session.
//
// Gate is a small state machine. Mount runs its effects exactly once, in order:
//
//  1. session-check: with no session, navigate to the login route and stop.
//  2. profile-fetch: read the user's card theme; failures yield an empty theme.
//  3. listener-subscribe: any later "no session" notification navigates to login.
//
// LoginGate is the counterpart for the login surface.
package authgate
