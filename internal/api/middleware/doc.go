// Package middleware provides the HTTP middleware of the API: trace IDs with
// request-scoped loggers, bearer token authentication and per-user rate
// limiting.
package middleware
