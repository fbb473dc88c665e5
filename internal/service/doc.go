// Package service contains the account and profile use cases behind the HTTP
// API. Services coordinate the stores defined in internal/store and apply
// transactional boundaries when an operation spans more than one store.
package service
