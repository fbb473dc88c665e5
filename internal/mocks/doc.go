// Package mocks provides shared test doubles for the server-side interfaces.
//
// Each mock has a function field per method for custom behavior, falls back
// to static return values, and records its calls so tests can assert on them:
//
//	gen := &mocks.MockGenerator{Errs: []error{transient}}
//	result, err := generation.WithRetry(gen, cfg, logger).Generate(ctx, req)
//	assert.Equal(t, 2, gen.CallCount())
package mocks
