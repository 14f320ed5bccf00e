// Package mock provides test doubles for parley interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/mkwiat/parley"
)

// Interface compliance checks.
var (
	_ parley.Backend   = (*Backend)(nil)
	_ parley.Stream    = (*Stream)(nil)
	_ parley.Clipboard = (*Clipboard)(nil)
	_ parley.Reporter  = (*Reporter)(nil)
)

// Backend is a test double for parley.Backend.
// Set the function fields for the methods you need; unset methods panic to
// catch missing setup.
type Backend struct {
	SubmitFn     func(ctx context.Context, req parley.SubmitRequest) (parley.Stream, error)
	RegenerateFn func(ctx context.Context, req parley.RegenerateRequest) (parley.Stream, error)
}

// Submit delegates to SubmitFn.
func (b *Backend) Submit(ctx context.Context, req parley.SubmitRequest) (parley.Stream, error) {
	return b.SubmitFn(ctx, req)
}

// Regenerate delegates to RegenerateFn.
func (b *Backend) Regenerate(ctx context.Context, req parley.RegenerateRequest) (parley.Stream, error) {
	return b.RegenerateFn(ctx, req)
}
