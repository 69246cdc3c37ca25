// Package llm provides the language-model invocation layer.
//
// The rest of the system depends only on the Invoker interface and the
// sentinel errors in errors.go; the Gemini REST adapter is the one concrete
// implementation. Failure classification (rate limit vs. fatal) happens here
// so callers never have to inspect error message text.
package llm

import (
	"context"
	"strings"
)

// Response is the text payload returned by one model invocation.
type Response struct {
	Text string
}

// Empty reports whether the response carries no usable payload.
// A nil response and a whitespace-only response are both empty.
func (r *Response) Empty() bool {
	return r == nil || strings.TrimSpace(r.Text) == ""
}

// Invoker sends one prompt to a language model and returns its response.
// Implementations must return ErrRateLimited (wrapped) for throttling
// failures so the retry executor can classify without string matching.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (*Response, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, prompt string) (*Response, error)

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, prompt string) (*Response, error) {
	return f(ctx, prompt)
}
