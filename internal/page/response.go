// Package page turns handler results that carry rich presentation values into
// responses a template can embed verbatim.
//
// A handler returns a Response whose Context holds the request under
// RequestKey next to any number of values. Adapting the handler moves the
// request out of the context and replaces every RawHTMLer value with the
// markup it renders to, so templates only ever see template.HTML.
package page

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
)

// RequestKey is the context key handlers store the incoming request under.
const RequestKey = "request"

var (
	ErrNoRequest          = errors.New("page: response context has no request")
	ErrNilResponse        = errors.New("page: handler returned no response")
	ErrTemplatesNotLoaded = errors.New("page: templates not loaded")
)

// Context is the name to value mapping handed to a template.
type Context map[string]any

// Response names a template and the context to execute it with.
type Response struct {
	Request  *http.Request
	Template string
	Context  Context
}

// RawHTMLer is a presentation value that can render itself to markup.
type RawHTMLer interface {
	AsRawHTML() (string, error)
}

// resolve builds the adapted copy of resp. resp itself is left untouched.
func resolve(resp *Response) (*Response, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}
	req := resp.Request
	out := make(Context, len(resp.Context))
	for k, v := range resp.Context {
		if k == RequestKey {
			r, ok := v.(*http.Request)
			if !ok || r == nil {
				return nil, fmt.Errorf("%w: %q holds %T", ErrNoRequest, RequestKey, v)
			}
			req = r
			continue
		}
		if p, ok := v.(RawHTMLer); ok {
			markup, err := p.AsRawHTML()
			if err != nil {
				return nil, fmt.Errorf("page: render %q: %w", k, err)
			}
			out[k] = template.HTML(markup)
			continue
		}
		out[k] = v
	}
	if req == nil {
		return nil, ErrNoRequest
	}
	return &Response{Request: req, Template: resp.Template, Context: out}, nil
}

// Result is what a suspending handler eventually delivers.
type Result struct {
	Response *Response
	Err      error
}

// Handler is the shape both handler variants share once invoked.
type Handler interface {
	Handle(ctx context.Context, r *http.Request) (*Response, error)
}

// ImmediateFunc completes as soon as it is called.
type ImmediateFunc func(r *http.Request) (*Response, error)

func (f ImmediateFunc) Handle(_ context.Context, r *http.Request) (*Response, error) {
	return f(r)
}

// SuspendingFunc starts work and delivers a single Result later.
type SuspendingFunc func(ctx context.Context, r *http.Request) <-chan Result

// Handle waits for the result or for ctx to end.
func (f SuspendingFunc) Handle(ctx context.Context, r *http.Request) (*Response, error) {
	select {
	case res := <-f(ctx, r):
		return res.Response, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type handlerFunc func(ctx context.Context, r *http.Request) (*Response, error)

func (f handlerFunc) Handle(ctx context.Context, r *http.Request) (*Response, error) {
	return f(ctx, r)
}

// Async runs fn on its own goroutine. A panic in fn is delivered as an error.
func Async(fn func(ctx context.Context, r *http.Request) (*Response, error)) SuspendingFunc {
	return func(ctx context.Context, r *http.Request) <-chan Result {
		ch := make(chan Result, 1)
		go func() {
			defer func() {
				if p := recover(); p != nil {
					ch <- Result{Err: fmt.Errorf("page: handler panic: %v", p)}
				}
			}()
			resp, err := fn(ctx, r)
			ch <- Result{Response: resp, Err: err}
		}()
		return ch
	}
}
