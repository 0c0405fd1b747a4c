package page

import (
	"context"
	"net/http"
)

// AdaptImmediate wraps fn so its response comes back resolved: the request
// moved out of the context and presentation values rendered to markup.
func AdaptImmediate(fn ImmediateFunc) ImmediateFunc {
	return func(r *http.Request) (*Response, error) {
		resp, err := fn(r)
		if err != nil {
			return nil, err
		}
		return resolve(resp)
	}
}

// AdaptSuspending is AdaptImmediate for handlers that must be awaited. The
// returned func resolves the response once fn delivers it.
func AdaptSuspending(fn SuspendingFunc) SuspendingFunc {
	return func(ctx context.Context, r *http.Request) <-chan Result {
		in := fn(ctx, r)
		out := make(chan Result, 1)
		go func() {
			select {
			case res := <-in:
				if res.Err != nil {
					out <- res
					return
				}
				resp, err := resolve(res.Response)
				out <- Result{Response: resp, Err: err}
			case <-ctx.Done():
				out <- Result{Err: ctx.Err()}
			}
		}()
		return out
	}
}

// Adapt picks the variant matching h. Handlers of any other type are resolved
// after Handle returns.
func Adapt(h Handler) Handler {
	switch fn := h.(type) {
	case ImmediateFunc:
		return AdaptImmediate(fn)
	case SuspendingFunc:
		return AdaptSuspending(fn)
	default:
		return handlerFunc(func(ctx context.Context, r *http.Request) (*Response, error) {
			resp, err := h.Handle(ctx, r)
			if err != nil {
				return nil, err
			}
			return resolve(resp)
		})
	}
}
