package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sza-server/internal/modules/sza/service"
	"sza-server/internal/modules/sza/views"
	"sza-server/internal/page"
)

// Variant picks the palette order of the page.
type Variant string

const (
	VariantForward  Variant = "forward"
	VariantReversed Variant = "reversed"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantForward, VariantReversed:
		return v, nil
	default:
		return "", fmt.Errorf("invalid variant %q (allowed: forward, reversed)", s)
	}
}

type SZAController interface {
	RegisterRoutes(mux *http.ServeMux)
	// Render writes the page for v without going through HTTP.
	Render(ctx context.Context, w io.Writer, v Variant) error
}

type szaControllerImpl struct {
	tables   func(ctx context.Context, palette []string) (page.RawHTMLer, error)
	renderer *page.Renderer
}

func NewSZAController(svc *service.Service, renderer *page.Renderer) SZAController {
	return &szaControllerImpl{
		tables: func(ctx context.Context, palette []string) (page.RawHTMLer, error) {
			return svc.Table(ctx, palette)
		},
		renderer: renderer,
	}
}

func (c *szaControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", c.renderer.Serve(c.handler(VariantForward)))
	mux.Handle("GET /async", c.renderer.Serve(c.handler(VariantReversed)))
}

func (c *szaControllerImpl) Render(ctx context.Context, w io.Writer, v Variant) error {
	path := "/"
	if v == VariantReversed {
		path = "/async"
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.handler(v).Handle(ctx, r)
	if err != nil {
		return err
	}
	return c.renderer.Render(w, resp)
}

// handler returns the adapted handler for v. The forward page completes
// immediately; the reversed page is built on its own goroutine.
func (c *szaControllerImpl) handler(v Variant) page.Handler {
	if v == VariantReversed {
		return page.AdaptSuspending(page.Async(c.handleAsyncIndex))
	}
	return page.AdaptImmediate(c.handleIndex)
}

func (c *szaControllerImpl) handleIndex(r *http.Request) (*page.Response, error) {
	table, err := c.tables(r.Context(), service.PaletteForward)
	if err != nil {
		return nil, err
	}
	return indexResponse(r, table), nil
}

func (c *szaControllerImpl) handleAsyncIndex(ctx context.Context, r *http.Request) (*page.Response, error) {
	table, err := c.tables(ctx, service.PaletteReversed)
	if err != nil {
		return nil, err
	}
	return indexResponse(r, table), nil
}

func indexResponse(r *http.Request, table page.RawHTMLer) *page.Response {
	return &page.Response{
		Template: views.IndexTemplate,
		Context: page.Context{
			page.RequestKey: r,
			views.TableKey:  table,
		},
	}
}
