package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"sza-server/internal/utils"
)

// Renderer executes responses against a fixed template set.
type Renderer struct {
	tmpl *template.Template
}

// ParseFS loads every *.html file under dir in fsys. Call during startup; if
// it fails, do not serve.
func ParseFS(fsys fs.FS, dir string) (*Renderer, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes resp.Template with resp.Context into w.
func (rd *Renderer) Render(w io.Writer, resp *Response) error {
	if rd == nil || rd.tmpl == nil {
		return ErrTemplatesNotLoaded
	}
	if resp == nil {
		return ErrNilResponse
	}
	t := rd.tmpl.Lookup(resp.Template)
	if t == nil {
		return fmt.Errorf("page: template %q not found", resp.Template)
	}
	return t.Execute(w, map[string]any(resp.Context))
}

// Serve mounts h as an http.Handler. The page is rendered into a buffer
// first so a failure can still produce a clean 500.
func (rd *Renderer) Serve(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.Handle(r.Context(), r)
		if err != nil {
			rd.fail(w, r, "page handler failed", err)
			return
		}
		var buf bytes.Buffer
		if err := rd.Render(&buf, resp); err != nil {
			rd.fail(w, r, "page render failed", err)
			return
		}
		utils.WriteHTML(w, http.StatusOK, buf.Bytes())
	})
}

func (rd *Renderer) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		slog.WarnContext(r.Context(), msg+": client gone", "path", r.URL.Path)
		return
	}
	slog.ErrorContext(r.Context(), msg, "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
}
