package site

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/style.css
var styleCSS []byte

// layouts are the pages rendered through the shared "base" template.
var layouts = []string{"index.html", "post.html", "term.html", "terms.html"}

var funcs = template.FuncMap{
	"t":    i18n.T,
	"join": strings.Join,
}

type templates struct {
	pages    map[string]*template.Template
	redirect *template.Template
}

func parseTemplates() (*templates, error) {
	t := &templates{pages: make(map[string]*template.Template, len(layouts))}
	for _, name := range layouts {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse page template").
				WithContext("template", name).
				Build()
		}
		t.pages[name] = tpl
	}
	redirect, err := template.New("redirect.html").ParseFS(templateFS, "templates/redirect.html")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse redirect template").Build()
	}
	t.redirect = redirect
	return t, nil
}

func (t *templates) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to execute page template").
			WithContext("template", name).
			Build()
	}
	return buf.Bytes(), nil
}

func (t *templates) renderRedirect(target string) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.redirect.Execute(&buf, struct{ Target string }{target}); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to execute redirect template").Build()
	}
	return buf.Bytes(), nil
}
