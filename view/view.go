// Package view renders the embedded HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/go-invoice-ledger/i18n"
)

//go:embed templates/*.html
var files embed.FS

var tplCache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

// Funcs returns the func map for one request.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	if r != nil {
		lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	}
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
	}
}

// parse returns the unexecuted layout+page template for name. Callers clone
// it so request funcs can be bound.
func parse(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).
		ParseFS(files, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes page name inside the layout with status code status.
func Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := parse(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return t.Execute(w, data)
}
