package main

import (
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Session keys for one-shot flash messages.
const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
)

var templateFuncs = template.FuncMap{
	"currentYear": func() int { return time.Now().Year() },
	"safeHTML":    func(s string) template.HTML { return template.HTML(s) },
}

// loadTemplates parses every page template against the shared layout and
// returns them keyed by page name.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	layout := filepath.Join(dir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}

	templates := map[string]*template.Template{}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	return templates, nil
}

// templateData is the envelope handed to every page template.
type templateData struct {
	CurrentUser *User
	Flash       string
	FlashType   string
	Data        any
}

func (app *App) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	t, ok := app.tmpl[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}

	td := templateData{
		CurrentUser: app.currentUser(r),
		Flash:       app.sessions.PopString(r.Context(), sessionKeyFlash),
		FlashType:   app.sessions.PopString(r.Context(), sessionKeyFlashType),
		Data:        data,
	}
	if td.Flash != "" && td.FlashType == "" {
		td.FlashType = "info"
	}

	if err := t.ExecuteTemplate(w, "layout", td); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// flash queues a one-shot message for the next rendered page.
func (app *App) flash(r *http.Request, msg, kind string) {
	app.sessions.Put(r.Context(), sessionKeyFlash, msg)
	app.sessions.Put(r.Context(), sessionKeyFlashType, kind)
}

func (app *App) flashAndRedirect(w http.ResponseWriter, r *http.Request, target, msg, kind string) {
	app.flash(r, msg, kind)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
