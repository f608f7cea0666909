// Package handler contains the HTTP page handlers.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming form/query values
//  2. Call the service layer
//  3. Render a template or redirect, translating service errors into flash
//     notices
//
// Handlers never touch SQL and never make authorization decisions — both
// live below them.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gorilla/sessions"

	"github.com/sakif/mentorhub/internal/apperror"
	"github.com/sakif/mentorhub/internal/model"
)

// Flash categories, matching the CSS classes in the base template.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is one transient notice, shown on the next rendered page and then
// gone.
type Flash struct {
	Category string
	Message  string
}

// page is the data every template receives: the chrome (title, principal,
// notices) plus whatever the individual handler puts in Data.
type page struct {
	Title       string
	CurrentUser *model.User
	Flashes     []Flash
	Data        any
}

// Renderer owns the parsed templates and the flash cookie.
//
// TEMPLATE LAYOUT:
// Every page file defines a "content" block that the shared base.html pulls
// in. Because html/template keeps one namespace per template set, each page
// gets its own set (base + page), parsed once at startup and cached in the
// pages map. Re-parsing per request would work but costs milliseconds per
// page view for nothing.
//
// FLASHES:
// Notices ride a signed cookie (gorilla/sessions' CookieStore) so they
// survive the redirect after a POST and disappear once shown. The store is
// signed with the same SECRET_KEY as the session token — a tampered flash
// cookie is simply dropped.
type Renderer struct {
	pages  map[string]*template.Template
	flash  *sessions.CookieStore
	logger *slog.Logger
}

const flashSession = "flash"

// pageFiles are the content templates under templateDir. Each pairs with
// base.html into its own template set.
var pageFiles = []string{
	"index.html",
	"register.html",
	"login.html",
	"dashboard.html",
	"edit_profile.html",
	"mentorships.html",
	"messages.html",
	"error.html",
}

// NewRenderer parses all templates and sets up the flash cookie store.
func NewRenderer(templateDir, secret string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name),
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // flashes are read on the very next page load
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Renderer{pages: pages, flash: store, logger: logger}, nil
}

// Render executes the named page template inside the base layout, draining
// any pending flash notices into it.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, name, title string, user *model.User, data any) {
	rn.render(w, r, name, title, user, data, nil)
}

// RenderWithNotice renders a page with an immediate notice on top of any
// pending flashes. Used when a form fails validation and is re-shown in the
// same response — a cookie flash wouldn't be visible until the NEXT request,
// and there is no redirect here.
func (rn *Renderer) RenderWithNotice(w http.ResponseWriter, r *http.Request, name, title string, user *model.User, data any, notice Flash) {
	rn.render(w, r, name, title, user, data, []Flash{notice})
}

func (rn *Renderer) render(w http.ResponseWriter, r *http.Request, name, title string, user *model.User, data any, extra []Flash) {
	tmpl, ok := rn.pages[name]
	if !ok {
		rn.logger.Error("unknown template", slog.String("name", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p := page{
		Title:       title,
		CurrentUser: user,
		Flashes:     append(rn.popFlashes(w, r), extra...),
		Data:        data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", p); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AddFlash queues a notice for the next rendered page.
func (rn *Renderer) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	session, _ := rn.flash.Get(r, flashSession) // a bad cookie just means a fresh session
	session.AddFlash(message, "_"+category)
	if err := session.Save(r, w); err != nil {
		rn.logger.Warn("failed to save flash cookie", slog.String("error", err.Error()))
	}
}

// popFlashes drains all queued notices, category by category, and saves the
// now-empty session so they show exactly once.
func (rn *Renderer) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := rn.flash.Get(r, flashSession)

	var out []Flash
	for _, category := range []string{FlashSuccess, FlashError, FlashInfo} {
		for _, f := range session.Flashes("_" + category) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(r, w); err != nil {
			rn.logger.Warn("failed to clear flash cookie", slog.String("error", err.Error()))
		}
	}
	return out
}

// FailRedirect turns a service error into a flash notice and sends the user
// back to `to`. Domain errors carry a user-facing message; anything else is
// logged and shown as a generic notice — never raw internals.
func (rn *Renderer) FailRedirect(w http.ResponseWriter, r *http.Request, err error, to string) {
	rn.AddFlash(w, r, FlashError, userMessage(err, rn.logger))
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// ErrorNotice converts a service error into a Flash for RenderWithNotice.
func (rn *Renderer) ErrorNotice(err error) Flash {
	return Flash{Category: FlashError, Message: userMessage(err, rn.logger)}
}

// userMessage extracts the user-facing message from a domain error, or
// substitutes a generic one for unexpected failures.
func userMessage(err error, logger *slog.Logger) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	logger.Error("unexpected error", slog.String("error", err.Error()))
	return "something went wrong, please try again"
}

// RenderError shows the generic error page. Used for hard failures where no
// better page exists (e.g. the dashboard query itself failed).
func (rn *Renderer) RenderError(w http.ResponseWriter, r *http.Request, user *model.User, err error) {
	rn.logger.Error("request failed", slog.String("error", err.Error()))
	// Content-Type must be set before the status line goes out.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	rn.Render(w, r, "error.html", "Something went wrong", user, nil)
}
