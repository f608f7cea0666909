package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/mentorhub/internal/auth"
	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/service"
)

// sessionTTL mirrors the token lifetime in the auth package: the cookie and
// the JWT inside it expire together.
const sessionTTL = 24 * time.Hour

// AuthHandler serves the landing page and the register/login/logout flow.
type AuthHandler struct {
	svc    *service.AuthService
	tokens *auth.TokenService
	render *Renderer
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected; the
// handler has no knowledge of how they're constructed.
func NewAuthHandler(svc *service.AuthService, tokens *auth.TokenService, render *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, render: render, logger: logger}
}

// HandleHome serves the landing page, or bounces signed-in users straight to
// their dashboard.
//
// HTTP: GET /  (behind OptionalAuth)
func (h *AuthHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Render(w, r, "index.html", "MentorHub", nil, nil)
}

// registerForm carries submitted values back into the template so a failed
// validation doesn't clear what the user typed. The password never rides
// along.
type registerForm struct {
	Name  string
	Email string
	Role  string
}

// HandleRegisterForm shows the empty registration form.
//
// HTTP: GET /register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "register.html", "Join MentorHub", nil, registerForm{})
}

// HandleRegister creates the account, signs the new user in, and redirects
// to the dashboard. On any service error the form is re-shown with the
// submitted values preserved.
//
// HTTP: POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	form := registerForm{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Role:  r.PostFormValue("role"),
	}

	user, err := h.svc.Register(r.Context(),
		form.Name, form.Email, model.Role(form.Role), r.PostFormValue("password"))
	if err != nil {
		h.render.RenderWithNotice(w, r, "register.html", "Join MentorHub", nil, form,
			h.render.ErrorNotice(err))
		return
	}

	// Registration signs the user straight in — no second login step.
	h.signIn(w, r, user, "Welcome to the mentorship community!")
}

// loginForm preserves the email across a failed attempt.
type loginForm struct {
	Email string
}

// HandleLoginForm shows the login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "login.html", "Sign in", nil, loginForm{})
}

// HandleLogin authenticates and redirects to the dashboard. Bad credentials
// re-show the form with one generic notice — same message whether the email
// is unknown or the password wrong.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	form := loginForm{Email: r.PostFormValue("email")}

	user, err := h.svc.Authenticate(r.Context(), form.Email, r.PostFormValue("password"))
	if err != nil {
		h.render.RenderWithNotice(w, r, "login.html", "Sign in", nil, form,
			h.render.ErrorNotice(err))
		return
	}

	h.signIn(w, r, user, "Successfully signed in.")
}

// HandleLogout clears the session cookie and returns to the landing page.
// Idempotent — logging out twice is fine.
//
// HTTP: GET /logout  (behind RequireAuth)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	h.render.AddFlash(w, r, FlashInfo, "Signed out successfully.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// signIn issues the session cookie and redirects to the dashboard with a
// success notice. Shared by register and login.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *model.User, notice string) {
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("failed to issue session token",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		h.render.RenderError(w, r, nil, err)
		return
	}

	auth.SetSessionCookie(w, token, sessionTTL)
	h.render.AddFlash(w, r, FlashSuccess, notice)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
