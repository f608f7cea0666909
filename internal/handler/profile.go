package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/mentorhub/internal/service"
)

// ProfileHandler serves the self-service profile edit page.
type ProfileHandler struct {
	users  *service.AuthService
	render *Renderer
	logger *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(users *service.AuthService, render *Renderer, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, render: render, logger: logger}
}

// HandleEditForm shows the profile form pre-filled with the current values.
//
// HTTP: GET /profile/edit  (behind RequireAuth)
func (h *ProfileHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	h.render.Render(w, r, "edit_profile.html", "Edit profile", user, nil)
}

// HandleEdit applies the edit and returns to the dashboard.
//
// HTTP: POST /profile/edit  (behind RequireAuth)
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	_, err = h.users.UpdateProfile(r.Context(), user.ID,
		r.PostFormValue("name"),
		r.PostFormValue("bio"),
		r.PostFormValue("skills"),
		r.PostFormValue("availability"),
	)
	if err != nil {
		h.render.FailRedirect(w, r, err, "/profile/edit")
		return
	}

	h.render.AddFlash(w, r, FlashSuccess, "Profile updated.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
