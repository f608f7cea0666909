package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/mentorhub/internal/auth"
	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/service"
)

// DashboardHandler serves the signed-in aggregate view: the member
// directory, the caller's requests, and the community stats.
type DashboardHandler struct {
	users     *service.AuthService
	directory *service.DirectoryService
	ledger    *service.MentorshipService
	render    *Renderer
	logger    *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(
	users *service.AuthService,
	directory *service.DirectoryService,
	ledger *service.MentorshipService,
	render *Renderer,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		users:     users,
		directory: directory,
		ledger:    ledger,
		render:    render,
		logger:    logger,
	}
}

// dashboardData is everything the dashboard template shows.
type dashboardData struct {
	Mentors    []model.User
	Mentees    []model.User
	MyRequests []model.MentorshipRequest
	Stats      *service.Stats
}

// HandleDashboard renders the dashboard.
//
// HTTP: GET /dashboard  (behind RequireAuth)
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r, h.users)
	if err != nil {
		// A valid session for a vanished user — only happens if the database
		// was reset underneath a live cookie. Treat as signed out.
		auth.ClearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx := r.Context()

	mentors, err := h.directory.Mentors(ctx)
	if err != nil {
		h.render.RenderError(w, r, user, err)
		return
	}
	mentees, err := h.directory.Mentees(ctx)
	if err != nil {
		h.render.RenderError(w, r, user, err)
		return
	}
	myRequests, err := h.ledger.ListForUser(ctx, user.ID)
	if err != nil {
		h.render.RenderError(w, r, user, err)
		return
	}
	stats, err := h.directory.Stats(ctx)
	if err != nil {
		h.render.RenderError(w, r, user, err)
		return
	}

	h.render.Render(w, r, "dashboard.html", "Dashboard", user, dashboardData{
		Mentors:    mentors,
		Mentees:    mentees,
		MyRequests: myRequests,
		Stats:      stats,
	})
}

// principal resolves the authenticated user ID in the context into a full
// account record. Only called behind RequireAuth, so a missing principal is
// a programming error and reported as such.
func principal(r *http.Request, users *service.AuthService) (*model.User, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil, auth.ErrNoPrincipal
	}
	return users.GetUser(r.Context(), id)
}
