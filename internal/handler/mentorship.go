package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/service"
)

// MentorshipHandler serves the request ledger pages and the per-request
// chat. All routes sit behind RequireAuth; the finer rules (mentee-only
// create, mentor-only accept/decline, participant-only everything else) are
// the service's job — this layer just reports the outcome.
type MentorshipHandler struct {
	users     *service.AuthService
	directory *service.DirectoryService
	ledger    *service.MentorshipService
	render    *Renderer
	logger    *slog.Logger
}

// NewMentorshipHandler creates a MentorshipHandler.
func NewMentorshipHandler(
	users *service.AuthService,
	directory *service.DirectoryService,
	ledger *service.MentorshipService,
	render *Renderer,
	logger *slog.Logger,
) *MentorshipHandler {
	return &MentorshipHandler{
		users:     users,
		directory: directory,
		ledger:    ledger,
		render:    render,
		logger:    logger,
	}
}

// mentorshipsData feeds the mentorships page: the caller's requests plus the
// mentor picker for the create form. Goal carries a failed submission's text
// back into the form.
type mentorshipsData struct {
	Requests []model.MentorshipRequest
	Mentors  []model.User
	Goal     string
}

// HandleList shows the caller's requests and the new-request form.
//
// HTTP: GET /mentorships
func (h *MentorshipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "", nil)
}

// HandleCreate files a new mentorship request (mentee only) and re-shows the
// page. On a service error the page is re-rendered with the submitted goal
// preserved.
//
// HTTP: POST /mentorships
func (h *MentorshipHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	goal := r.PostFormValue("goal")
	_, err = h.ledger.Create(r.Context(), user, r.PostFormValue("mentor_id"), goal)
	if err != nil {
		notice := h.render.ErrorNotice(err)
		h.renderList(w, r, goal, &notice)
		return
	}

	h.render.AddFlash(w, r, FlashSuccess, "Mentorship request created.")
	http.Redirect(w, r, "/mentorships", http.StatusSeeOther)
}

// HandleAccept transitions a request to accepted (mentor only).
//
// HTTP: POST /mentorships/{id}/accept
func (h *MentorshipHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.Accept, FlashSuccess, "Mentorship accepted. Start collaborating!")
}

// HandleDecline transitions a request to declined (mentor only).
//
// HTTP: POST /mentorships/{id}/decline
func (h *MentorshipHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.Decline, FlashInfo, "Request declined.")
}

// HandleComplete marks a mentorship completed (either participant).
//
// HTTP: POST /mentorships/{id}/complete
func (h *MentorshipHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.Complete, FlashSuccess, "Mentorship marked as completed.")
}

// messagesData feeds the chat page.
type messagesData struct {
	Request  *model.MentorshipRequest
	Messages []model.Message
}

// HandleMessages shows the chat log of a request (participants only).
//
// HTTP: GET /mentorships/{id}/messages
func (h *MentorshipHandler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	req, msgs, err := h.ledger.Messages(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.render.FailRedirect(w, r, err, "/mentorships")
		return
	}

	h.render.Render(w, r, "messages.html", "Messages", user, messagesData{
		Request:  req,
		Messages: msgs,
	})
}

// HandlePostMessage appends a chat message and reloads the chat page — the
// classic POST/redirect/GET cycle, so a browser refresh never re-sends.
//
// HTTP: POST /mentorships/{id}/messages
func (h *MentorshipHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	if _, err := h.ledger.PostMessage(r.Context(), user.ID, id, r.PostFormValue("body")); err != nil {
		h.render.FailRedirect(w, r, err, "/mentorships/"+id+"/messages")
		return
	}

	h.render.AddFlash(w, r, FlashSuccess, "Message sent.")
	http.Redirect(w, r, "/mentorships/"+id+"/messages", http.StatusSeeOther)
}

// transition is the shared accept/decline/complete plumbing: resolve the
// caller, run the service call for {id}, flash the outcome, return to the
// mentorships page.
func (h *MentorshipHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, callerID, requestID string) error,
	category, success string,
) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	if err := op(r.Context(), user.ID, r.PathValue("id")); err != nil {
		h.render.FailRedirect(w, r, err, "/mentorships")
		return
	}

	h.render.AddFlash(w, r, category, success)
	http.Redirect(w, r, "/mentorships", http.StatusSeeOther)
}

// renderList fetches everything the mentorships page needs and renders it,
// optionally with a form-error notice and the preserved goal text.
func (h *MentorshipHandler) renderList(w http.ResponseWriter, r *http.Request, goal string, notice *Flash) {
	user, err := principal(r, h.users)
	if err != nil {
		h.render.RenderError(w, r, nil, err)
		return
	}

	requests, err := h.ledger.ListForUser(r.Context(), user.ID)
	if err != nil {
		h.render.RenderError(w, r, user, err)
		return
	}
	mentors, err := h.directory.Mentors(r.Context())
	if err != nil {
		h.render.RenderError(w, r, user, err)
		return
	}

	data := mentorshipsData{Requests: requests, Mentors: mentors, Goal: goal}
	if notice != nil {
		h.render.RenderWithNotice(w, r, "mentorships.html", "Mentorships", user, data, *notice)
		return
	}
	h.render.Render(w, r, "mentorships.html", "Mentorships", user, data)
}
