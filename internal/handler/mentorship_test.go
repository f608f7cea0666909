package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/mentorhub/internal/auth"
	"github.com/sakif/mentorhub/internal/model"
)

// seedPair registers a mentor/mentee pair and returns both with cookies.
func seedPair(t *testing.T, s *testStack) (mentor, mentee *model.User, mentorCookie, menteeCookie *http.Cookie) {
	t.Helper()
	mentor, mentorCookie = register(t, s, "Grace", "grace@example.com", model.RoleMentor)
	mentee, menteeCookie = register(t, s, "Ada", "ada@example.com", model.RoleMentee)
	return mentor, mentee, mentorCookie, menteeCookie
}

func TestHandleCreate(t *testing.T) {
	s := newTestStack(t)
	mentor, mentee, _, menteeCookie := seedPair(t, s)

	req := postForm("/mentorships", url.Values{
		"mentor_id": {mentor.ID},
		"goal":      {"learn Go"},
	})
	req.AddCookie(menteeCookie)
	rr := httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandleCreate)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/mentorships", rr.Header().Get("Location"))

	reqs, err := s.ledgerSvc.ListForUser(context.Background(), mentee.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, model.StatusPending, reqs[0].Status)
	assert.Equal(t, "learn Go", reqs[0].Goal)
}

func TestHandleCreate_MentorForbidden(t *testing.T) {
	s := newTestStack(t)
	mentor, _, mentorCookie, _ := seedPair(t, s)

	req := postForm("/mentorships", url.Values{
		"mentor_id": {mentor.ID},
		"goal":      {"mentors can't ask"},
	})
	req.AddCookie(mentorCookie)
	rr := httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandleCreate)).ServeHTTP(rr, req)

	// The page is re-rendered with the notice and the goal preserved.
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Only mentees can request mentorships.")
}

func TestHandleAccept(t *testing.T) {
	s := newTestStack(t)
	mentor, mentee, mentorCookie, _ := seedPair(t, s)

	created, err := s.ledgerSvc.Create(context.Background(), mentee, mentor.ID, "learn Go")
	require.NoError(t, err)

	req := postForm("/mentorships/"+created.ID+"/accept", nil)
	req.SetPathValue("id", created.ID)
	req.AddCookie(mentorCookie)
	rr := httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandleAccept)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/mentorships", rr.Header().Get("Location"))

	reqs, err := s.ledgerSvc.ListForUser(context.Background(), mentor.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, model.StatusAccepted, reqs[0].Status)
}

func TestHandleAccept_MenteeCannot(t *testing.T) {
	s := newTestStack(t)
	mentor, mentee, _, menteeCookie := seedPair(t, s)

	created, err := s.ledgerSvc.Create(context.Background(), mentee, mentor.ID, "learn Go")
	require.NoError(t, err)

	req := postForm("/mentorships/"+created.ID+"/accept", nil)
	req.SetPathValue("id", created.ID)
	req.AddCookie(menteeCookie)
	rr := httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandleAccept)).ServeHTTP(rr, req)

	// Denied: back to the list with an error flash, status unchanged.
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/mentorships", rr.Header().Get("Location"))

	reqs, err := s.ledgerSvc.ListForUser(context.Background(), mentee.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, model.StatusPending, reqs[0].Status)
}

func TestHandleMessages_PostAndView(t *testing.T) {
	s := newTestStack(t)
	mentor, mentee, mentorCookie, menteeCookie := seedPair(t, s)

	created, err := s.ledgerSvc.Create(context.Background(), mentee, mentor.ID, "learn Go")
	require.NoError(t, err)

	// Mentee posts a message.
	post := postForm("/mentorships/"+created.ID+"/messages", url.Values{"body": {"hi Grace"}})
	post.SetPathValue("id", created.ID)
	post.AddCookie(menteeCookie)
	rr := httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandlePostMessage)).ServeHTTP(rr, post)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/mentorships/"+created.ID+"/messages", rr.Header().Get("Location"))

	// Mentor opens the chat and sees it.
	view := httptest.NewRequest(http.MethodGet, "/mentorships/"+created.ID+"/messages", nil)
	view.SetPathValue("id", created.ID)
	view.AddCookie(mentorCookie)
	rr = httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandleMessages)).ServeHTTP(rr, view)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "hi Grace")
	assert.Contains(t, rr.Body.String(), "Ada", "messages are labelled with the sender's name")
}

func TestHandleMessages_StrangerRedirected(t *testing.T) {
	s := newTestStack(t)
	mentor, mentee, _, _ := seedPair(t, s)
	_, strangerCookie := register(t, s, "Eve", "eve@example.com", model.RoleMentee)

	created, err := s.ledgerSvc.Create(context.Background(), mentee, mentor.ID, "learn Go")
	require.NoError(t, err)

	view := httptest.NewRequest(http.MethodGet, "/mentorships/"+created.ID+"/messages", nil)
	view.SetPathValue("id", created.ID)
	view.AddCookie(strangerCookie)
	rr := httptest.NewRecorder()

	auth.RequireAuth(s.tokens)(http.HandlerFunc(s.mentorship.HandleMessages)).ServeHTTP(rr, view)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/mentorships", rr.Header().Get("Location"))
}
