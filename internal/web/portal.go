package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/middleware"
	"github.com/MrEthical07/campusdesk/role"
)

// portalRoutes mounts the pages of portal p. Role checks inside the desk still apply,
// so a page reachable from two portals refuses what the session may not do.
func (s *Server) portalRoutes(r chi.Router, p role.Portal) {
	r.Get("/dashboard", s.handleDashboard(p))
	r.Get("/complaints", s.handleComplaints)
	r.Post("/chat", s.handleChat)

	switch p.Role() {
	case role.Student:
		r.Post("/complaints", s.handleRaiseComplaint)
		r.Get("/mess-menu", s.handleStudentMenu)
		r.Post("/mess-menu/choices", s.handleChooseMeal)
		r.Post("/feedback", s.handleFeedback)
	case role.HostelAdmin, role.Warden:
		r.Put("/complaints/{id}/status", s.handleComplaintStatus)
	case role.MessAdmin:
		r.Put("/complaints/{id}/status", s.handleComplaintStatus)
		r.Get("/menu", s.handleSchedule)
		r.Put("/menu", s.handleUploadSchedule)
		r.Get("/stats", s.handleStats)
	case role.SuperAdmin, role.Admin:
		r.Put("/complaints/{id}/status", s.handleComplaintStatus)
		r.Get("/menu", s.handleSchedule)
		r.Put("/menu", s.handleUploadSchedule)
		r.Get("/stats", s.handleStats)
		r.Get("/users", s.handleInvites)
		r.Post("/users/invite", s.handleSendInvite)
	}
}

type dashboardView struct {
	Portal     portalView                            `json:"portal"`
	User       sessionView                           `json:"user"`
	Menu       []role.MenuItem                       `json:"menu"`
	Complaints map[campus.Status]int                 `json:"complaints"`
	Today      map[campus.MealType]campus.Preference `json:"today,omitempty"`
	Meals      campus.MealStats                      `json:"meals,omitempty"`
	MealsAt    *time.Time                            `json:"mealsAt,omitempty"`
}

func (s *Server) handleDashboard(p role.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFromContext(r.Context())
		view := dashboardView{
			Portal:     newPortalView(p),
			User:       newSessionView(sess),
			Menu:       role.Menu(sess.Role),
			Complaints: s.desk.Board().Counts(),
		}
		switch sess.Role {
		case role.Student:
			view.Today = s.desk.Choices().Day(s.desk.Now())
		case role.MessAdmin, role.SuperAdmin, role.Admin:
			view.Meals, view.MealsAt = s.latestStats(r.Context())
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// latestStats prefers the poller's last refresh and fetches once when there is none.
// A failed fetch leaves the dashboard without headcounts.
func (s *Server) latestStats(ctx context.Context) (campus.MealStats, *time.Time) {
	if s.stats != nil {
		if stats, at := s.stats.Latest(); !at.IsZero() {
			return stats, &at
		}
	}
	stats, err := s.desk.TodayMealStats(ctx)
	if err != nil {
		return nil, nil
	}
	at := s.desk.Now()
	return stats, &at
}

func (s *Server) handleComplaints(w http.ResponseWriter, r *http.Request) {
	items, err := s.desk.Complaints(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := campus.ParseStatus(raw)
		if !ok {
			writeError(w, campus.ErrInvalidStatus)
			return
		}
		items = s.desk.Board().Filter(st)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"complaints": items,
		"counts":     s.desk.Board().Counts(),
	})
}

func (s *Server) handleRaiseComplaint(w http.ResponseWriter, r *http.Request) {
	var req campus.NewComplaint
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	created, err := s.desk.RaiseComplaint(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   campusdesk.ComplaintRaisedMessage,
		"complaint": created,
	})
}

type statusRequest struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

func (s *Server) handleComplaintStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	st, ok := campus.ParseStatus(req.Status)
	if !ok {
		st = campus.Status(req.Status)
	}
	updated, err := s.desk.UpdateComplaintStatus(r.Context(), campus.StatusChange{
		ComplaintID: chi.URLParam(r, "id"),
		Status:      st,
		Remark:      req.Remark,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Complaint marked as " + st.Label(),
		"complaint": updated,
	})
}

func (s *Server) handleStudentMenu(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.desk.LatestSchedule(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.desk.MyMealChoices(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schedule": schedule,
		"today":    s.desk.Choices().Day(s.desk.Now()),
	})
}

type choiceRequest struct {
	// Date is YYYY-MM-DD in the campus time zone; empty means today.
	Date       string `json:"date"`
	MealType   string `json:"mealType"`
	Preference string `json:"preference"`
}

func (s *Server) handleChooseMeal(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	choice := campus.MealChoice{
		MealType:   campus.MealType(strings.ToLower(strings.TrimSpace(req.MealType))),
		Preference: campus.Preference(strings.ToLower(strings.TrimSpace(req.Preference))),
	}
	if req.Date != "" {
		day, err := time.ParseInLocation(time.DateOnly, req.Date, s.desk.TimeZone())
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		choice.Date = day
	}
	if err := s.desk.ChooseMeal(r.Context(), choice); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"today": s.desk.Choices().Day(s.desk.Now()),
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req campus.Feedback
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.desk.SubmitFeedback(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageView{Message: campusdesk.FeedbackThanksMessage})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.desk.LatestSchedule(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if schedule == nil {
		draft := campus.NewWeeklySchedule("")
		writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": nil, "draft": draft})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": schedule})
}

func (s *Server) handleUploadSchedule(w http.ResponseWriter, r *http.Request) {
	var req campus.WeeklySchedule
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.desk.UploadSchedule(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageView{Message: campusdesk.ScheduleUploadedMessage})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.desk.TodayMealStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	totals := make(map[campus.MealType]int, 3)
	for _, meal := range []campus.MealType{campus.Breakfast, campus.Lunch, campus.Dinner} {
		totals[meal] = stats.For(meal).Total()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":  stats,
		"totals": totals,
	})
}

type inviteView struct {
	campus.Invite
	Effective campus.InviteStatus `json:"effectiveStatus"`
}

func (s *Server) handleInvites(w http.ResponseWriter, r *http.Request) {
	want := role.Student
	if raw := r.URL.Query().Get("role"); raw != "" {
		want = role.Role(role.Normalize(raw))
	}
	invites, err := s.desk.Invites(r.Context(), want)
	if err != nil {
		writeError(w, err)
		return
	}
	now := s.desk.Now()
	views := make([]inviteView, 0, len(invites))
	for _, inv := range invites {
		views = append(views, inviteView{Invite: inv, Effective: inv.EffectiveStatus(now)})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":    want,
		"invites": views,
	})
}

func (s *Server) handleSendInvite(w http.ResponseWriter, r *http.Request) {
	var req campus.NewInvite
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.desk.SendInvite(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageView{Message: "Invitation sent successfully to " + req.Email})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	reply, err := s.desk.Chat(r.Context(), req.Message)
	if err != nil && reply == "" {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reply":    reply,
		"fallback": err != nil,
	})
}
