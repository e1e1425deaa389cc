package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/middleware"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
	"github.com/MrEthical07/campusdesk/validate"
)

type portalView struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Login       string `json:"login"`
	Register    string `json:"register,omitempty"`
}

func newPortalView(p role.Portal) portalView {
	v := portalView{
		Slug:        string(p),
		Title:       p.Title(),
		Description: p.Description(),
		Login:       "/login/" + string(p),
	}
	if p.Role().Registrable() {
		v.Register = "/register/" + string(p)
	}
	return v
}

type sessionView struct {
	UserID      string     `json:"userId,omitempty"`
	Role        string     `json:"role,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Email       string     `json:"email,omitempty"`
	CollegeName string     `json:"collegeName,omitempty"`
	Phase       string     `json:"phase"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func newSessionView(s session.Session) sessionView {
	v := sessionView{
		UserID:      s.UserID,
		Role:        string(s.Role),
		DisplayName: s.DisplayName,
		Email:       s.Email,
		CollegeName: s.CollegeName,
		Phase:       s.Phase().String(),
		Error:       s.Error,
	}
	if s.ExpiresAt > 0 {
		exp := time.Unix(s.ExpiresAt, 0).UTC()
		v.ExpiresAt = &exp
	}
	return v
}

type authView struct {
	Session  sessionView `json:"session"`
	Redirect string      `json:"redirect"`
}

func newAuthView(res campusdesk.AuthResult) authView {
	return authView{Session: newSessionView(res.Session), Redirect: res.Redirect}
}

type messageView struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func (s *Server) handleSelectPortal(w http.ResponseWriter, _ *http.Request) {
	portals := make([]portalView, 0, len(role.Portals))
	for _, p := range role.Portals {
		portals = append(portals, newPortalView(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":      "select-portal",
		"portals":   portals,
		"anonymous": "/anonymous-complaint",
	})
}

// portalParam resolves the {role} segment. An unknown portal is sent back to the
// portal selection.
func portalParam(w http.ResponseWriter, r *http.Request) (role.Portal, bool) {
	p, ok := role.ParsePortal(chi.URLParam(r, "role"))
	if !ok {
		http.Redirect(w, r, middleware.SelectPortalPath, http.StatusSeeOther)
		return "", false
	}
	return p, true
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	p, ok := portalParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":   "login",
		"portal": newPortalView(p),
		"forgot": "/forgot-password/" + string(p),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := portalParam(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	res, err := s.desk.Login(r.Context(), p, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthView(res))
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	p, ok := portalParam(w, r)
	if !ok {
		return
	}
	if !p.Role().Registrable() {
		writeError(w, campusdesk.ErrRegistrationClosed)
		return
	}
	view := map[string]interface{}{
		"page":   "register",
		"portal": newPortalView(p),
	}
	if token := r.URL.Query().Get("invite"); token != "" {
		v, err := s.desk.VerifyInvite(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		view["invite"] = v
	}
	writeJSON(w, http.StatusOK, view)
}

type registerRequest struct {
	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	StudentID       string `json:"studentId"`
	CollegeName     string `json:"collegeName"`
	UniversityName  string `json:"universityName"`
	Location        string `json:"location"`
	StaffID         string `json:"staffId"`
	InviteToken     string `json:"inviteToken"`
}

func (req registerRequest) form() validate.Registration {
	return validate.Registration{
		Email:           req.Email,
		Mobile:          req.Mobile,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		StudentID:       req.StudentID,
		CollegeName:     req.CollegeName,
		UniversityName:  req.UniversityName,
		Location:        req.Location,
		StaffID:         req.StaffID,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	p, ok := portalParam(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	res, err := s.desk.Register(r.Context(), p, req.form(), req.InviteToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAuthView(res))
}

func (s *Server) handleForgotPage(w http.ResponseWriter, r *http.Request) {
	p, ok := portalParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":   "forgot-password",
		"portal": newPortalView(p),
	})
}

type forgotRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := portalParam(w, r); !ok {
		return
	}
	var req forgotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.desk.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageView{Message: campusdesk.ForgotSuccessMessage})
}

func (s *Server) handleResetPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":  "reset-password",
		"token": chi.URLParam(r, "token"),
	})
}

type resetRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	res, err := s.desk.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthView(res))
}

func (s *Server) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	view := messageView{
		Message:  "You are not authorized to view this page",
		Redirect: middleware.SelectPortalPath,
	}
	if sess := s.src.Session(r); sess.Authenticated() {
		view.Redirect = role.Dashboard(sess.Role)
	}
	writeJSON(w, http.StatusForbidden, view)
}

func (s *Server) handleAnonymousPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":        "anonymous-complaint",
		"departments": []campus.Department{campus.DepartmentHostel, campus.DepartmentMess},
	})
}

func (s *Server) handleAnonymousComplaint(w http.ResponseWriter, r *http.Request) {
	var req campus.NewComplaint
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.desk.SubmitAnonymousComplaint(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageView{Message: campusdesk.AnonymousComplaintMessage})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	res, err := s.desk.Logout(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthView(res))
}
