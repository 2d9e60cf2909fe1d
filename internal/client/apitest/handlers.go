package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/common"
	"github.com/gorilla/mux"
)

type ctxKey string

const userIDKey ctxKey = "userID"

const maxFormMemory = 8 << 20

func membershipID(id int64) string {
	return fmt.Sprintf("CERT-%05d", id)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func bearer(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*claims, bool) {
	token := bearer(r)
	if token == "" {
		detail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}
	c, err := parseToken(token, s.secret)
	if err != nil {
		detail(w, http.StatusUnauthorized, "Given token not valid for any token type")
		return nil, false
	}
	return c, true
}

// user guards routes of a signed-in member.
func (s *Server) user(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		id, err := strconv.ParseInt(c.UserID, 10, 64)
		if c.Role != "user" || err != nil {
			detail(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}

		s.mu.Lock()
		acc := s.accounts[id]
		blocked := acc != nil && acc.user.IsBlocked
		s.mu.Unlock()
		if acc == nil {
			detail(w, http.StatusUnauthorized, "User not found")
			return
		}
		if blocked {
			detail(w, http.StatusForbidden, "Your account has been blocked.")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	}
}

// admin guards back-office routes.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		if c.Role != "admin" {
			detail(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		next(w, r)
	}
}

func currentUser(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		detail(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	acc := s.byEmailLocked(creds.Email)
	var (
		id      int64
		allowed bool
	)
	if acc != nil && acc.password == creds.Password && acc.user.IsActive && !acc.user.IsBlocked {
		id, allowed = acc.user.ID, true
	}
	s.mu.Unlock()

	if !allowed {
		detail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	access, err := generateToken(id, "user", "access", s.secret, time.Hour)
	if err != nil {
		detail(w, http.StatusInternalServerError, err.Error())
		return
	}
	refresh, err := generateToken(id, "user", "refresh", s.secret, 24*time.Hour)
	if err != nil {
		detail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.Tokens{Access: access, Refresh: refresh})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		detail(w, http.StatusBadRequest, "malformed body")
		return
	}
	if creds.Email != s.adminEmail || creds.Password != s.adminPassword {
		detail(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}
	writeJSON(w, http.StatusOK, models.Tokens{Access: s.AdminToken()})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form expected"})
		return
	}

	u := models.User{
		FullName: r.FormValue("full_name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
	}
	password := r.FormValue("password")
	if u.FullName == "" || u.Email == "" || u.Phone == "" || password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "All fields are required"})
		return
	}
	if password != r.FormValue("confirm_password") {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"confirm_password": {"Passwords do not match"}})
		return
	}
	uid, err := common.MakeRandHexString(16)
	if err != nil {
		detail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byEmailLocked(u.Email) != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"user with this email already exists."}})
		return
	}
	id := s.addUserLocked(u, password)
	acc := s.accounts[id]
	acc.verifyUID = uid
	for _, field := range []string{models.FieldProfilePhoto, models.FieldResume} {
		if fh := r.MultipartForm.File[field]; len(fh) > 0 {
			acc.uploads[field] = fh[0].Filename
		}
	}
	writeJSON(w, http.StatusCreated, models.Message{Msg: "Registration successful. Please verify your email."})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.verifyUID != "" && acc.verifyUID == uid {
			acc.verifyUID = ""
			acc.user.IsVerified = true
			acc.user.IsActive = true
			writeJSON(w, http.StatusOK, models.Message{Msg: "Email verified successfully"})
			return
		}
	}
	writeJSON(w, http.StatusBadRequest, models.Message{Error: "Invalid or expired verification link"})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[currentUser(r)]
	out := []models.Profile{}
	if acc.profile != nil {
		out = append(out, s.renderProfileLocked(acc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	form, ok := parseProfileForm(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[currentUser(r)]
	if acc.profile != nil {
		detail(w, http.StatusBadRequest, "Profile already exists")
		return
	}
	p := &models.Profile{ID: s.nextProfileID}
	s.nextProfileID++
	form.apply(p, acc)
	p.Normalize()
	acc.profile = p
	writeJSON(w, http.StatusCreated, s.renderProfileLocked(acc))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	form, ok := parseProfileForm(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[currentUser(r)]
	if acc.profile == nil || acc.profile.ID != pathID(r) {
		detail(w, http.StatusNotFound, "Not found.")
		return
	}
	form.apply(acc.profile, acc)
	writeJSON(w, http.StatusOK, s.renderProfileLocked(acc))
}

func (s *Server) handleShareGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Days < 1 {
		writeJSON(w, http.StatusBadRequest, models.Message{Error: "days must be a positive integer"})
		return
	}
	token, err := common.MakeRandHexString(16)
	if err != nil {
		detail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := currentUser(r)
	if s.accounts[id].profile == nil {
		writeJSON(w, http.StatusNotFound, models.Message{Error: "Profile not found"})
		return
	}
	s.shares[token] = share{userID: id, expires: s.now().Add(time.Duration(req.Days) * 24 * time.Hour)}
	writeJSON(w, http.StatusOK, models.ShareLink{URL: s.srv.URL + "/shared/" + token})
}

func (s *Server) handleShareFetch(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shares[token]
	if !ok || s.now().After(sh.expires) {
		writeJSON(w, http.StatusNotFound, models.Message{Error: "Link expired or invalid"})
		return
	}
	acc := s.accounts[sh.userID]
	if acc == nil || acc.profile == nil {
		writeJSON(w, http.StatusNotFound, models.Message{Error: "Link expired or invalid"})
		return
	}
	writeJSON(w, http.StatusOK, s.renderProfileLocked(acc))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.DashboardStats
	for _, acc := range s.accounts {
		st.TotalUsers++
		switch acc.user.Status() {
		case "blocked":
			st.BlockedUsers++
		case "active":
			st.ActiveUsers++
		default:
			st.PendingUsers++
		}
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedUsersLocked())
}

func (s *Server) handleUserDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[pathID(r)]
	if acc == nil {
		detail(w, http.StatusNotFound, "Not found.")
		return
	}
	u := acc.user
	if acc.profile != nil {
		p := s.renderProfileLocked(acc)
		u.Profile = &p
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleBlock(blocked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		acc := s.accounts[pathID(r)]
		if acc == nil {
			detail(w, http.StatusNotFound, "Not found.")
			return
		}
		acc.user.IsBlocked = blocked
		msg := "User unblocked"
		if blocked {
			msg = "User blocked"
		}
		writeJSON(w, http.StatusOK, models.Message{Message: msg})
	}
}

func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	patch, files, ok := parseUserPatch(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[pathID(r)]
	if acc == nil {
		detail(w, http.StatusNotFound, "Not found.")
		return
	}
	if patch.Email != nil {
		if other := s.byEmailLocked(*patch.Email); other != nil && other != acc {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"user with this email already exists."}})
			return
		}
		acc.user.Email = *patch.Email
	}
	if patch.FullName != nil {
		acc.user.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		acc.user.Phone = *patch.Phone
	}
	if patch.IsActive != nil {
		acc.user.IsActive = *patch.IsActive
	}
	if patch.IsBlocked != nil {
		acc.user.IsBlocked = *patch.IsBlocked
	}
	if !patch.Profile.IsEmpty() {
		if acc.profile == nil {
			acc.profile = &models.Profile{ID: s.nextProfileID}
			s.nextProfileID++
			acc.profile.Normalize()
		}
		patch.Profile.ApplyTo(acc.profile)
	}
	for field, name := range files {
		acc.uploads[field] = name
	}
	u := acc.user
	if acc.profile != nil {
		p := s.renderProfileLocked(acc)
		u.Profile = &p
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) renderProfileLocked(acc *account) models.Profile {
	p := *acc.profile.Clone()
	p.FullName = acc.user.FullName
	return p
}

// profileForm is a parsed profile multipart submission.
type profileForm struct {
	scalars     map[string]string
	educations  *[]models.Education
	experiences *[]models.Experience
	files       map[string]string
}

func parseProfileForm(w http.ResponseWriter, r *http.Request) (*profileForm, bool) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		detail(w, http.StatusBadRequest, "multipart form expected")
		return nil, false
	}
	form := &profileForm{scalars: map[string]string{}, files: map[string]string{}}
	values := r.MultipartForm.Value

	for _, name := range models.ScalarFields {
		if v, ok := values[name]; ok && len(v) > 0 {
			form.scalars[name] = v[0]
		}
	}
	for _, name := range []string{models.FieldProfilePhoto, models.FieldResume} {
		if _, ok := values[name]; ok {
			writeJSON(w, http.StatusBadRequest, map[string][]string{name: {"The submitted data was not a file."}})
			return nil, false
		}
		if fh := r.MultipartForm.File[name]; len(fh) > 0 {
			form.files[name] = fh[0].Filename
		}
	}
	if v, ok := values[models.FieldEducations]; ok && len(v) > 0 {
		var eds []models.Education
		if err := json.Unmarshal([]byte(v[0]), &eds); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{models.FieldEducations: {"Invalid JSON"}})
			return nil, false
		}
		form.educations = &eds
	}
	if v, ok := values[models.FieldExperiences]; ok && len(v) > 0 {
		var exps []models.Experience
		if err := json.Unmarshal([]byte(v[0]), &exps); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{models.FieldExperiences: {"Invalid JSON"}})
			return nil, false
		}
		form.experiences = &exps
	}
	return form, true
}

func (f *profileForm) apply(p *models.Profile, acc *account) {
	for name, v := range f.scalars {
		p.SetScalar(name, v)
	}
	if f.educations != nil {
		p.Educations = *f.educations
	}
	if f.experiences != nil {
		p.Experiences = *f.experiences
	}
	if name, ok := f.files[models.FieldProfilePhoto]; ok {
		p.ProfilePhoto = models.RemoteAttachment("/media/profile_photos/" + name)
		acc.uploads[models.FieldProfilePhoto] = name
	}
	if name, ok := f.files[models.FieldResume]; ok {
		p.Resume = models.RemoteAttachment("/media/resumes/" + name)
		acc.uploads[models.FieldResume] = name
	}
	p.Normalize()
}

func parseUserPatch(w http.ResponseWriter, r *http.Request) (models.UserPatch, map[string]string, bool) {
	var patch models.UserPatch
	files := map[string]string{}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			detail(w, http.StatusBadRequest, "malformed body")
			return patch, nil, false
		}
		return patch, files, true
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		detail(w, http.StatusBadRequest, "multipart form expected")
		return patch, nil, false
	}
	values := r.MultipartForm.Value
	str := func(name string) *string {
		if v, ok := values[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}
	patch.FullName = str("full_name")
	patch.Email = str("email")
	patch.Phone = str("phone")
	if v := str("is_active"); v != nil {
		b, err := strconv.ParseBool(*v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"is_active": {"Must be a valid boolean."}})
			return patch, nil, false
		}
		patch.IsActive = &b
	}
	if v := str("is_blocked"); v != nil {
		b, err := strconv.ParseBool(*v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"is_blocked": {"Must be a valid boolean."}})
			return patch, nil, false
		}
		patch.IsBlocked = &b
	}
	if v := str("profile"); v != nil {
		var pp models.ProfilePatch
		if err := json.Unmarshal([]byte(*v), &pp); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"profile": {"Invalid JSON"}})
			return patch, nil, false
		}
		patch.Profile = &pp
	}
	for _, name := range []string{models.FieldProfilePhoto, models.FieldResume} {
		if fh := r.MultipartForm.File[name]; len(fh) > 0 {
			files[name] = fh[0].Filename
		}
	}
	return patch, files, true
}
