// Package apitest runs an in-process fake of the certification portal REST
// API for tests. It keeps users, profiles and share links in memory, issues
// signed access tokens and enforces the same role rules as the real backend:
// a missing token is answered with 401, a user token on an admin route with
// 403.
//
// Routes can be made to fail (Fail) or to block until released (Hold), which
// is how tests provoke rejected and late responses.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/gorilla/mux"
)

// Route names accepted by Fail, Hold and Hits.
const (
	RouteLogin         = "login"
	RouteRegister      = "register"
	RouteVerify        = "verify"
	RouteProfiles      = "profiles"
	RouteCreateProfile = "create-profile"
	RouteUpdateProfile = "update-profile"
	RouteShareGenerate = "share-generate"
	RouteShareFetch    = "share-fetch"
	RouteAdminLogin    = "admin-login"
	RouteStats         = "stats"
	RouteUsers         = "users"
	RouteUserDetail    = "user-detail"
	RouteBlock         = "block"
	RouteUnblock       = "unblock"
	RouteEditUser      = "edit-user"
)

type account struct {
	user      models.User
	password  string
	verifyUID string
	uploads   map[string]string
	profile   *models.Profile
}

type share struct {
	userID  int64
	expires time.Time
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. All methods are safe for concurrent use.
type Server struct {
	srv    *httptest.Server
	secret []byte

	mu            sync.Mutex
	accounts      map[int64]*account
	nextUserID    int64
	nextProfileID int64
	adminEmail    string
	adminPassword string
	shares        map[string]share
	failures      map[string]failure
	holds         map[string]chan struct{}
	hits          map[string]int
	now           func() time.Time
}

// NewServer starts a fake backend. The API lives under /api and uploaded
// files are reported under /media. Close it when done.
func NewServer() *Server {
	s := &Server{
		secret:        []byte("apitest-secret"),
		accounts:      make(map[int64]*account),
		nextUserID:    1,
		nextProfileID: 100,
		adminEmail:    "admin@example.com",
		adminPassword: "admin-pass",
		shares:        make(map[string]share),
		failures:      make(map[string]failure),
		holds:         make(map[string]chan struct{}),
		hits:          make(map[string]int),
		now:           time.Now,
	}
	s.srv = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.hooks)

	api.HandleFunc("/token/", s.handleLogin).Methods("POST").Name(RouteLogin)
	api.HandleFunc("/register/", s.handleRegister).Methods("POST").Name(RouteRegister)
	api.HandleFunc("/verify/{uid}/", s.handleVerify).Methods("GET").Name(RouteVerify)

	api.HandleFunc("/profile/", s.user(s.handleProfiles)).Methods("GET").Name(RouteProfiles)
	api.HandleFunc("/profile/", s.user(s.handleCreateProfile)).Methods("POST").Name(RouteCreateProfile)
	api.HandleFunc("/profile/share/generate/", s.user(s.handleShareGenerate)).Methods("POST").Name(RouteShareGenerate)
	api.HandleFunc("/profile/share/{token}/", s.handleShareFetch).Methods("GET").Name(RouteShareFetch)
	api.HandleFunc("/profile/{id:[0-9]+}/", s.user(s.handleUpdateProfile)).Methods("PATCH").Name(RouteUpdateProfile)

	api.HandleFunc("/admin/login/", s.handleAdminLogin).Methods("POST").Name(RouteAdminLogin)
	api.HandleFunc("/admin/stats/", s.admin(s.handleStats)).Methods("GET").Name(RouteStats)
	api.HandleFunc("/admin/users/", s.admin(s.handleUsers)).Methods("GET").Name(RouteUsers)
	api.HandleFunc("/admin/users/{id:[0-9]+}/", s.admin(s.handleUserDetail)).Methods("GET").Name(RouteUserDetail)
	api.HandleFunc("/admin/users/{id:[0-9]+}/", s.admin(s.handleEditUser)).Methods("PATCH").Name(RouteEditUser)
	api.HandleFunc("/admin/users/{id:[0-9]+}/block/", s.admin(s.handleBlock(true))).Methods("POST").Name(RouteBlock)
	api.HandleFunc("/admin/users/{id:[0-9]+}/unblock/", s.admin(s.handleBlock(false))).Methods("POST").Name(RouteUnblock)
	return r
}

// URL is the API base URL (ending in /api).
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// MediaURL is the origin relative media paths are served from.
func (s *Server) MediaURL() string {
	return s.srv.URL
}

func (s *Server) Close() {
	s.mu.Lock()
	for name, ch := range s.holds {
		close(ch)
		delete(s.holds, name)
	}
	s.mu.Unlock()
	s.srv.Close()
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(u models.User, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(u, password)
}

func (s *Server) addUserLocked(u models.User, password string) int64 {
	u.ID = s.nextUserID
	s.nextUserID++
	if u.MembershipID == "" {
		u.MembershipID = membershipID(u.ID)
	}
	s.accounts[u.ID] = &account{user: u, password: password, uploads: map[string]string{}}
	return u.ID
}

// SetProfile stores p as the profile of user id, assigning a profile id.
func (s *Server) SetProfile(userID int64, p models.Profile) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[userID]
	if acc == nil {
		return 0
	}
	p.ID = s.nextProfileID
	s.nextProfileID++
	p.Normalize()
	acc.profile = &p
	return p.ID
}

// User returns a copy of the stored account.
func (s *Server) User(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

// UserByEmail finds an account by email.
func (s *Server) UserByEmail(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc := s.byEmailLocked(email); acc != nil {
		return acc.user, true
	}
	return models.User{}, false
}

// Profile returns a copy of the stored profile of user id.
func (s *Server) Profile(userID int64) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[userID]
	if acc == nil || acc.profile == nil {
		return models.Profile{}, false
	}
	return *acc.profile.Clone(), true
}

// Uploads returns the file names received for user id, keyed by field.
func (s *Server) Uploads(userID int64) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]string{}
	if acc := s.accounts[userID]; acc != nil {
		for k, v := range acc.uploads {
			out[k] = v
		}
	}
	return out
}

// VerificationUID returns the uid mailed to a freshly registered user.
func (s *Server) VerificationUID(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc := s.accounts[userID]; acc != nil {
		return acc.verifyUID
	}
	return ""
}

// UserToken issues an access token for user id without going through login.
func (s *Server) UserToken(userID int64) string {
	t, err := generateToken(userID, "user", "access", s.secret, time.Hour)
	if err != nil {
		panic(err)
	}
	return t
}

// AdminToken issues an admin access token.
func (s *Server) AdminToken() string {
	t, err := generateToken(0, "admin", "access", s.secret, time.Hour)
	if err != nil {
		panic(err)
	}
	return t
}

// AdminCredentials are accepted by the admin login endpoint.
func (s *Server) AdminCredentials() models.Credentials {
	return models.Credentials{Email: s.adminEmail, Password: s.adminPassword}
}

// Fail makes every request to route answer status with body until Recover.
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	s.failures[route] = failure{status: status, body: body}
	s.mu.Unlock()
}

// Recover removes a failure installed by Fail.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	delete(s.failures, route)
	s.mu.Unlock()
}

// Hold blocks requests to route until the returned func is called.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[route] == ch {
				delete(s.holds, route)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

// Hits counts the requests routed to route so far.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Advance moves the server clock forward, for share link expiry.
func (s *Server) Advance(d time.Duration) {
	s.mu.Lock()
	prev := s.now
	s.now = func() time.Time { return prev().Add(d) }
	s.mu.Unlock()
}

func (s *Server) hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.hits[name]++
		f, failing := s.failures[name]
		hold := s.holds[name]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeRaw(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) byEmailLocked(email string) *account {
	for _, acc := range s.accounts {
		if acc.user.Email == email {
			return acc
		}
	}
	return nil
}

func (s *Server) sortedUsersLocked() []models.User {
	users := make([]models.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}
