// Package boardtest runs an in-process Board API for tests.
//
// The server speaks the same JSON as the real API: HS256 bearer tokens from
// /auth/login, bcrypt-checked passwords, post_id/user_id identities, newest
// first post listing, {"detail": ...} error bodies and 204 on delete.
// Faults can be injected per method and path with Fail and FailWithBody.
package boardtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type account struct {
	user models.User
	hash []byte
}

type fault struct {
	status int
	body   []byte
}

// Request is what the server saw of one incoming call.
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
}

type Server struct {
	URL string

	srv *httptest.Server

	mu       sync.Mutex
	secret   []byte
	accounts []*account
	posts    []models.Post
	faults   map[string]fault
	requests []Request
	ticks    int
}

type claims struct {
	jwt.RegisteredClaims
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// New starts a server. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret: []byte(uuid.NewString()),
		faults: make(map[string]fault),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.injectFaults)

	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/auth/login", s.login)

	authed := r.Group("/", s.authenticate)
	authed.GET("/auth/me", s.me)

	authed.GET("/posts/", s.listPosts)
	authed.POST("/posts/", s.createPost)
	authed.GET("/posts/:id", s.getPost)
	authed.PUT("/posts/:id", s.updatePost)
	authed.DELETE("/posts/:id", s.deletePost)

	admin := authed.Group("/", s.requireAdmin)
	admin.GET("/users/", s.listUsers)
	admin.POST("/users/", s.createUser)
	admin.GET("/users/:id", s.getUser)
	admin.PUT("/users/:id", s.updateUser)
	admin.DELETE("/users/:id", s.deleteUser)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	return s
}

func (s *Server) Close() { s.srv.Close() }

// Client returns an *http.Client wired to the test server.
func (s *Server) Client() *http.Client { return s.srv.Client() }

// AddUser registers an account directly, bypassing the admin API.
func (s *Server) AddUser(username, password string, role models.Role) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("boardtest: hash password: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	u := models.User{ID: uuid.NewString(), Username: username, Role: role, CreatedAt: now, UpdatedAt: now}
	s.accounts = append(s.accounts, &account{user: u, hash: hash})
	return u
}

// AddPost stores a post as newest, bypassing the API.
func (s *Server) AddPost(author models.User, title, message string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPost(author, title, message)
}

// TokenFor issues a valid access token for u.
func (s *Server) TokenFor(u models.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.sign(u)
	if err != nil {
		panic(fmt.Sprintf("boardtest: sign token: %v", err))
	}
	return tok
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(uuid.NewString())
}

// Fail makes the next request to method+path answer status with detail.
func (s *Server) Fail(method, path string, status int, detail string) {
	body := []byte(`{}`)
	if detail != "" {
		body = []byte(fmt.Sprintf(`{"detail":%q}`, detail))
	}
	s.FailWithBody(method, path, status, string(body))
}

// FailWithBody makes the next request to method+path answer status with a raw body.
func (s *Server) FailWithBody(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{status: status, body: []byte(body)}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Posts returns the server-side posts, newest first.
func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

// Users returns the server-side users in creation order.
func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.user)
	}
	return out
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		RawQuery:      c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFaults(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path

	s.mu.Lock()
	f, ok := s.faults[key]
	delete(s.faults, key)
	s.mu.Unlock()

	if ok {
		c.Data(f.status, "application/json", f.body)
		c.Abort()
		return
	}
	c.Next()
}

// now returns a strictly increasing timestamp. Callers hold s.mu.
func (s *Server) now() string {
	s.ticks++
	return epoch.Add(time.Duration(s.ticks) * time.Minute).Format(time.RFC3339)
}

func (s *Server) sign(u models.User) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
	return tok.SignedString(s.secret)
}

func (s *Server) findAccount(id string) (int, *account) {
	for i, a := range s.accounts {
		if a.user.ID == id {
			return i, a
		}
	}
	return -1, nil
}

func (s *Server) findPost(id string) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) insertPost(author models.User, title, message string) models.Post {
	now := s.now()
	p := models.Post{
		ID:         uuid.NewString(),
		Title:      title,
		Message:    message,
		AuthorID:   author.ID,
		AuthorName: author.Username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.posts = append([]models.Post{p}, s.posts...)
	return p
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// validation mimics the list-shaped detail of request validation errors.
func validation(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}
