package boardtest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	currentUserKey = "current_user"
	defaultLimit   = 100
)

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "username", "field required")
		return
	}

	s.mu.Lock()
	var acc *account
	for _, a := range s.accounts {
		if a.user.Username == req.Username {
			acc = a
			break
		}
	}
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	s.mu.Lock()
	tok, err := s.sign(acc.user)
	s.mu.Unlock()
	if err != nil {
		detail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, models.Token{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) authenticate(c *gin.Context) {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || raw == "" {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()

	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	s.mu.Lock()
	_, acc := s.findAccount(cl.UserID)
	s.mu.Unlock()
	if acc == nil {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	c.Set(currentUserKey, acc.user)
	c.Next()
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet(currentUserKey).(models.User)
}

func (s *Server) requireAdmin(c *gin.Context) {
	if currentUser(c).Role != models.RoleAdmin {
		detail(c, http.StatusForbidden, "Admin privileges required")
		return
	}
	c.Next()
}

func (s *Server) me(c *gin.Context) {
	u := currentUser(c)

	s.mu.Lock()
	_, acc := s.findAccount(u.ID)
	s.mu.Unlock()
	if acc != nil {
		u = acc.user
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) listPosts(c *gin.Context) {
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			detail(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.posts
	if len(out) > limit {
		out = out[:limit]
	}
	c.JSON(http.StatusOK, append([]models.Post{}, out...))
}

func (s *Server) getPost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findPost(c.Param("id"))
	if i < 0 {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}
	c.JSON(http.StatusOK, s.posts[i])
}

func validPost(c *gin.Context, title, message *string) bool {
	if title != nil && (len(*title) < 1 || len(*title) > 100) {
		validation(c, "title", "ensure this value has between 1 and 100 characters")
		return false
	}
	if message != nil && (len(*message) < 1 || len(*message) > 2000) {
		validation(c, "message", "ensure this value has between 1 and 2000 characters")
		return false
	}
	return true
}

func (s *Server) createPost(c *gin.Context) {
	var req models.PostCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "title", "field required")
		return
	}
	if !validPost(c, &req.Title, &req.Message) {
		return
	}

	s.mu.Lock()
	p := s.insertPost(currentUser(c), req.Title, req.Message)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, p)
}

// ownedPost returns the index of the post named in the path, or aborts the
// request when it is missing or the caller may not change it.
func (s *Server) ownedPost(c *gin.Context, action string) int {
	u := currentUser(c)
	i := s.findPost(c.Param("id"))
	if i < 0 {
		detail(c, http.StatusNotFound, "Post not found")
		return -1
	}
	if s.posts[i].AuthorID != u.ID && u.Role != models.RoleAdmin {
		detail(c, http.StatusForbidden, "Not enough permissions to "+action+" this post")
		return -1
	}
	return i
}

func (s *Server) updatePost(c *gin.Context) {
	var req models.PostUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "title", "invalid body")
		return
	}
	if !validPost(c, req.Title, req.Message) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.ownedPost(c, "update")
	if i < 0 {
		return
	}
	p := s.posts[i]
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Message != nil {
		p.Message = *req.Message
	}
	p.UpdatedAt = s.now()
	s.posts[i] = p
	c.JSON(http.StatusOK, p)
}

func (s *Server) deletePost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.ownedPost(c, "delete")
	if i < 0 {
		return
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (s *Server) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.Users())
}

func (s *Server) getUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, acc := s.findAccount(c.Param("id"))
	if acc == nil {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, acc.user)
}

func (s *Server) usernameTaken(name, exceptID string) bool {
	for _, a := range s.accounts {
		if a.user.Username == name && a.user.ID != exceptID {
			return true
		}
	}
	return false
}

func validUser(c *gin.Context, username, password *string, role *models.Role) bool {
	if username != nil && (len(*username) < 3 || len(*username) > 50) {
		validation(c, "username", "ensure this value has between 3 and 50 characters")
		return false
	}
	if password != nil && len(*password) < 6 {
		validation(c, "password", "ensure this value has at least 6 characters")
		return false
	}
	if role != nil && *role != "" && !role.Valid() {
		validation(c, "role", "value is not a valid enumeration member")
		return false
	}
	return true
}

func (s *Server) createUser(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "username", "field required")
		return
	}
	if !validUser(c, &req.Username, &req.Password, &req.Role) {
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	s.mu.Lock()
	taken := s.usernameTaken(req.Username, "")
	s.mu.Unlock()
	if taken {
		detail(c, http.StatusBadRequest, "Username already registered")
		return
	}

	c.JSON(http.StatusCreated, s.AddUser(req.Username, req.Password, req.Role))
}

func (s *Server) updateUser(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "username", "invalid body")
		return
	}
	if !validUser(c, req.Username, req.Password, req.Role) {
		return
	}

	var hash []byte
	if req.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.MinCost)
		if err != nil {
			detail(c, http.StatusInternalServerError, "could not hash password")
			return
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, acc := s.findAccount(c.Param("id"))
	if acc == nil {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	if req.Username != nil {
		if s.usernameTaken(*req.Username, acc.user.ID) {
			detail(c, http.StatusBadRequest, "Username already registered")
			return
		}
		acc.user.Username = *req.Username
	}
	if req.Role != nil && *req.Role != "" {
		acc.user.Role = *req.Role
	}
	if hash != nil {
		acc.hash = hash
	}
	acc.user.UpdatedAt = s.now()
	c.JSON(http.StatusOK, acc.user)
}

func (s *Server) deleteUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, acc := s.findAccount(c.Param("id"))
	if acc == nil {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	if acc.user.ID == currentUser(c).ID {
		detail(c, http.StatusBadRequest, "Cannot delete yourself")
		return
	}
	s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
	c.Status(http.StatusNoContent)
}
