package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noorweb/noorweb/internal/auth"
	"github.com/noorweb/noorweb/internal/config"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) mountAuth(api *gin.RouterGroup) {
	if s.deps.Auth == nil {
		return
	}
	api.POST(config.RouteAuthRegister, s.handleRegister)
	api.POST(config.RouteAuthLogin, s.handleLogin)
	api.POST(config.RouteAuthGuest, s.handleGuest)
	api.POST(config.RouteAuthLogout, s.handleLogout)
	api.GET(config.RouteAuthMe, bearerAuth(s.deps.Auth), s.handleMe)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	u, err := s.deps.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	s.respondSession(c, http.StatusCreated, u)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, config.HTTPMsgBadRequest)
		return
	}
	u, err := s.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, u)
}

func (s *Server) handleGuest(c *gin.Context) {
	u, err := s.deps.Auth.LoginAsGuest(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, u)
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.deps.Auth.Logout(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	claims, ok := c.MustGet(config.CtxKeyClaims).(*auth.Claims)
	if !ok {
		fail(c, auth.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{config.RespKeyUser: claims.User})
}

func (s *Server) respondSession(c *gin.Context, status int, u auth.User) {
	token, err := s.deps.Auth.IssueToken(u)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, gin.H{config.RespKeyUser: u, config.RespKeyToken: token})
}
