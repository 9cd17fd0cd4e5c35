package handlers

import (
	"feedserver/auth"
	"feedserver/models"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserCreateRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserLoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

func (h *Handlers) UserSignup(c *gin.Context) {
	postReq := UserCreateRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := models.UserCreate(h.DB.WithContext(c.Request.Context()), postReq.Username, postReq.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	slog.Info("user signed up", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user})
}

// UserLogin starts a cookie session and also hands out a bearer token for API clients
func (h *Handlers) UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := models.UserLogin(h.DB.WithContext(c.Request.Context()), postReq.Username, postReq.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err = auth.LoadSession(c).LoginUser(user.ID); err != nil {
		slog.Error("cannot save session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, NoSessionResponse)
		return
	}
	token, err := auth.IssueToken(user.ID)
	if err != nil {
		slog.Error("cannot issue token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user, "token": token, "next": safeNext(postReq.Next)})
}

func (h *Handlers) UserLogout(c *gin.Context) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

// safeNext only lets local paths through so the login page cannot bounce users to other sites
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
