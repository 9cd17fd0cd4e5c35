package handlers

import (
	"errors"
	"feedserver/auth"
	"feedserver/feed"
	"feedserver/posts"
	"feedserver/utils"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Response struct {
	Error string `json:"error"`
}

const (
	etagHeader = "ETag"
)

var (
	// Predefined responses
	OKResponse        = Response{}
	BadIDResponse     = Response{"invalid id"}
	DBErrorResponse   = Response{"database error"}
	NoSessionResponse = Response{"cannot save session"}
)

// Handlers holds everything the HTTP endpoints need
type Handlers struct {
	DB        *gorm.DB
	Feed      *feed.Assembler
	Posts     *posts.Service
	PageCache feed.PageCache
}

// Register adds all endpoints to the router. The router must already carry auth.SessionMiddleware
func (h *Handlers) Register(router gin.IRoutes) {
	authRouter := &auth.Router{Base: router, DB: h.DB}
	// Feeds
	router.GET("/feed/all", h.FeedAll)
	router.GET("/feed/group/:slug", h.FeedGroup)
	router.GET("/feed/author/:username", h.FeedAuthor)
	authRouter.GET("/feed/following", h.FeedFollowing)
	// Posts
	router.GET("/post/:id", h.PostDetail)
	authRouter.POST("/post", h.PostCreate)
	authRouter.POST("/post/:id", h.PostEdit)
	authRouter.POST("/post/:id/delete", h.PostDelete)
	authRouter.POST("/post/:id/comment", h.PostComment)
	// Profiles
	authRouter.POST("/profile/:username/follow", h.ProfileFollow)
	authRouter.POST("/profile/:username/unfollow", h.ProfileUnfollow)
	// Users
	router.POST("/auth/signup", h.UserSignup)
	router.POST("/auth/login", h.UserLogin)
	router.POST("/auth/logout", h.UserLogout)
	// Admin
	authRouter.AdminPOST("/admin/group/create", h.AdminGroupCreate)
	authRouter.AdminPOST("/admin/group/delete", h.AdminGroupDelete)
	authRouter.AdminPOST("/admin/user/delete", h.AdminUserDelete)
	authRouter.AdminPOST("/admin/cache/clear", h.AdminCacheClear)
}

// renderError maps application errors to responses. Unauthenticated callers go to the login page
func renderError(c *gin.Context, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		appErr = utils.NewDatabaseError(err)
	}
	if appErr.Code == utils.CodeUnauthenticated {
		auth.RedirectToLogin(c)
		return
	}
	status := utils.AppErrorToHTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, DBErrorResponse)
		return
	}
	c.JSON(status, Response{appErr.Message})
}

// pageNumber reads ?page=N. Anything that is not a number is the first page
func pageNumber(c *gin.Context) int {
	number, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return number
}

func paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, BadIDResponse)
		return 0, false
	}
	return id, true
}

// isNotModified sets the ETag to the given version and answers 304 if the client already has it
func isNotModified(c *gin.Context, version int64) bool {
	etag := strconv.FormatInt(version, 10)
	c.Header("cache-control", "private, max-age=1")
	c.Header(etagHeader, etag)
	if c.Request.Header.Get("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
