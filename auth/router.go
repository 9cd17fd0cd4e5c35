package auth

import (
	"feedserver/config"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HandlerFunc receives an authenticated caller
type HandlerFunc func(c *gin.Context, caller Caller)

// Router is a wrapper class that adds auth checks + caller pre-loading.
// Anonymous callers are redirected to the login page, non-admins get 403 on admin routes
type Router struct {
	Base gin.IRoutes
	DB   *gorm.DB
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, adminOnly bool) {
	caller := LoadCaller(c, cr.DB)
	if !caller.Authenticated() {
		RedirectToLogin(c)
		return
	}
	if adminOnly && !caller.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	handler(c, caller)
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, false)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, false)
	})
}

func (cr *Router) AdminPOST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, true)
	})
}

// RedirectToLogin sends the caller to the login page, remembering where they came from
func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
}

func LoginURL(next string) string {
	return config.LOGIN_PATH + "?next=" + url.QueryEscape(next)
}
