package handlers

import (
	"feedserver/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ProfileFollow(c *gin.Context, caller auth.Caller) {
	if err := h.Posts.Follow(c.Request.Context(), caller, c.Param("username")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) ProfileUnfollow(c *gin.Context, caller auth.Caller) {
	if err := h.Posts.Unfollow(c.Request.Context(), caller, c.Param("username")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
