package handlers

import (
	"feedserver/auth"
	"feedserver/feed"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) FeedAll(c *gin.Context) {
	page, err := h.Feed.ListAll(c.Request.Context(), pageNumber(c), feed.PageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) FeedGroup(c *gin.Context) {
	page, err := h.Feed.ListByGroup(c.Request.Context(), c.Param("slug"), pageNumber(c), feed.PageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// FeedAuthor is the profile page: the author's posts plus whether the viewer follows them
func (h *Handlers) FeedAuthor(c *gin.Context) {
	viewer := auth.LoadCaller(c, h.DB)
	profile, err := h.Feed.Profile(c.Request.Context(), c.Param("username"), viewer.ID, pageNumber(c), feed.PageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handlers) FeedFollowing(c *gin.Context, caller auth.Caller) {
	page, err := h.Feed.ListFollowedFeed(c.Request.Context(), caller.ID, pageNumber(c), feed.PageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
