package handlers

import (
	"feedserver/auth"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GroupCreateRequest struct {
	Title       string `form:"title" binding:"required"`
	Slug        string `form:"slug" binding:"required"`
	Description string `form:"description"`
}

type GroupDeleteRequest struct {
	Slug string `form:"slug" binding:"required"`
}

type UserDeleteRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

func (h *Handlers) AdminGroupCreate(c *gin.Context, caller auth.Caller) {
	req := GroupCreateRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	group, err := h.Posts.CreateGroup(c.Request.Context(), caller, req.Title, req.Slug, req.Description)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *Handlers) AdminGroupDelete(c *gin.Context, caller auth.Caller) {
	req := GroupDeleteRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Posts.DeleteGroup(c.Request.Context(), caller, req.Slug); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) AdminUserDelete(c *gin.Context, caller auth.Caller) {
	req := UserDeleteRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Posts.DeleteUser(c.Request.Context(), caller, req.ID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// AdminCacheClear drops every cached page of the global feed
func (h *Handlers) AdminCacheClear(c *gin.Context, caller auth.Caller) {
	if h.PageCache == nil {
		c.JSON(http.StatusOK, OKResponse)
		return
	}
	if err := h.PageCache.Clear(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}
	slog.Info("feed cache cleared", "by", caller.ID)
	c.JSON(http.StatusOK, OKResponse)
}
