package handlers

import (
	"errors"
	"feedserver/auth"
	"feedserver/posts"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostRequest struct {
	Text  string `form:"text"`
	Group string `form:"group"`
}

type CommentRequest struct {
	Text string `form:"text"`
}

func postURL(id uint64) string {
	return "/post/" + strconv.FormatUint(id, 10)
}

func (h *Handlers) PostDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	detail, err := h.Feed.GetPost(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	version := detail.Post.UpdatedAt
	if len(detail.Comments) > 0 && detail.Comments[0].CreatedAt > version {
		version = detail.Comments[0].CreatedAt
	}
	if isNotModified(c, version) {
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handlers) PostCreate(c *gin.Context, caller auth.Caller) {
	req := PostRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	// The image is optional
	var image *posts.Image
	fileHeader, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{err.Error()})
			return
		}
		defer file.Close()
		image = &posts.Image{Reader: file, Filename: fileHeader.Filename}
	}
	post, err := h.Posts.CreatePost(c.Request.Context(), caller, req.Text, req.Group, image)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// PostEdit sends anyone but the author back to the post
func (h *Handlers) PostEdit(c *gin.Context, caller auth.Caller) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req := PostRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	result, err := h.Posts.EditPost(c.Request.Context(), caller, id, req.Text, req.Group)
	if err != nil {
		renderError(c, err)
		return
	}
	if result.Outcome == posts.Denied {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	c.JSON(http.StatusOK, result.Post)
}

func (h *Handlers) PostDelete(c *gin.Context, caller auth.Caller) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	outcome, err := h.Posts.DeletePost(c.Request.Context(), caller, id)
	if err != nil {
		renderError(c, err)
		return
	}
	if outcome == posts.Denied {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) PostComment(c *gin.Context, caller auth.Caller) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req := CommentRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	comment, err := h.Posts.AddComment(c.Request.Context(), caller, id, req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
