package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/pkg/response"
)

func (h *Handler) ListPosts(c *gin.Context) {
	page, size := pagination(c)
	posts, err := h.blog.List(c.Request.Context(), page, size, middleware.IsStaff(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.blog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

type postRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
	Excerpt string `json:"excerpt"`
	Tags    string `json:"tags"`
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.blog.CreatePost(c.Request.Context(), middleware.UserID(c), req.Title, req.Content, req.Excerpt, req.Tags)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) PublishPost(c *gin.Context) {
	p, err := h.blog.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

type commentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func (h *Handler) CommentPost(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.blog.Comment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, cm)
}

func (h *Handler) PostComments(c *gin.Context) {
	page, size := pagination(c)
	list, err := h.blog.Comments(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// LikePost is idempotent: liking twice leaves a single like in place.
func (h *Handler) LikePost(c *gin.Context) {
	likes, err := h.blog.Like(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"likes": likes})
}

func (h *Handler) UnlikePost(c *gin.Context) {
	likes, err := h.blog.Unlike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"likes": likes})
}
