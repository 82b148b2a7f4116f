package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/service"
	"github.com/studahub/backend/pkg/response"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
	// Website is the honeypot field. Humans never see it; bots fill it.
	Website string `json:"website"`
}

// SubmitContact godoc
// @Summary      Submit a contact message
// @Description  Submissions are scored for spam. Blocked ones get 429,
// @Description  borderline ones get 400 with requiresCaptcha set.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body  contactRequest  true  "message"
// @Success      201  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /api/v1/contact [post]
func (h *Handler) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.contact.Submit(c.Request.Context(), service.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Honeypot:  req.Website,
	})
	switch {
	case errors.Is(err, service.ErrSpamBlocked):
		response.TooManyRequests(c, "submission rejected")
	case errors.Is(err, service.ErrCaptchaRequired):
		c.JSON(http.StatusBadRequest, response.Response{
			Code:    http.StatusBadRequest,
			Message: "captcha required",
			Data:    gin.H{"requiresCaptcha": true},
		})
	case err != nil:
		fail(c, err)
	default:
		response.Created(c, m)
	}
}

func (h *Handler) ListMessages(c *gin.Context) {
	page, size := pagination(c)
	status := model.MessageStatus(c.Query("status"))
	list, err := h.contact.List(c.Request.Context(), status, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

func (h *Handler) MarkMessageRead(c *gin.Context) {
	if err := h.contact.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) ArchiveMessage(c *gin.Context) {
	if err := h.contact.Archive(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

type replyRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) ReplyMessage(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.contact.Reply(c.Request.Context(), c.Param("id"), req.Content, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
