package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/pkg/response"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"max=120"`
}

// Subscribe is idempotent; re-subscribing a known address reactivates it.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.newsletter.Subscribe(c.Request.Context(), req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

type unsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.newsletter.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

type campaignRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required"`
}

// SendCampaign fans the campaign out to every active subscriber through the
// email outbox; delivery happens asynchronously.
func (h *Handler) SendCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	camp, err := h.newsletter.SendCampaign(c.Request.Context(), middleware.UserID(c), req.Subject, req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, camp)
}
