package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/pkg/response"
)

type applyRequest struct {
	ResumeURL  string `json:"resume_url" binding:"required,url"`
	Motivation string `json:"motivation" binding:"required,max=4000"`
}

// Apply submits a collaborator application. One per user; a second attempt
// trips the unique index and comes back as 422.
func (h *Handler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	app, err := h.collab.Apply(c.Request.Context(), middleware.UserID(c), req.ResumeURL, req.Motivation)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, app)
}

func (h *Handler) MyApplication(c *gin.Context) {
	app, err := h.collab.MyApplication(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, app)
}

func (h *Handler) ListApplications(c *gin.Context) {
	page, size := pagination(c)
	status := model.ApplicationStatus(c.Query("status"))
	list, err := h.collab.List(c.Request.Context(), status, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

func (h *Handler) GetApplication(c *gin.Context) {
	app, err := h.collab.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, app)
}

type stageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

func (h *Handler) AdvanceApplicationStage(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	app, err := h.collab.AdvanceStage(c.Request.Context(), c.Param("id"), model.ApplicationStage(req.Stage))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, app)
}

type evaluationRequest struct {
	Score float64 `json:"score" binding:"min=0,max=10"`
	Notes string  `json:"notes"`
}

func (h *Handler) EvaluateApplication(c *gin.Context) {
	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.collab.Evaluate(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Score, req.Notes); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ApproveApplication hires the candidate: application goes APPROVED/HIRED
// and the user role flips to COLLABORATOR in the same transaction.
func (h *Handler) ApproveApplication(c *gin.Context) {
	if err := h.collab.Approve(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) RejectApplication(c *gin.Context) {
	app, err := h.collab.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, app)
}
