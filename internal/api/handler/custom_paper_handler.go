package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/service"
	"github.com/studahub/backend/pkg/response"
)

type customPaperRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"required"`
	Subject     string     `json:"subject"`
	Pages       int        `json:"pages" binding:"min=1"`
	Urgency     string     `json:"urgency"`
	Deadline    *time.Time `json:"deadline"`
}

// RequestCustomPaper opens a new request; it starts at REQUESTED and waits
// for a staff quote.
func (h *Handler) RequestCustomPaper(c *gin.Context) {
	var req customPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	urgency := model.Urgency(req.Urgency)
	if urgency == "" {
		urgency = model.UrgencyNormal
	}
	p, err := h.papers.Request(c.Request.Context(), middleware.UserID(c), service.CustomPaperInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Pages:       req.Pages,
		Urgency:     urgency,
		Deadline:    req.Deadline,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) GetCustomPaper(c *gin.Context) {
	p, err := h.papers.Get(c.Request.Context(), middleware.UserID(c), middleware.IsStaff(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

func (h *Handler) MyCustomPapers(c *gin.Context) {
	page, size := pagination(c)
	list, err := h.papers.ListMine(c.Request.Context(), middleware.UserID(c), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

func (h *Handler) ListCustomPapers(c *gin.Context) {
	page, size := pagination(c)
	status := model.CustomPaperStatus(c.Query("status"))
	list, err := h.papers.ListAll(c.Request.Context(), status, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

type quoteRequest struct {
	PriceCents int64      `json:"price_cents" binding:"required,min=1"`
	Deadline   *time.Time `json:"deadline"`
}

func (h *Handler) QuoteCustomPaper(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.papers.Quote(c.Request.Context(), c.Param("id"), req.PriceCents, req.Deadline)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// ApproveCustomPaper is the student's acceptance of the quote. Only the
// owner may call it and only while the request sits at QUOTED.
func (h *Handler) ApproveCustomPaper(c *gin.Context) {
	p, err := h.papers.Approve(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

func (h *Handler) RejectCustomPaper(c *gin.Context) {
	p, err := h.papers.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

type progressRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) ProgressCustomPaper(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.papers.Progress(c.Request.Context(), c.Param("id"), model.CustomPaperStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

type deliverRequest struct {
	FileURL string `json:"file_url" binding:"required,url"`
}

func (h *Handler) DeliverCustomPaper(c *gin.Context) {
	var req deliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.papers.Deliver(c.Request.Context(), c.Param("id"), req.FileURL)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

type paperMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

func (h *Handler) AddCustomPaperMessage(c *gin.Context) {
	var req paperMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.papers.AddMessage(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.Role(c), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) CustomPaperMessages(c *gin.Context) {
	list, err := h.papers.Messages(c.Request.Context(), middleware.UserID(c), middleware.IsStaff(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
