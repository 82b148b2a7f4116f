package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/pkg/response"
)

// ListPapers godoc
// @Summary      List published papers
// @Tags         catalog
// @Produce      json
// @Param        page       query  int  false  "page number"
// @Param        page_size  query  int  false  "page size"
// @Success      200  {object}  response.Response
// @Router       /api/v1/papers [get]
func (h *Handler) ListPapers(c *gin.Context) {
	page, size := pagination(c)
	items, err := h.catalog.ListPapers(c.Request.Context(), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

func (h *Handler) GetPaper(c *gin.Context) {
	p, err := h.catalog.GetPaper(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

func (h *Handler) ListCourses(c *gin.Context) {
	page, size := pagination(c)
	items, err := h.catalog.ListCourses(c.Request.Context(), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

func (h *Handler) GetCourse(c *gin.Context) {
	crs, err := h.catalog.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, crs)
}

func (h *Handler) ListEbooks(c *gin.Context) {
	page, size := pagination(c)
	items, err := h.catalog.ListEbooks(c.Request.Context(), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

func (h *Handler) GetEbook(c *gin.Context) {
	e, err := h.catalog.GetEbook(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, e)
}

// PaperAccess reports whether the caller may download the paper file.
// Free papers are always accessible, paid ones only after a confirmed order.
func (h *Handler) PaperAccess(c *gin.Context) {
	ok, err := h.entitlements.HasPurchasedPaper(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"access": ok})
}

func (h *Handler) EbookAccess(c *gin.Context) {
	ok, err := h.entitlements.HasPurchasedEbook(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"access": ok})
}

func (h *Handler) CourseAccess(c *gin.Context) {
	ok, err := h.entitlements.IsEnrolled(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"access": ok})
}

// MyLibrary lists ebooks and papers the user owns.
func (h *Handler) MyLibrary(c *gin.Context) {
	items, err := h.entitlements.Library(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

func (h *Handler) MyEnrollments(c *gin.Context) {
	items, err := h.entitlements.Enrollments(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

type paperRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Pages       int    `json:"pages"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	FileURL     string `json:"file_url"`
	Published   bool   `json:"published"`
}

func (h *Handler) CreatePaper(c *gin.Context) {
	var req paperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p := &model.Paper{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Pages:       req.Pages,
		PriceCents:  req.PriceCents,
		FileURL:     req.FileURL,
		Published:   req.Published,
	}
	if err := h.catalog.CreatePaper(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) UpdatePaper(c *gin.Context) {
	p, err := h.catalog.GetPaper(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req paperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p.Title = req.Title
	p.Description = req.Description
	p.Subject = req.Subject
	p.Pages = req.Pages
	p.PriceCents = req.PriceCents
	p.FileURL = req.FileURL
	p.Published = req.Published
	if err := h.catalog.UpdatePaper(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

type courseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Hours       int    `json:"hours"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	Published   bool   `json:"published"`
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	crs := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Hours:       req.Hours,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	}
	if err := h.catalog.CreateCourse(c.Request.Context(), crs); err != nil {
		fail(c, err)
		return
	}
	response.Created(c, crs)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	crs, err := h.catalog.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	crs.Title = req.Title
	crs.Description = req.Description
	crs.Hours = req.Hours
	crs.PriceCents = req.PriceCents
	crs.Published = req.Published
	if err := h.catalog.UpdateCourse(c.Request.Context(), crs); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, crs)
}

type ebookRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Author      string `json:"author"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	FileURL     string `json:"file_url"`
	Published   bool   `json:"published"`
}

func (h *Handler) CreateEbook(c *gin.Context) {
	var req ebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e := &model.Ebook{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		PriceCents:  req.PriceCents,
		FileURL:     req.FileURL,
		Published:   req.Published,
	}
	if err := h.catalog.CreateEbook(c.Request.Context(), e); err != nil {
		fail(c, err)
		return
	}
	response.Created(c, e)
}

func (h *Handler) UpdateEbook(c *gin.Context) {
	e, err := h.catalog.GetEbook(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req ebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e.Title = req.Title
	e.Description = req.Description
	e.Author = req.Author
	e.PriceCents = req.PriceCents
	e.FileURL = req.FileURL
	e.Published = req.Published
	if err := h.catalog.UpdateEbook(c.Request.Context(), e); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, e)
}
