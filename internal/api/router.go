package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studahub/backend/internal/api/handler"
	"github.com/studahub/backend/internal/api/middleware"
	"github.com/studahub/backend/internal/config"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/service"
)

// NewRouter wires middleware and every route group. Auth-free routes come
// first; /admin sits behind RequireRole.
func NewRouter(cfg *config.Config, h *handler.Handler, auth service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Mode)
	handler.RegisterValidators()
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("studahub-backend"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		v1.GET("/papers", h.ListPapers)
		v1.GET("/papers/:id", h.GetPaper)
		v1.GET("/courses", h.ListCourses)
		v1.GET("/courses/:id", h.GetCourse)
		v1.GET("/ebooks", h.ListEbooks)
		v1.GET("/ebooks/:id", h.GetEbook)

		v1.GET("/blog", h.ListPosts)
		v1.GET("/blog/:slug", h.GetPost)

		v1.POST("/contact", h.SubmitContact)
		v1.POST("/newsletter/subscribe", h.Subscribe)
		v1.POST("/newsletter/unsubscribe", h.Unsubscribe)

		v1.POST("/webhooks/payment", h.PaymentWebhook)
		v1.POST("/webhooks/asaas", h.PaymentWebhook)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(auth))
	{
		authed.POST("/checkout", h.Checkout)
		authed.POST("/checkout/create", h.Checkout)
		authed.GET("/orders", h.MyOrders)
		authed.GET("/orders/:id", h.GetOrder)

		authed.GET("/library", h.MyLibrary)
		authed.GET("/enrollments", h.MyEnrollments)
		authed.GET("/papers/:id/access", h.PaperAccess)
		authed.GET("/ebooks/:id/access", h.EbookAccess)
		authed.GET("/courses/:id/access", h.CourseAccess)

		authed.POST("/custom-papers", h.RequestCustomPaper)
		authed.GET("/custom-papers", h.MyCustomPapers)
		authed.GET("/custom-papers/:id", h.GetCustomPaper)
		authed.POST("/custom-papers/:id/approve", h.ApproveCustomPaper)
		authed.GET("/custom-papers/:id/messages", h.CustomPaperMessages)
		authed.POST("/custom-papers/:id/messages", h.AddCustomPaperMessage)

		authed.POST("/collaborators/apply", h.Apply)
		authed.GET("/collaborators/application", h.MyApplication)

		authed.POST("/posts/:id/comments", h.CommentPost)
		authed.GET("/posts/:id/comments", h.PostComments)
		authed.POST("/posts/:id/like", h.LikePost)
		authed.DELETE("/posts/:id/like", h.UnlikePost)
	}

	staff := v1.Group("/staff")
	staff.Use(middleware.Auth(auth), middleware.RequireRole(model.RoleAdmin, model.RoleCollaborator))
	{
		staff.GET("/custom-papers", h.ListCustomPapers)
		staff.POST("/custom-papers/:id/quote", h.QuoteCustomPaper)
		staff.POST("/custom-papers/:id/reject", h.RejectCustomPaper)
		staff.POST("/custom-papers/:id/status", h.ProgressCustomPaper)
		staff.POST("/custom-papers/:id/deliver", h.DeliverCustomPaper)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(auth), middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/orders", h.AdminListOrders)

		admin.POST("/papers", h.CreatePaper)
		admin.PUT("/papers/:id", h.UpdatePaper)
		admin.POST("/courses", h.CreateCourse)
		admin.PUT("/courses/:id", h.UpdateCourse)
		admin.POST("/ebooks", h.CreateEbook)
		admin.PUT("/ebooks/:id", h.UpdateEbook)

		admin.GET("/messages", h.ListMessages)
		admin.POST("/messages/:id/read", h.MarkMessageRead)
		admin.POST("/messages/:id/archive", h.ArchiveMessage)
		admin.POST("/messages/:id/reply", h.ReplyMessage)

		admin.GET("/applications", h.ListApplications)
		admin.GET("/applications/:id", h.GetApplication)
		admin.POST("/applications/:id/stage", h.AdvanceApplicationStage)
		admin.POST("/applications/:id/evaluate", h.EvaluateApplication)
		admin.POST("/applications/:id/approve", h.ApproveApplication)
		admin.POST("/applications/:id/reject", h.RejectApplication)

		admin.POST("/blog", h.CreatePost)
		admin.POST("/blog/:id/publish", h.PublishPost)

		admin.POST("/newsletter/campaigns", h.SendCampaign)
	}

	return r
}
