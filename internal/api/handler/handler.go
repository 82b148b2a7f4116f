package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/gateway"
	"github.com/studahub/backend/internal/repository"
	"github.com/studahub/backend/internal/service"
	"github.com/studahub/backend/pkg/response"
)

// Handler bundles every service the HTTP layer depends on.
type Handler struct {
	auth         service.AuthService
	catalog      service.CatalogService
	checkout     service.CheckoutService
	entitlements service.Entitlements
	webhooks     service.WebhookService
	papers       service.CustomPaperService
	contact      service.ContactService
	collab       service.CollaboratorService
	blog         service.BlogService
	newsletter   service.NewsletterService
	stats        service.StatsService
}

func New(
	auth service.AuthService,
	catalog service.CatalogService,
	checkout service.CheckoutService,
	entitlements service.Entitlements,
	webhooks service.WebhookService,
	papers service.CustomPaperService,
	contact service.ContactService,
	collab service.CollaboratorService,
	blog service.BlogService,
	newsletter service.NewsletterService,
	stats service.StatsService,
) *Handler {
	return &Handler{
		auth:         auth,
		catalog:      catalog,
		checkout:     checkout,
		entitlements: entitlements,
		webhooks:     webhooks,
		papers:       papers,
		contact:      contact,
		collab:       collab,
		blog:         blog,
		newsletter:   newsletter,
		stats:        stats,
	}
}

// fail maps service errors onto the response taxonomy: ownership problems
// are 403, missing rows 404, business-rule violations 422, gateway failures
// surface the upstream message as 400.
func fail(c *gin.Context, err error) {
	var gwErr *gateway.GatewayError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	case errors.As(err, &gwErr):
		response.BadRequest(c, gwErr.Message)
	case errors.Is(err, service.ErrNotQuoted),
		errors.Is(err, service.ErrBadTransition),
		errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrDuplicateApplication),
		errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrMissingQuote),
		errors.Is(err, service.ErrUnpublished):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrInvalidMethod),
		errors.Is(err, service.ErrUnknownStage):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
