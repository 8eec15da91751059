// Package handler is the single entry point: it authenticates the transport
// method, parses the JSON envelope, routes by action and maps domain errors
// to status codes.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"mercadogo/backend/internal/auth"
	"mercadogo/backend/internal/dm"
	"mercadogo/backend/internal/listing"
	"mercadogo/backend/internal/models"
	"mercadogo/backend/pkg/logger"
)

// IdentityResolver exchanges a bearer token for an identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (auth.Identity, error)
}

type ProfileService interface {
	Ensure(ctx context.Context, identity string) (*models.Profile, error)
	SetUsername(ctx context.Context, identity, candidate string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, identity string, patch map[string]any) (*models.Profile, error)
}

type ChatService interface {
	List(ctx context.Context, afterID int64, limit int) ([]models.ChatMessage, error)
	Send(ctx context.Context, identity, content string) (*models.ChatMessage, error)
}

type ListingService interface {
	Create(ctx context.Context, identity string, in listing.CreateInput) (*models.Listing, error)
	Get(ctx context.Context, id int64) (*models.Listing, error)
	ListMine(ctx context.Context, identity string, limit int) ([]models.ListingSummary, error)
	ListByUser(ctx context.Context, username string, limit int) ([]models.ListingSummary, error)
	ListAll(ctx context.Context, regionCode, titleQuery string, limit int) ([]models.ListingSummary, error)
}

type DMService interface {
	Start(ctx context.Context, identity string, in dm.StartInput) (*models.ThreadView, error)
	GetThread(ctx context.Context, identity string, threadID int64) (*models.ThreadView, error)
	ListMessages(ctx context.Context, identity string, threadID, afterID int64, limit int) ([]models.ThreadMessage, error)
	Send(ctx context.Context, identity string, threadID int64, content string) (*models.ThreadMessage, error)
	ListThreads(ctx context.Context, identity string, listingID *int64, limit int) ([]models.ThreadView, error)
}

type Handler struct {
	Auth     IdentityResolver
	Profiles ProfileService
	Chat     ChatService
	Listings ListingService
	DM       DMService

	log logger.Logger
}

func NewHandler(authr IdentityResolver, profiles ProfileService, chat ChatService,
	listings ListingService, dmSvc DMService, log logger.Logger) *Handler {
	return &Handler{
		Auth:     authr,
		Profiles: profiles,
		Chat:     chat,
		Listings: listings,
		DM:       dmSvc,
		log:      log.Named("api"),
	}
}

// Register mounts the action endpoint and the liveness probe.
func (h *Handler) Register(r *gin.Engine) {
	r.Any("/api/app", h.Dispatch)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
