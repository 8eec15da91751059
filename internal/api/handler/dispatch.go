package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mercadogo/backend/internal/dm"
	"mercadogo/backend/internal/listing"
	"mercadogo/backend/internal/models"
	"mercadogo/backend/pkg/errors"
)

// envelope is the union of every action's request fields. Actions pick the
// fields they need; the rest stay at their zero values.
type envelope struct {
	Action string `json:"action"`
	Token  string `json:"token"`

	Username       *string        `json:"username"`
	Patch          map[string]any `json:"patch"`
	Content        string         `json:"content"`
	Limit          int            `json:"limit"`
	AfterID        int64          `json:"after_id"`
	ID             *int64         `json:"id"`
	Title          string         `json:"title"`
	Address        string         `json:"address"`
	Price          *float64       `json:"price"`
	Description    string         `json:"description"`
	ImageURL       *string        `json:"image_url"`
	RegionCode     string         `json:"region_code"`
	Search         string         `json:"search"`
	TargetUsername *string        `json:"target_username"`
	ListingID      *int64         `json:"listing_id"`
	ThreadID       *int64         `json:"thread_id"`
}

// Dispatch is the single POST entry point.
func (h *Handler) Dispatch(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var req envelope
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	c.Set("action", req.Action)

	switch req.Action {
	case "me":
		h.me(c, &req)
	case "set-username":
		h.setUsername(c, &req)
	case "get-profile":
		h.getProfile(c, &req)
	case "update-profile":
		h.updateProfile(c, &req)
	case "list-messages":
		h.listMessages(c, &req)
	case "send-message":
		h.sendMessage(c, &req)
	case "create-listing":
		h.createListing(c, &req)
	case "list-my-listings":
		h.listMyListings(c, &req)
	case "list-user-listings":
		h.listUserListings(c, &req)
	case "list-all-listings":
		h.listAllListings(c, &req)
	case "get-listing":
		h.getListing(c, &req)
	case "start-dm":
		h.startDm(c, &req)
	case "get-dm-thread":
		h.getDmThread(c, &req)
	case "list-dm-messages":
		h.listDmMessages(c, &req)
	case "send-dm-message":
		h.sendDmMessage(c, &req)
	case "list-dm-threads":
		h.listDmThreads(c, &req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
	}
}

// identify resolves the envelope token. Writes the 401 response itself and
// returns ok=false when the token is missing or rejected.
func (h *Handler) identify(c *gin.Context, req *envelope) (string, bool) {
	id, err := h.Auth.Resolve(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, err)
		return "", false
	}
	return id.ID, true
}

// fail maps a domain error onto its HTTP status.
func (h *Handler) fail(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "action", c.GetString("action"), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ---------- Profiles ----------

func (h *Handler) me(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	p, err := h.Profiles.Ensure(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) setUsername(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	candidate := ""
	if req.Username != nil {
		candidate = *req.Username
	}
	p, err := h.Profiles.SetUsername(c.Request.Context(), identity, candidate)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": p.Username})
}

func (h *Handler) getProfile(c *gin.Context, req *envelope) {
	if req.Username != nil && *req.Username != "" {
		p, err := h.Profiles.GetByUsername(c.Request.Context(), *req.Username)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide username or token"})
		return
	}
	h.me(c, req)
}

func (h *Handler) updateProfile(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	p, err := h.Profiles.Update(c.Request.Context(), identity, req.Patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ---------- Chat ----------

func (h *Handler) listMessages(c *gin.Context, req *envelope) {
	msgs, err := h.Chat.List(c.Request.Context(), req.AfterID, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) sendMessage(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	msg, err := h.Chat.Send(c.Request.Context(), identity, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// ---------- Listings ----------

func (h *Handler) createListing(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	in := listing.CreateInput{
		Title:       req.Title,
		Address:     req.Address,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		RegionCode:  req.RegionCode,
	}
	if req.Price == nil {
		h.fail(c, errors.InvalidArg("Price must be a non-negative number"))
		return
	}
	in.Price = *req.Price

	l, err := h.Listings.Create(c.Request.Context(), identity, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

func (h *Handler) listMyListings(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	listings, err := h.Listings.ListMine(c.Request.Context(), identity, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": emptyIfNilSummaries(listings)})
}

func (h *Handler) listUserListings(c *gin.Context, req *envelope) {
	if req.Username == nil || *req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username"})
		return
	}
	listings, err := h.Listings.ListByUser(c.Request.Context(), *req.Username, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": emptyIfNilSummaries(listings)})
}

func (h *Handler) listAllListings(c *gin.Context, req *envelope) {
	listings, err := h.Listings.ListAll(c.Request.Context(), req.RegionCode, req.Search, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": emptyIfNilSummaries(listings)})
}

func (h *Handler) getListing(c *gin.Context, req *envelope) {
	if req.ID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}
	l, err := h.Listings.Get(c.Request.Context(), *req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

// ---------- Direct messages ----------

func (h *Handler) startDm(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	t, err := h.DM.Start(c.Request.Context(), identity, dm.StartInput{
		TargetUsername: req.TargetUsername,
		ListingID:      req.ListingID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thread": t})
}

func (h *Handler) getDmThread(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	if req.ThreadID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing thread_id"})
		return
	}
	t, err := h.DM.GetThread(c.Request.Context(), identity, *req.ThreadID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thread": t})
}

func (h *Handler) listDmMessages(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	if req.ThreadID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing thread_id"})
		return
	}
	msgs, err := h.DM.ListMessages(c.Request.Context(), identity, *req.ThreadID, req.AfterID, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.ThreadMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) sendDmMessage(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	if req.ThreadID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing thread_id"})
		return
	}
	msg, err := h.DM.Send(c.Request.Context(), identity, *req.ThreadID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *Handler) listDmThreads(c *gin.Context, req *envelope) {
	identity, ok := h.identify(c, req)
	if !ok {
		return
	}
	threads, err := h.DM.ListThreads(c.Request.Context(), identity, req.ListingID, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if threads == nil {
		threads = []models.ThreadView{}
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

func emptyIfNilSummaries(s []models.ListingSummary) []models.ListingSummary {
	if s == nil {
		return []models.ListingSummary{}
	}
	return s
}
