package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readstash/readstash/app/content"
	"github.com/readstash/readstash/app/database"
	"github.com/readstash/readstash/app/ingest"
)

func NewHandler(itemRepo database.ItemRepository, creatorRepo database.CreatorRepository,
	discoveryRepo database.DiscoveryRepository, ingester IngesterInterface,
	discoverer DiscovererInterface) *Handler {
	return &Handler{
		itemRepo:      itemRepo,
		creatorRepo:   creatorRepo,
		discoveryRepo: discoveryRepo,
		ingester:      ingester,
		discoverer:    discoverer,
	}
}

// ingestRequest is the POST /api/items body. A bare URL saves generic
// web content; everything else is a provider payload ingestion.
type ingestRequest struct {
	URL string `json:"url"`

	Provider    string `json:"provider"`
	ContentType string `json:"contentType"`

	ProviderID   string `json:"providerId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CanonicalURL string `json:"canonicalUrl"`
	ImageURL     string `json:"imageUrl"`
	Creator      string `json:"creator"`

	PublishedAt     *int64 `json:"publishedAt"`
	DurationSeconds *int   `json:"durationSeconds"`

	Payload map[string]interface{} `json:"payload"`
}

type itemResponse struct {
	ID              string `json:"id"`
	Provider        string `json:"provider"`
	ContentType     string `json:"contentType"`
	ProviderID      string `json:"providerId"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	CanonicalURL    string `json:"canonicalUrl"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Creator         string `json:"creator"`
	CreatorID       string `json:"creatorId,omitempty"`
	CreatorImageURL string `json:"creatorImageUrl,omitempty"`
	PublishedAt     *int64 `json:"publishedAt,omitempty"`
	DurationSeconds *int   `json:"durationSeconds,omitempty"`
	CreatedAt       int64  `json:"createdAt"`
}

func presentItem(item content.Item) itemResponse {
	return itemResponse{
		ID:              item.ID,
		Provider:        string(item.Provider),
		ContentType:     string(item.ContentType),
		ProviderID:      item.ProviderID,
		Title:           item.Title,
		Description:     item.Description,
		CanonicalURL:    item.CanonicalURL,
		ImageURL:        item.ImageURL,
		Creator:         item.Creator,
		CreatorID:       item.CreatorID,
		CreatorImageURL: item.CreatorImageURL,
		PublishedAt:     item.PublishedAt,
		DurationSeconds: item.DurationSeconds,
		CreatedAt:       item.CreatedAt,
	}
}

func (h *Handler) IngestItem(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	var (
		item *content.Item
		err  error
	)

	if req.URL != "" {
		item, err = h.ingester.IngestURL(c.Request.Context(), req.URL)
	} else {
		item, err = h.ingester.IngestPayload(c.Request.Context(), ingest.Request{
			Provider:        content.Provider(req.Provider),
			ContentType:     content.ContentType(req.ContentType),
			ProviderID:      req.ProviderID,
			Title:           req.Title,
			Description:     req.Description,
			CanonicalURL:    req.CanonicalURL,
			ImageURL:        req.ImageURL,
			Creator:         req.Creator,
			PublishedAt:     req.PublishedAt,
			DurationSeconds: req.DurationSeconds,
			Payload:         req.Payload,
		})
	}

	if err != nil {
		var validationErr *content.ValidationError
		switch {
		case errors.As(err, &validationErr):
			slog.Error("Item rejected by validation", "provider_id", validationErr.ProviderID,
				"field", validationErr.Field, "error", validationErr.Message)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "Validation failed",
				"field":      validationErr.Field,
				"message":    validationErr.Message,
				"violations": validationErr.Errors,
			})
		case errors.Is(err, ingest.ErrFetchFailed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Could not save this link",
				"message": "The page could not be fetched",
			})
		default:
			slog.Error("Ingestion failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, presentItem(*item))
}

func (h *Handler) ListItems(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	items, err := h.itemRepo.GetRecentItems(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	presented := make([]itemResponse, 0, len(items))
	for _, item := range items {
		presented = append(presented, presentItem(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"items": presented,
		"total": len(presented),
	})
}

func (h *Handler) DiscoverFeeds(c *gin.Context) {
	origin := c.Query("origin")
	if origin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing origin parameter"})
		return
	}

	entry, err := h.discoverer.GetOrProbe(c.Request.Context(), origin)
	if err != nil {
		slog.Error("Feed discovery failed", "origin", origin, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discovery failed", "details": err.Error()})
		return
	}

	response := gin.H{
		"origin":     entry.SourceOrigin,
		"status":     entry.Status,
		"candidates": entry.Candidates,
		"checked_at": entry.CheckedAt.Format(time.RFC3339),
		"expires_at": entry.ExpiresAt.Format(time.RFC3339),
	}
	if entry.LastError != "" {
		response["last_error"] = entry.LastError
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		stats["items"] = itemCount
	}
	if creatorCount, err := h.creatorRepo.GetCreatorCount(); err == nil {
		stats["creators"] = creatorCount
	}
	if entryCount, err := h.discoveryRepo.GetEntryCount(); err == nil {
		stats["discovery_entries"] = entryCount
	}

	c.JSON(http.StatusOK, stats)
}
