package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/linklite/linklite/internal/auth"
	"github.com/linklite/linklite/internal/click"
	"github.com/linklite/linklite/internal/link"
	"github.com/linklite/linklite/internal/messaging"
	"github.com/linklite/linklite/internal/user"
	"go.uber.org/zap"
)

// LinkHandler handles link creation, listing, deletion, and resolution.
type LinkHandler struct {
	service       *link.Service
	repo          link.Repository
	baseURL       string
	publishAccess messaging.Publish[click.AccessEvent]
	logger        *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *link.Service,
	repo link.Repository,
	baseURL string,
	publishAccess messaging.Publish[click.AccessEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:       service,
		repo:          repo,
		baseURL:       baseURL,
		publishAccess: publishAccess,
		logger:        logger,
	}
}

// CreateShortLink creates a new short link for the authenticated user.
func (h *LinkHandler) CreateShortLink(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	l, err := h.service.Create(ctx, userID, link.CreateInput{
		OriginalURL: req.Body.URL,
		CustomAlias: req.Body.CustomAlias,
		ExpiresAt:   req.Body.ExpiresAt,
		Password:    req.Body.Password,
		Title:       req.Body.Title,
		Description: req.Body.Description,
		Tags:        req.Body.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, link.ErrInvalidURL):
			return nil, huma.Error400BadRequest("invalid destination URL")
		case errors.Is(err, link.ErrInvalidAlias):
			return nil, huma.Error400BadRequest("custom alias must be 3-30 lowercase alphanumeric, hyphen, or underscore characters")
		case errors.Is(err, link.ErrAliasTaken):
			return nil, huma.Error409Conflict("custom alias already in use")
		case errors.Is(err, user.ErrQuotaExceeded):
			return nil, huma.Error403Forbidden("monthly URL creation quota exceeded")
		default:
			h.logger.Error("failed to create link", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create link")
		}
	}

	resp := &ShortenResponse{Body: toPayload(l, h.baseURL)}
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

// ListLinks returns the authenticated user's links, newest first.
func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	links, err := h.service.List(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkPayload, 0, len(links))

	for _, l := range links {
		resp.Body.Links = append(resp.Body.Links, toPayload(l, h.baseURL))
	}

	return resp, nil
}

// DeleteLink removes the user's link together with its click events and rollups.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid link id")
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to delete link", zap.String("link_id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	resp := &DeleteLinkResponse{}
	resp.Body.Message = "link and related data deleted"

	return resp, nil
}

// Resolve redirects a short path segment to its destination, recording the
// click on the way. Click recording is advisory: a publish failure is logged
// and the redirect still goes out.
func (h *LinkHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	slug := strings.TrimSpace(req.Code)
	if slug == "" {
		return nil, huma.Error400BadRequest("invalid short code")
	}

	l, err := h.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found or inactive")
		}

		h.logger.Error("failed to resolve link", zap.String("slug", slug), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	now := time.Now().UTC()

	if l.Expired(now) {
		if _, err := h.repo.MarkExpired(ctx, l.ID); err != nil {
			h.logger.Error("failed to mark link expired",
				zap.String("link_id", l.ID.String()),
				zap.Error(err),
			)
		}

		return nil, huma.Error410Gone("short link has expired")
	}

	meta := RequestMetaFromContext(ctx)
	event := &click.AccessEvent{
		LinkID:    l.ID,
		Slug:      slug,
		Timestamp: now,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishAccess(event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("slug", slug),
			zap.Error(err),
		)
	}

	resp := &ResolveResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = l.OriginalURL

	return resp, nil
}
