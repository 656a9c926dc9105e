package handlers

import (
	"time"

	"github.com/linklite/linklite/internal/analytics"
	"github.com/linklite/linklite/internal/link"
)

// ShortenRequest is the request for creating a short link.
type ShortenRequest struct {
	Body struct {
		URL         string     `doc:"The URL to shorten"                example:"https://example.com/very/long/path" format:"uri" json:"url" maxLength:"2048"`
		CustomAlias string     `doc:"Optional user-chosen path segment" example:"my-link"                            json:"customAlias,omitempty" pattern:"^[a-z0-9_-]{3,30}$"`
		ExpiresAt   *time.Time `doc:"Optional expiry timestamp"         json:"expiresAt,omitempty"`
		Password    string     `doc:"Optional access password"          json:"password,omitempty"`
		Title       string     `json:"title,omitempty"       maxLength:"200"`
		Description string     `json:"description,omitempty" maxLength:"1000"`
		Tags        []string   `json:"tags,omitempty"`
	}
}

// LinkPayload is the API representation of a link.
type LinkPayload struct {
	ID          string     `json:"id"`
	Code        string     `json:"shortCode"`
	CustomAlias string     `json:"customAlias,omitempty"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"originalUrl"`
	Status      string     `json:"status"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Clicks      int64      `json:"clicks"`
	LastClickAt *time.Time `json:"lastClickAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ShortenResponse is the response for a successfully created short link.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkPayload
}

// ListLinksResponse is the response for listing the user's links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkPayload `json:"links"`
	}
}

// DeleteLinkRequest identifies the link to delete.
type DeleteLinkRequest struct {
	ID string `doc:"Link ID" format:"uuid" path:"id"`
}

// DeleteLinkResponse confirms a cascade delete.
type DeleteLinkResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ResolveRequest is the request for resolving a short link.
type ResolveRequest struct {
	Code string `doc:"Short code or custom alias" example:"x7Kp2a" path:"code"`
}

// ResolveResponse redirects to the destination URL.
type ResolveResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The destination URL" header:"Location"`
	}
}

// AnalyticsRequest selects the link and reporting window.
type AnalyticsRequest struct {
	URLID string `doc:"Link ID"                       format:"uuid" query:"urlId" required:"true"`
	Range string `doc:"Reporting window ending today" enum:"7d,30d,90d" query:"range"`
}

// AnalyticsResponse carries the aggregated payload.
type AnalyticsResponse struct {
	Body analytics.Summary
}

// SignupRequest registers a new user.
type SignupRequest struct {
	Body struct {
		Name     string `json:"name"     maxLength:"100" minLength:"1"`
		Email    string `format:"email"  json:"email"`
		Password string `json:"password" maxLength:"72"  minLength:"8"`
	}
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Body struct {
		Email    string `format:"email" json:"email"`
		Password string `json:"password"`
	}
}

// SessionResponse returns a session token and the account it belongs to.
type SessionResponse struct {
	Body struct {
		Token          string `json:"token"`
		UserID         string `json:"userId"`
		Name           string `json:"name"`
		Email          string `json:"email"`
		RemainingQuota int64  `json:"remainingQuota"`
	}
}

func toPayload(l *link.Link, baseURL string) LinkPayload {
	return LinkPayload{
		ID:          l.ID.String(),
		Code:        l.Code,
		CustomAlias: l.CustomAlias,
		ShortURL:    baseURL + "/" + l.Slug(),
		OriginalURL: l.OriginalURL,
		Status:      string(l.Status),
		Title:       l.Title,
		Description: l.Description,
		Tags:        l.Tags,
		Clicks:      l.Clicks,
		LastClickAt: l.LastClickAt,
		ExpiresAt:   l.ExpiresAt,
		CreatedAt:   l.CreatedAt,
	}
}
