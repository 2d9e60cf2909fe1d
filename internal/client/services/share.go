package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
)

// ShareService creates and opens time-limited public profile links.
type ShareService struct {
	client    client.Client
	mediaBase string
}

// NewShareService binds the service to an API client. mediaBase is the
// origin relative file paths of shared profiles are resolved against.
func NewShareService(c client.Client, mediaBase string) *ShareService {
	return &ShareService{client: c, mediaBase: mediaBase}
}

// Generate asks for a link to the signed-in user's profile valid for days.
func (s *ShareService) Generate(ctx context.Context, days int) (*models.ShareLink, error) {
	if days < 1 {
		return nil, ErrInvalidExpiry
	}
	url, err := s.client.GenerateShareLink(ctx, days)
	if err != nil {
		return nil, err
	}
	return &models.ShareLink{URL: url, ExpiryDays: days}, nil
}

// FetchShared opens a shared profile by token or by the full share URL. An
// unknown or expired link is reported as ErrLinkExpired. Attachment paths in
// the result are absolute.
func (s *ShareService) FetchShared(ctx context.Context, link string) (*models.Profile, error) {
	token := ShareToken(link)
	if token == "" {
		return nil, ErrLinkExpired
	}

	p, err := s.client.FetchSharedProfile(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrRejected) && client.StatusOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", ErrLinkExpired, err)
		}
		return nil, err
	}

	if u, ok := p.ProfilePhoto.URL(); ok {
		p.ProfilePhoto = models.RemoteAttachment(ResolveFileURL(s.mediaBase, u))
	}
	if u, ok := p.Resume.URL(); ok {
		p.Resume = models.RemoteAttachment(ResolveFileURL(s.mediaBase, u))
	}
	return p, nil
}

// ShareToken extracts the token from a share URL; a bare token is returned
// as is.
func ShareToken(link string) string {
	link = strings.TrimSpace(link)
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		link = link[i+1:]
	}
	return link
}

// ResolveFileURL turns a media path returned by the API into an absolute
// URL. Absolute URLs and empty paths are returned unchanged.
func ResolveFileURL(base, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
