package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/drehill/site-api/internal/domain"
	"github.com/drehill/site-api/internal/pkg/id"
)

// URLPrefix is where uploaded objects are served from. Object keys are
// appended verbatim, so a stored URL converts back to its S3 key.
const URLPrefix = "/api/blog/uploads/"

// ObjectStore is the object storage backend for uploaded assets.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

type Service interface {
	// UploadImage stores a cover image and returns its serving URL.
	UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	// UploadAttachment stores one post attachment and returns its record.
	UploadAttachment(ctx context.Context, r io.Reader, filename, contentType string) (domain.Attachment, error)
	// Download streams a stored object.
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

type service struct {
	store ObjectStore
}

func NewService(store ObjectStore) Service { return &service{store: store} }

func (s *service) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	key := "images/" + id.New() + "-" + sanitize(filename)
	if err := s.store.Upload(ctx, key, r, contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return ObjectURL(key), nil
}

func (s *service) UploadAttachment(ctx context.Context, r io.Reader, filename, contentType string) (domain.Attachment, error) {
	key := "attachments/" + id.New() + "-" + sanitize(filename)
	if err := s.store.Upload(ctx, key, r, contentType); err != nil {
		return domain.Attachment{}, fmt.Errorf("upload attachment: %w", err)
	}
	return domain.Attachment{
		AttachmentID: id.New(),
		Name:         filename,
		URL:          ObjectURL(key),
		Key:          key,
		Type:         contentType,
	}, nil
}

func (s *service) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.store.Download(ctx, key)
}

// ObjectURL returns the serving URL for an object key.
func ObjectURL(key string) string { return URLPrefix + key }

// KeyFromURL recovers the object key from a serving URL. Returns false for
// external or malformed URLs.
func KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, URLPrefix)
	return key, key != ""
}

// sanitize strips directories and whitespace from a client-supplied filename.
func sanitize(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return strings.ReplaceAll(base, " ", "-")
}
