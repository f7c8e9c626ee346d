package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/drehill/site-api/internal/application/file"
	"github.com/drehill/site-api/internal/domain"
	"github.com/drehill/site-api/internal/infrastructure/smtp"
	"github.com/drehill/site-api/internal/pkg/id"
	"github.com/drehill/site-api/internal/pkg/validate"
	"github.com/gosimple/slug"
)

const relatedLimit = 3

// Repository is the post store.
type Repository interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Post, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Post, error)
	Update(ctx context.Context, postID string, updates map[string]interface{}) error
	Delete(ctx context.Context, postID string) error
}

// SubscriberLister supplies the mailing list for broadcasts.
type SubscriberLister interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// ObjectDeleter removes stored assets when their post goes away.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Service interface {
	ListPublic(ctx context.Context) ([]domain.Post, error)
	GetPublicBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	Create(ctx context.Context, in domain.PostInput) (*domain.Post, error)
	Update(ctx context.Context, slug string, in domain.PostInput) (*domain.Post, error)
	// Delete accepts a post ID or a slug and removes the post together with
	// its stored cover image and attachments.
	Delete(ctx context.Context, identifier string) error
	ListByCategory(ctx context.Context, category string) ([]domain.Post, error)
	Related(ctx context.Context, slug string) ([]domain.Post, error)
	SendToSubscribers(ctx context.Context, slug string) error
	DeleteAttachment(ctx context.Context, postID, attachmentID string) error
}

type service struct {
	repo        Repository
	subscribers SubscriberLister
	objects     ObjectDeleter
	mailer      smtp.Mailer
	siteBaseURL string
}

func NewService(repo Repository, subscribers SubscriberLister, objects ObjectDeleter, mailer smtp.Mailer, siteBaseURL string) Service {
	return &service{
		repo:        repo,
		subscribers: subscribers,
		objects:     objects,
		mailer:      mailer,
		siteBaseURL: siteBaseURL,
	}
}

func (s *service) ListPublic(ctx context.Context) ([]domain.Post, error) {
	return s.repo.List(ctx, true)
}

func (s *service) GetPublicBySlug(ctx context.Context, slugStr string) (*domain.Post, error) {
	p, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, fmt.Errorf("post not found: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.repo.List(ctx, false)
}

func (s *service) GetBySlug(ctx context.Context, slugStr string) (*domain.Post, error) {
	return s.repo.GetBySlug(ctx, slugStr)
}

func (s *service) Create(ctx context.Context, in domain.PostInput) (*domain.Post, error) {
	p, err := s.buildPost(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetBySlug(ctx, p.Slug); err == nil {
		return nil, fmt.Errorf("a post with this title already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	p.PostID = id.New()
	p.PublishedDate = now
	p.UpdatedDate = now
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, slugStr string, in domain.PostInput) (*domain.Post, error) {
	existing, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	// A PUT merges: optional fields absent from the body keep their stored
	// values. An explicit empty array still clears attachments or tags.
	if in.Image == "" && in.CoverImage == "" {
		in.Image, in.CoverImage = existing.Image, existing.CoverImage
	}
	if in.ReadTime <= 0 {
		in.ReadTime = existing.ReadTime
	}
	if in.Attachments == nil {
		in.Attachments = existing.Attachments
	}
	if in.Tags == nil {
		in.Tags = domain.Tags(existing.Tags)
	}
	if in.IsPublished == nil {
		in.IsPublished = &existing.IsPublished
	}
	p, err := s.buildPost(in)
	if err != nil {
		return nil, err
	}
	if p.Slug != existing.Slug {
		if _, err := s.repo.GetBySlug(ctx, p.Slug); err == nil {
			return nil, fmt.Errorf("a post with this title already exists: %w", domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	p.PostID = existing.PostID
	p.PublishedDate = existing.PublishedDate
	p.UpdatedDate = now
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, identifier string) error {
	p, err := s.repo.Get(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = s.repo.GetBySlug(ctx, identifier)
	}
	if err != nil {
		return err
	}

	s.deleteObject(ctx, p.Image)
	if p.CoverImage != p.Image {
		s.deleteObject(ctx, p.CoverImage)
	}
	for _, att := range p.Attachments {
		if att.Key != "" {
			if err := s.objects.Delete(ctx, att.Key); err != nil {
				slog.Warn("failed to delete attachment object", "key", att.Key, "err", err)
			}
		}
	}
	return s.repo.Delete(ctx, p.PostID)
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]domain.Post, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *service) Related(ctx context.Context, slugStr string) ([]domain.Post, error) {
	p, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.ListByCategory(ctx, p.Category)
	if err != nil {
		return nil, err
	}
	related := make([]domain.Post, 0, relatedLimit)
	for _, c := range candidates {
		if c.Slug == p.Slug {
			continue
		}
		related = append(related, c)
		if len(related) == relatedLimit {
			break
		}
	}
	return related, nil
}

func (s *service) SendToSubscribers(ctx context.Context, slugStr string) error {
	p, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return err
	}
	emails, err := s.subscribers.ListEmails(ctx)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}
	link := s.siteBaseURL + "/blog/" + p.Slug
	return s.mailer.Send(smtp.Email{
		Bcc:     emails, // BCC for privacy
		Subject: "New Blog Update: " + p.Title,
		Text:    fmt.Sprintf("Check out our latest blog post: %s\n\n%s\n\nRead more: %s", p.Title, p.Description, link),
		HTML:    fmt.Sprintf("<h2>%s</h2><p>%s</p><p><a href=%q>Read the full post</a></p>", p.Title, p.Description, link),
	})
}

func (s *service) DeleteAttachment(ctx context.Context, postID, attachmentID string) error {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return err
	}
	kept := make([]domain.Attachment, 0, len(p.Attachments))
	var removed *domain.Attachment
	for i := range p.Attachments {
		if p.Attachments[i].AttachmentID == attachmentID {
			removed = &p.Attachments[i]
			continue
		}
		kept = append(kept, p.Attachments[i])
	}
	if removed == nil {
		return fmt.Errorf("attachment not found: %w", domain.ErrNotFound)
	}
	if removed.Key != "" {
		if err := s.objects.Delete(ctx, removed.Key); err != nil {
			slog.Warn("failed to delete attachment object", "key", removed.Key, "err", err)
		}
	}
	return s.repo.Update(ctx, postID, map[string]interface{}{"attachments": kept})
}

// buildPost validates the input and assembles a post with the derived slug
// and mirrored image fields. Timestamps and IDs are left to the caller.
func (s *service) buildPost(in domain.PostInput) (*domain.Post, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if !validCategory(in.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", in.Category, domain.ErrBadRequest)
	}

	// The new site treats image and coverImage as the same value; accept
	// either and mirror it into the other.
	image, cover := in.Image, in.CoverImage
	if image == "" {
		image = cover
	}
	if cover == "" {
		cover = image
	}
	if image == "" {
		return nil, fmt.Errorf("cover image is required: %w", domain.ErrBadRequest)
	}

	readTime := in.ReadTime
	if readTime <= 0 {
		readTime = 5
	}
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	tags := []string(in.Tags)
	if tags == nil {
		tags = []string{}
	}

	return &domain.Post{
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Content:     in.Content,
		ReadTime:    readTime,
		Category:    in.Category,
		Author:      in.Author,
		Image:       image,
		CoverImage:  cover,
		Attachments: in.Attachments,
		Tags:        tags,
		IsPublished: published,
	}, nil
}

func (s *service) deleteObject(ctx context.Context, url string) {
	key, ok := file.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete stored object", "key", key, "err", err)
	}
}

func validCategory(category string) bool {
	for _, c := range domain.PostCategories {
		if c == category {
			return true
		}
	}
	return false
}
