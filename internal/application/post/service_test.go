package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drehill/site-api/internal/domain"
	"github.com/drehill/site-api/internal/infrastructure/smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Put(ctx context.Context, p *domain.Post) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockRepo) Get(ctx context.Context, postID string) (*domain.Post, error) {
	args := m.Called(ctx, postID)
	if p, _ := args.Get(0).(*domain.Post); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRepo) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	args := m.Called(ctx, slug)
	if p, _ := args.Get(0).(*domain.Post); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Post, error) {
	args := m.Called(ctx, publishedOnly)
	if ps, _ := args.Get(0).([]domain.Post); ps != nil {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRepo) ListByCategory(ctx context.Context, category string) ([]domain.Post, error) {
	args := m.Called(ctx, category)
	if ps, _ := args.Get(0).([]domain.Post); ps != nil {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRepo) Update(ctx context.Context, postID string, updates map[string]interface{}) error {
	return m.Called(ctx, postID, updates).Error(0)
}
func (m *mockRepo) Delete(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

type mockSubscribers struct{ mock.Mock }

func (m *mockSubscribers) ListEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if es, _ := args.Get(0).([]string); es != nil {
		return es, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockObjects struct{ mock.Mock }

func (m *mockObjects) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(e smtp.Email) error {
	return m.Called(e).Error(0)
}

// --- fixtures ---

func validInput() domain.PostInput {
	return domain.PostInput{
		Title:       "Cloud Cost Basics",
		Description: "A primer on cloud billing.",
		Content:     "Long form content here.",
		Category:    "Cloud Computing",
		Author: domain.Author{
			Name:        "A. Writer",
			Designation: "Engineer",
			Bio:         "Writes about infrastructure.",
		},
		Image: "/api/blog/uploads/images/abc-cover.png",
	}
}

// --- Create ---

func TestCreate_DerivesSlugAndMirrorsImages(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(nil, domain.ErrNotFound)

	var saved *domain.Post
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Post")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Post) }).
		Return(nil)

	svc := NewService(repo, nil, nil, nil, "https://exim.drehill.in")
	p, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "cloud-cost-basics", p.Slug)
	assert.NotEmpty(t, p.PostID)
	assert.Equal(t, p.Image, p.CoverImage)
	assert.True(t, p.IsPublished)
	assert.Equal(t, 5, p.ReadTime)
	assert.NotNil(t, saved)
	assert.False(t, p.PublishedDate.IsZero())
}

func TestCreate_SlugConflict(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(&domain.Post{Slug: "cloud-cost-basics"}, nil)

	svc := NewService(repo, nil, nil, nil, "")
	_, err := svc.Create(context.Background(), validInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_UnknownCategory(t *testing.T) {
	in := validInput()
	in.Category = "Gardening"

	svc := NewService(&mockRepo{}, nil, nil, nil, "")
	_, err := svc.Create(context.Background(), in)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_MissingImage(t *testing.T) {
	in := validInput()
	in.Image = ""
	in.CoverImage = ""

	svc := NewService(&mockRepo{}, nil, nil, nil, "")
	_, err := svc.Create(context.Background(), in)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_CoverImageOnly_MirrorsIntoImage(t *testing.T) {
	in := validInput()
	in.Image = ""
	in.CoverImage = "/api/blog/uploads/images/xyz.png"

	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil)

	svc := NewService(repo, nil, nil, nil, "")
	p, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "/api/blog/uploads/images/xyz.png", p.Image)
	assert.Equal(t, p.Image, p.CoverImage)
}

func TestCreate_UnpublishedDraft(t *testing.T) {
	in := validInput()
	unpublished := false
	in.IsPublished = &unpublished

	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil)

	svc := NewService(repo, nil, nil, nil, "")
	p, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, p.IsPublished)
}

// --- Update ---

func TestUpdate_PreservesIdentityAndCreatedAt(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := &domain.Post{
		PostID:        "p1",
		Slug:          "cloud-cost-basics",
		PublishedDate: created,
		CreatedAt:     created,
	}
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(existing, nil)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil)

	svc := NewService(repo, nil, nil, nil, "")
	p, err := svc.Update(context.Background(), "cloud-cost-basics", validInput())

	require.NoError(t, err)
	assert.Equal(t, "p1", p.PostID)
	assert.Equal(t, created, p.PublishedDate)
	assert.Equal(t, created, p.CreatedAt)
	assert.True(t, p.UpdatedAt.After(created))
}

func TestUpdate_KeepsOmittedOptionalFields(t *testing.T) {
	existing := &domain.Post{
		PostID:      "p1",
		Slug:        "cloud-cost-basics",
		ReadTime:    12,
		Attachments: []domain.Attachment{{AttachmentID: "a1", Name: "notes.pdf", URL: "/api/blog/uploads/attachments/a1-notes.pdf"}},
		Tags:        []string{"finops", "aws"},
		IsPublished: false,
	}
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(existing, nil)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil)

	svc := NewService(repo, nil, nil, nil, "")
	p, err := svc.Update(context.Background(), "cloud-cost-basics", validInput())

	require.NoError(t, err)
	require.Len(t, p.Attachments, 1)
	assert.Equal(t, "a1", p.Attachments[0].AttachmentID)
	assert.False(t, p.IsPublished)
	assert.Equal(t, 12, p.ReadTime)
	assert.Equal(t, []string{"finops", "aws"}, p.Tags)
}

func TestUpdate_EmptyAttachmentsClears(t *testing.T) {
	existing := &domain.Post{
		PostID:      "p1",
		Slug:        "cloud-cost-basics",
		Attachments: []domain.Attachment{{AttachmentID: "a1", Name: "notes.pdf"}},
	}
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(existing, nil)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil)

	in := validInput()
	in.Attachments = []domain.Attachment{}

	svc := NewService(repo, nil, nil, nil, "")
	p, err := svc.Update(context.Background(), "cloud-cost-basics", in)

	require.NoError(t, err)
	assert.Empty(t, p.Attachments)
}

func TestUpdate_RenameOntoExistingSlug_Conflicts(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "old-title").Return(&domain.Post{PostID: "p1", Slug: "old-title"}, nil)
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(&domain.Post{PostID: "p2", Slug: "cloud-cost-basics"}, nil)

	svc := NewService(repo, nil, nil, nil, "")
	_, err := svc.Update(context.Background(), "old-title", validInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- GetPublicBySlug ---

func TestGetPublicBySlug_HidesUnpublished(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "draft-post").Return(&domain.Post{Slug: "draft-post", IsPublished: false}, nil)

	svc := NewService(repo, nil, nil, nil, "")
	_, err := svc.GetPublicBySlug(context.Background(), "draft-post")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Delete ---

func TestDelete_BySlugFallback_RemovesObjects(t *testing.T) {
	p := &domain.Post{
		PostID:     "p1",
		Slug:       "cloud-cost-basics",
		Image:      "/api/blog/uploads/images/abc.png",
		CoverImage: "/api/blog/uploads/images/abc.png",
		Attachments: []domain.Attachment{
			{AttachmentID: "a1", Key: "attachments/a1-doc.pdf"},
		},
	}
	repo := &mockRepo{}
	objects := &mockObjects{}
	repo.On("Get", mock.Anything, "cloud-cost-basics").Return(nil, domain.ErrNotFound)
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(p, nil)
	objects.On("Delete", mock.Anything, "images/abc.png").Return(nil)
	objects.On("Delete", mock.Anything, "attachments/a1-doc.pdf").Return(nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	svc := NewService(repo, nil, objects, nil, "")
	require.NoError(t, svc.Delete(context.Background(), "cloud-cost-basics"))

	repo.AssertExpectations(t)
	objects.AssertExpectations(t)
}

// --- Related ---

func TestRelated_ExcludesSelfAndCaps(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetBySlug", mock.Anything, "post-a").Return(&domain.Post{Slug: "post-a", Category: "Business"}, nil)
	repo.On("ListByCategory", mock.Anything, "Business").Return([]domain.Post{
		{Slug: "post-a"},
		{Slug: "post-b"},
		{Slug: "post-c"},
		{Slug: "post-d"},
		{Slug: "post-e"},
	}, nil)

	svc := NewService(repo, nil, nil, nil, "")
	related, err := svc.Related(context.Background(), "post-a")

	require.NoError(t, err)
	require.Len(t, related, 3)
	for _, p := range related {
		assert.NotEqual(t, "post-a", p.Slug)
	}
}

// --- SendToSubscribers ---

func TestSendToSubscribers_BccAndLink(t *testing.T) {
	repo := &mockRepo{}
	subs := &mockSubscribers{}
	ml := &mockMailer{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(&domain.Post{
		Slug:        "cloud-cost-basics",
		Title:       "Cloud Cost Basics",
		Description: "A primer.",
	}, nil)
	subs.On("ListEmails", mock.Anything).Return([]string{"a@x.com", "b@y.com"}, nil)
	ml.On("Send", mock.AnythingOfType("smtp.Email")).Return(nil)

	svc := NewService(repo, subs, nil, ml, "https://exim.drehill.in")
	require.NoError(t, svc.SendToSubscribers(context.Background(), "cloud-cost-basics"))

	sent := ml.Calls[0].Arguments.Get(0).(smtp.Email)
	assert.Empty(t, sent.To)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, sent.Bcc)
	assert.Contains(t, sent.HTML, "https://exim.drehill.in/blog/cloud-cost-basics")
}

func TestSendToSubscribers_NoSubscribers_NoEmail(t *testing.T) {
	repo := &mockRepo{}
	subs := &mockSubscribers{}
	ml := &mockMailer{}
	repo.On("GetBySlug", mock.Anything, "cloud-cost-basics").Return(&domain.Post{Slug: "cloud-cost-basics"}, nil)
	subs.On("ListEmails", mock.Anything).Return([]string{}, nil)

	svc := NewService(repo, subs, nil, ml, "")
	require.NoError(t, svc.SendToSubscribers(context.Background(), "cloud-cost-basics"))

	ml.AssertNotCalled(t, "Send", mock.Anything)
}

// --- DeleteAttachment ---

func TestDeleteAttachment_RemovesSingleAttachment(t *testing.T) {
	repo := &mockRepo{}
	objects := &mockObjects{}
	repo.On("Get", mock.Anything, "p1").Return(&domain.Post{
		PostID: "p1",
		Attachments: []domain.Attachment{
			{AttachmentID: "a1", Key: "attachments/a1.pdf"},
			{AttachmentID: "a2", Key: "attachments/a2.pdf"},
		},
	}, nil)
	objects.On("Delete", mock.Anything, "attachments/a1.pdf").Return(nil)
	repo.On("Update", mock.Anything, "p1", mock.MatchedBy(func(u map[string]interface{}) bool {
		kept, ok := u["attachments"].([]domain.Attachment)
		return ok && len(kept) == 1 && kept[0].AttachmentID == "a2"
	})).Return(nil)

	svc := NewService(repo, nil, objects, nil, "")
	require.NoError(t, svc.DeleteAttachment(context.Background(), "p1", "a1"))

	repo.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestDeleteAttachment_UnknownID(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, "p1").Return(&domain.Post{PostID: "p1"}, nil)

	svc := NewService(repo, nil, nil, nil, "")
	err := svc.DeleteAttachment(context.Background(), "p1", "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
