package domain

import "time"

// PostCategories is the fixed set of categories a post may belong to.
var PostCategories = []string{
	"Personal Finance",
	"Investment",
	"Business",
	"Technology",
	"AI & Technology",
	"Cloud Computing",
	"Data Management",
	"Machine Learning",
	"DevOps",
	"Integration",
}

// Author is embedded in every post.
type Author struct {
	Name        string `json:"name" dynamodbav:"name" validate:"required"`
	Designation string `json:"designation" dynamodbav:"designation" validate:"required"`
	Bio         string `json:"bio" dynamodbav:"bio" validate:"required"`
}

// Attachment is a file linked to a post, stored in S3 under Key.
type Attachment struct {
	AttachmentID string `json:"id" dynamodbav:"attachment_id"`
	Name         string `json:"name" dynamodbav:"name"`
	URL          string `json:"url" dynamodbav:"url"`
	Key          string `json:"-" dynamodbav:"key"`
	Type         string `json:"type" dynamodbav:"type"`
}

// Post is a blog post. Slug is derived from the title and unique across the
// table; Image and CoverImage mirror each other when only one is supplied.
type Post struct {
	PostID        string       `json:"id" dynamodbav:"post_id"`
	Title         string       `json:"title" dynamodbav:"title"`
	Slug          string       `json:"slug" dynamodbav:"slug"`
	Description   string       `json:"description" dynamodbav:"description"`
	Content       string       `json:"content" dynamodbav:"content"`
	PublishedDate time.Time    `json:"publishedDate" dynamodbav:"published_date"`
	UpdatedDate   time.Time    `json:"updatedDate" dynamodbav:"updated_date"`
	ReadTime      int          `json:"readTime" dynamodbav:"read_time"`
	Category      string       `json:"category" dynamodbav:"category"`
	Author        Author       `json:"author" dynamodbav:"author"`
	Image         string       `json:"image" dynamodbav:"image"`
	CoverImage    string       `json:"coverImage" dynamodbav:"cover_image"`
	Attachments   []Attachment `json:"attachments" dynamodbav:"attachments"`
	Tags          []string     `json:"tags" dynamodbav:"tags"`
	IsPublished   bool         `json:"isPublished" dynamodbav:"is_published"`
	CreatedAt     time.Time    `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time    `json:"updated" dynamodbav:"updated_at"`
}

// PostInput is the request body for creating or updating a post. Tags accepts
// either a JSON array or a comma-separated string; the service normalises it.
type PostInput struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Content     string       `json:"content" validate:"required"`
	ReadTime    int          `json:"readTime"`
	Category    string       `json:"category" validate:"required"`
	Author      Author       `json:"author" validate:"required"`
	Image       string       `json:"image"`
	CoverImage  string       `json:"coverImage"`
	Attachments []Attachment `json:"attachments"`
	Tags        Tags         `json:"tags"`
	IsPublished *bool        `json:"isPublished"`
}
