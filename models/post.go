package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"blog-service/apperror"
	"blog-service/validation"
)

// Post is a blog post. Author is a weak reference to a user id: it must
// resolve when the post is created and is not maintained afterwards.
type Post struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Author    string    `json:"author" db:"author_id"`
	Tags      []string  `json:"tags" db:"-"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreatePostRequest represents the request to create a post
type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Author  string   `json:"author"`
}

// UpdatePostRequest represents a partial post update
// A nil Tags slice means the tags are not changed
type UpdatePostRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Normalize trims title, content and every tag in place.
func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)
	for i, tag := range p.Tags {
		p.Tags[i] = strings.TrimSpace(tag)
	}
}

// Validate checks the constraints enforced at the storage boundary.
func (p *Post) Validate() []apperror.FieldError {
	var errs []apperror.FieldError

	title := utf8.RuneCountInString(p.Title)
	switch {
	case title == 0:
		errs = append(errs, apperror.FieldError{Field: "title", Message: validation.MsgTitleRequired})
	case title < 3:
		errs = append(errs, apperror.FieldError{Field: "title", Message: validation.MsgTitleMin})
	case title > 100:
		errs = append(errs, apperror.FieldError{Field: "title", Message: validation.MsgTitleMax})
	}

	content := utf8.RuneCountInString(p.Content)
	switch {
	case content == 0:
		errs = append(errs, apperror.FieldError{Field: "content", Message: validation.MsgContentRequired})
	case content < 10:
		errs = append(errs, apperror.FieldError{Field: "content", Message: validation.MsgContentMin})
	}

	if p.Author == "" {
		errs = append(errs, apperror.FieldError{Field: "author", Message: validation.MsgAuthorRequired})
	}

	if len(p.Tags) == 0 {
		errs = append(errs, apperror.FieldError{Field: "tags", Message: validation.MsgTagsMin})
	}
	for i, tag := range p.Tags {
		if tag == "" {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("tags.%d", i), Message: validation.MsgTagsItem})
		}
	}

	return errs
}
