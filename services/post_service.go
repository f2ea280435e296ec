package services

import (
	"context"
	"errors"

	"blog-service/apperror"
	"blog-service/database"
	"blog-service/logging"
	"blog-service/models"
	"blog-service/repository"

	"go.uber.org/zap"
)

// PostService implements post queries and writes.
type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
	log   logging.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, log logging.Logger) *PostService {
	return &PostService{posts: posts, users: users, log: log}
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, s.internal(apperror.MsgPostGet, err)
	}
	return posts, nil
}

// ListByAuthor returns the posts written by userID. A malformed id is an
// InvalidID error; an author without posts is NotFound.
func (s *PostService) ListByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	id, ok := models.ParseID(userID)
	if !ok {
		return nil, apperror.New(apperror.InvalidID, apperror.MsgValidation,
			apperror.FieldError{Field: "userId", Message: apperror.MsgInvalidAuthorID})
	}

	posts, err := s.posts.ListByAuthor(ctx, id)
	if err != nil {
		return nil, s.internal(apperror.MsgPostGetByUser, err)
	}
	if len(posts) == 0 {
		return nil, apperror.ErrNoPostsForAuthor
	}
	return posts, nil
}

// ListByTag returns the posts carrying tag, matched exactly.
func (s *PostService) ListByTag(ctx context.Context, tag string) ([]models.Post, error) {
	posts, err := s.posts.ListByTag(ctx, tag)
	if err != nil {
		return nil, s.internal(apperror.MsgPostGetByTag, err)
	}
	if len(posts) == 0 {
		return nil, apperror.ErrNoPostsForTag
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	id, ok := models.ParseID(id)
	if !ok {
		return nil, apperror.ErrPostNotFound
	}

	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, s.internal(apperror.MsgPostGet, err)
	}
	return p, nil
}

// Create stores a post for an existing author. The author is checked up
// front and again by the insert itself, so an author removed in between is
// still reported as AuthorNotFound.
func (s *PostService) Create(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	p := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Tags:    append([]string(nil), req.Tags...),
	}
	p.Normalize()

	if fields := p.Validate(); len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	authorID, ok := models.ParseID(p.Author)
	if !ok {
		return nil, apperror.ErrAuthorNotFound.WithField("author")
	}
	p.Author = authorID

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.ErrAuthorNotFound.WithField("author")
		}
		return nil, s.internal(apperror.MsgPostCreate, err)
	}

	if err := s.posts.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrAuthorMissing) {
			return nil, apperror.ErrAuthorNotFound.WithField("author")
		}
		return nil, s.internal(apperror.MsgPostCreate, err)
	}

	s.log.Info("Post created", zap.String("post_id", p.ID), zap.String("author", p.Author))
	return p, nil
}

// Update applies the fields present in req and re-checks the post bounds.
// The author cannot be changed.
func (s *PostService) Update(ctx context.Context, id string, req models.UpdatePostRequest) (*models.Post, error) {
	id, ok := models.ParseID(id)
	if !ok {
		return nil, apperror.ErrPostNotFound
	}

	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, s.internal(apperror.MsgPostUpdate, err)
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Tags != nil {
		p.Tags = append([]string(nil), req.Tags...)
	}
	p.Normalize()

	if fields := p.Validate(); len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	if err := s.posts.Update(ctx, p); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, s.internal(apperror.MsgPostUpdate, err)
	}

	s.log.Info("Post updated", zap.String("post_id", p.ID))
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	id, ok := models.ParseID(id)
	if !ok {
		return apperror.ErrPostNotFound
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperror.ErrPostNotFound
		}
		return s.internal(apperror.MsgPostDelete, err)
	}

	s.log.Info("Post deleted", zap.String("post_id", id))
	return nil
}

func (s *PostService) internal(msg string, err error) *apperror.Error {
	s.log.Error(msg, zap.Error(err))
	return apperror.Wrap(apperror.Internal, msg, err)
}
