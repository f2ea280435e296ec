package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"blog-service/apperror"
	"blog-service/database"
	"blog-service/database/dbtest"
	"blog-service/models"
	"blog-service/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type postEnv struct {
	users *UserService
	posts *PostService
}

func newPostEnv(t *testing.T) postEnv {
	t.Helper()
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)
	return postEnv{
		users: NewUserService(users, zap.NewNop(), bcrypt.MinCost),
		posts: NewPostService(repository.NewPostRepository(db), users, zap.NewNop()),
	}
}

func validPost(author string, tags ...string) models.CreatePostRequest {
	return models.CreatePostRequest{
		Title:   " Hello world ",
		Content: "This is the body of the post.",
		Tags:    tags,
		Author:  author,
	}
}

func TestPostService_CreateThenGet(t *testing.T) {
	env := newPostEnv(t)
	ctx := context.Background()
	author := createUser(t, env.users, "author@example.com")

	created, err := env.posts.Create(ctx, validPost(author.ID, " go ", "web"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", created.Title)
	assert.Equal(t, []string{"go", "web"}, created.Tags)

	got, err := env.posts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Content, got.Content)
	assert.Equal(t, author.ID, got.Author)
	assert.Equal(t, created.Tags, got.Tags)
}

func TestPostService_CreateUnknownAuthor(t *testing.T) {
	env := newPostEnv(t)

	_, err := env.posts.Create(context.Background(), validPost(models.NewID(), "go"))
	assert.ErrorIs(t, err, apperror.ErrAuthorNotFound)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Kind.Status())
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "author", appErr.Fields[0].Field)
}

func TestPostService_CreateValidation(t *testing.T) {
	env := newPostEnv(t)

	_, err := env.posts.Create(context.Background(), models.CreatePostRequest{
		Title: "Hi", Content: "short", Tags: []string{}, Author: models.NewID(),
	})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Validation, appErr.Kind)

	fields := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"title", "content", "tags"}, fields)
}

func TestPostService_ListByTag(t *testing.T) {
	env := newPostEnv(t)
	ctx := context.Background()
	author := createUser(t, env.users, "author@example.com")

	_, err := env.posts.ListByTag(ctx, "go")
	assert.ErrorIs(t, err, apperror.ErrNoPostsForTag)

	for i := 0; i < 3; i++ {
		_, err := env.posts.Create(ctx, validPost(author.ID, "go"))
		require.NoError(t, err)
	}
	_, err = env.posts.Create(ctx, validPost(author.ID, "rust"))
	require.NoError(t, err)

	posts, err := env.posts.ListByTag(ctx, "go")
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	all, err := env.posts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPostService_ListByAuthor(t *testing.T) {
	env := newPostEnv(t)
	ctx := context.Background()
	author := createUser(t, env.users, "author@example.com")

	_, err := env.posts.ListByAuthor(ctx, "not-an-id")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.InvalidID, appErr.Kind)
	assert.Equal(t, []apperror.FieldError{{Field: "userId", Message: apperror.MsgInvalidAuthorID}}, appErr.Fields)

	_, err = env.posts.ListByAuthor(ctx, author.ID)
	assert.ErrorIs(t, err, apperror.ErrNoPostsForAuthor)

	_, err = env.posts.Create(ctx, validPost(author.ID, "go"))
	require.NoError(t, err)

	posts, err := env.posts.ListByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostService_Update(t *testing.T) {
	env := newPostEnv(t)
	ctx := context.Background()
	author := createUser(t, env.users, "author@example.com")
	p, err := env.posts.Create(ctx, validPost(author.ID, "go"))
	require.NoError(t, err)

	updated, err := env.posts.Update(ctx, p.ID, models.UpdatePostRequest{Tags: []string{"sql", "db"}})
	require.NoError(t, err)
	assert.Equal(t, p.Title, updated.Title)
	assert.Equal(t, []string{"sql", "db"}, updated.Tags)

	_, err = env.posts.Update(ctx, p.ID, models.UpdatePostRequest{Title: ptr("x")})
	assert.Equal(t, apperror.Validation, apperror.KindOf(err))

	_, err = env.posts.Update(ctx, models.NewID(), models.UpdatePostRequest{Title: ptr("Valid title")})
	assert.ErrorIs(t, err, apperror.ErrPostNotFound)
}

func TestPostService_Delete(t *testing.T) {
	env := newPostEnv(t)
	ctx := context.Background()
	author := createUser(t, env.users, "author@example.com")
	p, err := env.posts.Create(ctx, validPost(author.ID, "go"))
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(ctx, p.ID))
	_, err = env.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrPostNotFound)
	assert.ErrorIs(t, env.posts.Delete(ctx, p.ID), apperror.ErrPostNotFound)
}

func TestPostService_AuthorDeletedKeepsPosts(t *testing.T) {
	env := newPostEnv(t)
	ctx := context.Background()
	author := createUser(t, env.users, "author@example.com")
	p, err := env.posts.Create(ctx, validPost(author.ID, "go"))
	require.NoError(t, err)

	require.NoError(t, env.users.Delete(ctx, author.ID))

	got, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.Author)
}

type racingPosts struct {
	repository.PostRepository
}

func (racingPosts) Create(context.Context, *models.Post) error {
	return repository.ErrAuthorMissing
}

func TestPostService_AuthorRemovedBeforeInsert(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)
	userSvc := NewUserService(users, zap.NewNop(), bcrypt.MinCost)
	s := NewPostService(racingPosts{}, users, zap.NewNop())
	author := createUser(t, userSvc, "author@example.com")

	_, err := s.Create(context.Background(), validPost(author.ID, "go"))
	assert.ErrorIs(t, err, apperror.ErrAuthorNotFound)
}

type failingPosts struct {
	repository.PostRepository
	err error
}

func (f failingPosts) List(context.Context) ([]models.Post, error) { return nil, f.err }
func (f failingPosts) ListByTag(context.Context, string) ([]models.Post, error) {
	return nil, f.err
}

func TestPostService_StoreFailureIsInternal(t *testing.T) {
	cause := errors.New("disk I/O error")
	s := NewPostService(failingPosts{err: cause}, nil, zap.NewNop())

	_, err := s.List(context.Background())
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Internal, appErr.Kind)
	assert.Equal(t, apperror.MsgPostGet, appErr.Message)

	_, err = s.ListByTag(context.Background(), "go")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.MsgPostGetByTag, appErr.Message)
}

type rejectingPosts struct {
	repository.PostRepository
	post *models.Post
}

func (r rejectingPosts) GetByID(context.Context, string) (*models.Post, error) {
	p := *r.post
	return &p, nil
}

func (rejectingPosts) Create(context.Context, *models.Post) error {
	return fmt.Errorf("db error: %w", &database.DBError{Sentinel: database.ErrCheckViolation, Cause: errors.New("CHECK constraint failed")})
}

func (r rejectingPosts) Update(ctx context.Context, p *models.Post) error {
	return r.Create(ctx, p)
}

func TestPostService_CheckViolationIsInternal(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)
	author := createUser(t, NewUserService(users, zap.NewNop(), bcrypt.MinCost), "author@example.com")

	stored := &models.Post{ID: models.NewID(), Title: "Hello world", Content: "Some meaningful content.", Tags: []string{"go"}, Author: author.ID}
	s := NewPostService(rejectingPosts{post: stored}, users, zap.NewNop())

	var appErr *apperror.Error
	_, err := s.Create(context.Background(), validPost(author.ID, "go"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Internal, appErr.Kind)
	assert.Equal(t, apperror.MsgPostCreate, appErr.Message)

	_, err = s.Update(context.Background(), stored.ID, models.UpdatePostRequest{Title: ptr("New title")})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Internal, appErr.Kind)
	assert.Equal(t, apperror.MsgPostUpdate, appErr.Message)
}
