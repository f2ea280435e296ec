package handlers

import (
	"context"
	"net/http"

	"blog-service/apperror"
	"blog-service/logging"
	"blog-service/models"
	"blog-service/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PostService is the post behaviour the handlers depend on.
type PostService interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, userID string) ([]models.Post, error)
	ListByTag(ctx context.Context, tag string) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, id string, req models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// PostHandler handles post-related operations
type PostHandler struct {
	posts PostService
	log   logging.Logger
}

func NewPostHandler(posts PostService, log logging.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// GetPosts handles GET /posts
func (h *PostHandler) GetPosts(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, h.log, "info", "Listing posts")

	posts, err := h.posts.List(ctx)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostGet)
		return
	}

	writeList(w, "posts", posts)
}

// GetPostsByUser handles GET /posts/user/{userId}
func (h *PostHandler) GetPostsByUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	logRequest(ctx, h.log, "info", "Listing posts by author", zap.String("user_id", userID))

	posts, err := h.posts.ListByAuthor(ctx, userID)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostGetByUser)
		return
	}

	writeList(w, "posts", posts)
}

// GetPostsByTag handles GET /posts/tag/{tag}
func (h *PostHandler) GetPostsByTag(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	logRequest(ctx, h.log, "info", "Listing posts by tag", zap.String("tag", tag))

	posts, err := h.posts.ListByTag(ctx, tag)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostGetByTag)
		return
	}

	writeList(w, "posts", posts)
}

// GetPost handles GET /posts/{id}
func (h *PostHandler) GetPost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logRequest(ctx, h.log, "info", "Getting post", zap.String("post_id", id))

	post, err := h.posts.Get(ctx, id)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostGet)
		return
	}

	writeData(w, http.StatusOK, "post", post)
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := decodeBody(r, validation.CreatePost, &req); err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostCreate)
		return
	}

	logRequest(ctx, h.log, "info", "Creating post", zap.String("author", req.Author))

	post, err := h.posts.Create(ctx, req)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostCreate)
		return
	}

	logRequest(ctx, h.log, "info", "Post created successfully", zap.String("post_id", post.ID))
	writeData(w, http.StatusCreated, "post", post)
}

// UpdatePost handles PUT /posts/{id}
func (h *PostHandler) UpdatePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdatePostRequest
	if err := decodeBody(r, validation.UpdatePost, &req); err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostUpdate)
		return
	}

	logRequest(ctx, h.log, "info", "Updating post", zap.String("post_id", id))

	post, err := h.posts.Update(ctx, id, req)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostUpdate)
		return
	}

	writeUpdated(w, apperror.MsgPostUpdated, "post", post)
}

// DeletePost handles DELETE /posts/{id}
func (h *PostHandler) DeletePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logRequest(ctx, h.log, "info", "Deleting post", zap.String("post_id", id))

	if err := h.posts.Delete(ctx, id); err != nil {
		fail(ctx, h.log, w, err, apperror.MsgPostDelete)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
