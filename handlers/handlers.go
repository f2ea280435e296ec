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

// UserService is the user behaviour the handlers depend on.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler handles user-related operations
type UserHandler struct {
	users UserService
	log   logging.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService, log logging.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// GetUsers handles GET /users - list all users
func (h *UserHandler) GetUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, h.log, "info", "Listing users")

	users, err := h.users.List(ctx)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserGet)
		return
	}

	logRequest(ctx, h.log, "info", "Users retrieved successfully", zap.Int("count", len(users)))
	writeList(w, "users", users)
}

// GetUser handles GET /users/{id} - get user by ID
func (h *UserHandler) GetUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logRequest(ctx, h.log, "info", "Getting user", zap.String("user_id", id))

	user, err := h.users.Get(ctx, id)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserGet)
		return
	}

	writeData(w, http.StatusOK, "user", user)
}

// CreateUser handles POST /users - create a new user
func (h *UserHandler) CreateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decodeBody(r, validation.CreateUser, &req); err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserCreate)
		return
	}

	logRequest(ctx, h.log, "info", "Creating user")

	user, err := h.users.Create(ctx, req)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserCreate)
		return
	}

	logRequest(ctx, h.log, "info", "User created successfully", zap.String("user_id", user.ID))
	writeData(w, http.StatusCreated, "user", user)
}

// UpdateUser handles PUT /users/{id} - update user
// Password is re-hashed only when present and different from the current one
func (h *UserHandler) UpdateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateUserRequest
	if err := decodeBody(r, validation.UpdateUser, &req); err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserUpdate)
		return
	}

	logRequest(ctx, h.log, "info", "Updating user", zap.String("user_id", id))

	user, err := h.users.Update(ctx, id, req)
	if err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserUpdate)
		return
	}

	logRequest(ctx, h.log, "info", "User updated successfully", zap.String("user_id", id))
	writeUpdated(w, apperror.MsgUserUpdated, "user", user)
}

// DeleteUser handles DELETE /users/{id} - delete user
func (h *UserHandler) DeleteUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logRequest(ctx, h.log, "info", "Deleting user", zap.String("user_id", id))

	if err := h.users.Delete(ctx, id); err != nil {
		fail(ctx, h.log, w, err, apperror.MsgUserDelete)
		return
	}

	logRequest(ctx, h.log, "info", "User deleted successfully", zap.String("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}
