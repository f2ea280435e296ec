// Package services holds the business rules for users and posts. Every error
// returned from this package is an *apperror.Error.
package services

import (
	"context"
	"errors"

	"blog-service/apperror"
	"blog-service/database"
	"blog-service/logging"
	"blog-service/models"
	"blog-service/repository"
	"blog-service/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService implements user lookups, registration, updates and removal.
type UserService struct {
	users      repository.UserRepository
	log        logging.Logger
	bcryptCost int
}

// NewUserService constructs a UserService. A bcryptCost of zero uses
// bcrypt.DefaultCost.
func NewUserService(users repository.UserRepository, log logging.Logger, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, log: log, bcryptCost: bcryptCost}
}

// List returns every user in creation order.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, s.internal(apperror.MsgUserGet, err)
	}
	return users, nil
}

// Get returns the user with id. Ids that cannot exist are reported the same
// way as ids that do not.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	id, ok := models.ParseID(id)
	if !ok {
		return nil, apperror.ErrUserNotFound
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, s.internal(apperror.MsgUserGet, err)
	}
	return u, nil
}

// Create registers a user. The email is normalized before the uniqueness
// check and the password is stored as a bcrypt hash.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	u := &models.User{Name: req.Name, Email: req.Email}
	u.Normalize()

	fields := append(u.ValidateProfile(), models.ValidatePassword(req.Password)...)
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	taken, err := s.users.EmailTakenByOther(ctx, u.Email, "")
	if err != nil {
		return nil, s.internal(apperror.MsgUserCreate, err)
	}
	if taken {
		return nil, apperror.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, s.internal(apperror.MsgUserCreate, err)
	}
	u.Password = string(hash)

	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with another registration
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperror.ErrEmailExists
		}
		return nil, s.internal(apperror.MsgUserCreate, err)
	}

	s.log.Info("User created", zap.String("user_id", u.ID))
	u.Password = ""
	return u, nil
}

// Update applies the fields present in req. A new password equal to the
// current one is rejected with PasswordUnchanged; the user's own email is not
// a conflict.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	id, ok := models.ParseID(id)
	if !ok {
		return nil, apperror.ErrUserNotFound
	}

	u, err := s.users.GetByIDWithPassword(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, s.internal(apperror.MsgUserUpdate, err)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	u.Normalize()

	fields := u.ValidateProfile()
	if req.Password != nil && len(*req.Password) > validation.PasswordMaxBytes {
		fields = append(fields, apperror.FieldError{Field: "password", Message: validation.MsgPasswordMax})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	if req.Email != nil {
		taken, err := s.users.EmailTakenByOther(ctx, u.Email, u.ID)
		if err != nil {
			return nil, s.internal(apperror.MsgUserUpdate, err)
		}
		if taken {
			return nil, apperror.ErrEmailExists
		}
	}

	if req.Password != nil {
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(*req.Password)) == nil {
			return nil, apperror.ErrPasswordUnchanged
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, s.internal(apperror.MsgUserUpdate, err)
		}
		u.Password = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateKey):
			return nil, apperror.ErrEmailExists
		case errors.Is(err, database.ErrNotFound):
			return nil, apperror.ErrUserNotFound
		}
		return nil, s.internal(apperror.MsgUserUpdate, err)
	}

	s.log.Info("User updated", zap.String("user_id", u.ID))
	u.Password = ""
	return u, nil
}

// Delete removes the user. Posts written by the user are kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	id, ok := models.ParseID(id)
	if !ok {
		return apperror.ErrUserNotFound
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return s.internal(apperror.MsgUserDelete, err)
	}

	s.log.Info("User deleted", zap.String("user_id", id))
	return nil
}

func (s *UserService) internal(msg string, err error) *apperror.Error {
	s.log.Error(msg, zap.Error(err))
	return apperror.Wrap(apperror.Internal, msg, err)
}
