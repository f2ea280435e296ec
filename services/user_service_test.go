package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"blog-service/apperror"
	"blog-service/database/dbtest"
	"blog-service/models"
	"blog-service/repository"
	"blog-service/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func ptr(s string) *string { return &s }

func newUserService(t *testing.T) (*UserService, repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(dbtest.New(t))
	return NewUserService(users, zap.NewNop(), bcrypt.MinCost), users
}

func createUser(t *testing.T, s *UserService, email string) *models.User {
	t.Helper()
	u, err := s.Create(context.Background(), models.CreateUserRequest{
		Name:     "Ahmet Veli",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestUserService_CreateThenGet(t *testing.T) {
	s, users := newUserService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.CreateUserRequest{
		Name:     "  Ahmet Veli ",
		Email:    " Ahmet@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Veli", created.Name)
	assert.Equal(t, "ahmet@example.com", created.Email)
	assert.Empty(t, created.Password)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Email, got.Email)

	stored, err := users.GetByIDWithPassword(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))
}

func TestUserService_CreateDuplicateEmailIgnoresCase(t *testing.T) {
	s, _ := newUserService(t)
	createUser(t, s, "dup@example.com")

	_, err := s.Create(context.Background(), models.CreateUserRequest{
		Name:     "Someone Else",
		Email:    "DUP@example.com",
		Password: "another-secret",
	})
	assert.ErrorIs(t, err, apperror.ErrEmailExists)
	assert.Equal(t, apperror.EmailExists, apperror.KindOf(err))
}

func TestUserService_CreateValidation(t *testing.T) {
	s, _ := newUserService(t)

	_, err := s.Create(context.Background(), models.CreateUserRequest{Name: "Al", Email: "nope", Password: "123"})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Validation, appErr.Kind)
	assert.Len(t, appErr.Fields, 3)
}

func TestUserService_PasswordOverBcryptLimit(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.CreateUserRequest{
		Name: "Ahmet Veli", Email: "long@example.com", Password: strings.Repeat("p", 80),
	})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Validation, appErr.Kind)
	assert.Equal(t, []apperror.FieldError{{Field: "password", Message: validation.MsgPasswordMax}}, appErr.Fields)

	u, err := s.Create(ctx, models.CreateUserRequest{
		Name: "Ahmet Veli", Email: "edge@example.com", Password: strings.Repeat("p", 72),
	})
	require.NoError(t, err)

	_, err = s.Update(ctx, u.ID, models.UpdateUserRequest{Password: ptr(strings.Repeat("q", 73))})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Validation, appErr.Kind)
	assert.Equal(t, "password", appErr.Fields[0].Field)
}

func TestUserService_GetMissing(t *testing.T) {
	s, _ := newUserService(t)

	_, err := s.Get(context.Background(), models.NewID())
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = s.Get(context.Background(), "123")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()
	u := createUser(t, s, "ahmet@example.com")

	updated, err := s.Update(ctx, u.ID, models.UpdateUserRequest{Name: ptr("Ahmet V.")})
	require.NoError(t, err)
	assert.Equal(t, "Ahmet V.", updated.Name)
	assert.Equal(t, "ahmet@example.com", updated.Email)
	assert.Empty(t, updated.Password)
	assert.False(t, updated.UpdatedAt.Before(u.UpdatedAt))

	// own email is not a conflict
	_, err = s.Update(ctx, u.ID, models.UpdateUserRequest{Email: ptr("AHMET@example.com")})
	assert.NoError(t, err)
}

func TestUserService_UpdateEmailTaken(t *testing.T) {
	s, _ := newUserService(t)
	createUser(t, s, "taken@example.com")
	u := createUser(t, s, "free@example.com")

	_, err := s.Update(context.Background(), u.ID, models.UpdateUserRequest{Email: ptr("taken@example.com")})
	assert.ErrorIs(t, err, apperror.ErrEmailExists)
}

func TestUserService_UpdatePassword(t *testing.T) {
	s, users := newUserService(t)
	ctx := context.Background()
	u := createUser(t, s, "ahmet@example.com")

	_, err := s.Update(ctx, u.ID, models.UpdateUserRequest{Password: ptr("secret1")})
	assert.ErrorIs(t, err, apperror.ErrPasswordUnchanged)
	assert.Equal(t, 400, apperror.KindOf(err).Status())

	_, err = s.Update(ctx, u.ID, models.UpdateUserRequest{Password: ptr("abc")})
	require.NoError(t, err)

	stored, err := users.GetByIDWithPassword(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("abc")))
}

func TestUserService_UpdateMissing(t *testing.T) {
	s, _ := newUserService(t)

	_, err := s.Update(context.Background(), models.NewID(), models.UpdateUserRequest{Name: ptr("Nobody")})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestUserService_Delete(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()
	u := createUser(t, s, "ahmet@example.com")

	require.NoError(t, s.Delete(ctx, u.ID))
	_, err := s.Get(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	assert.ErrorIs(t, s.Delete(ctx, u.ID), apperror.ErrUserNotFound)
}

type failingUsers struct {
	repository.UserRepository
	err error
}

func (f failingUsers) List(context.Context) ([]models.User, error) { return nil, f.err }
func (f failingUsers) GetByID(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f failingUsers) EmailTakenByOther(context.Context, string, string) (bool, error) {
	return false, f.err
}

func TestUserService_StoreFailureIsInternal(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	cause := errors.New("connection refused")
	s := NewUserService(failingUsers{err: cause}, zap.New(core), bcrypt.MinCost)
	ctx := context.Background()

	_, err := s.List(ctx)
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))
	assert.ErrorIs(t, err, cause)

	_, err = s.Get(ctx, models.NewID())
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))

	_, err = s.Create(ctx, models.CreateUserRequest{Name: "Ahmet", Email: "a@example.com", Password: "secret1"})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.MsgUserCreate, appErr.Message)

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, apperror.MsgUserGet, logs.All()[0].Message)
}
