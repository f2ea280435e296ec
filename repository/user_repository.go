package repository

import (
	"context"
	"fmt"
	"time"

	"blog-service/database"
	"blog-service/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository is the persistence contract for users. Reads other than
// GetByIDWithPassword leave User.Password empty.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDWithPassword(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository returns a UserRepository backed by db.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const (
	sqlListUsers = `
		SELECT id, name, email, created_at, updated_at
		FROM   users
		ORDER  BY created_at, id`

	sqlGetUserByID = `
		SELECT id, name, email, created_at, updated_at
		FROM   users
		WHERE  id = ?`

	sqlGetUserWithPassword = `
		SELECT id, name, email, password, created_at, updated_at
		FROM   users
		WHERE  id = ?`

	sqlGetUserByEmail = `
		SELECT id, name, email, created_at, updated_at
		FROM   users
		WHERE  email = ?`

	sqlEmailTaken = `
		SELECT COUNT(*)
		FROM   users
		WHERE  email = ? AND id <> ?`

	sqlInsertUser = `
		INSERT INTO users (id, name, email, password, created_at, updated_at)
		VALUES (:id, :name, :email, :password, :created_at, :updated_at)`

	sqlUpdateUser = `
		UPDATE users
		SET    name = :name, email = :email, password = :password, updated_at = :updated_at
		WHERE  id = :id`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = ?`
)

func dbError(err error) error {
	return fmt.Errorf("db error: %w", database.MapError(err))
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(sqlListUsers)); err != nil {
		return nil, dbError(err)
	}
	for i := range users {
		utcUser(&users[i])
	}
	return users, nil
}

// GetByID returns database.ErrNotFound (wrapped) when no user has the id.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, sqlGetUserByID, id)
}

func (r *userRepository) GetByIDWithPassword(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, sqlGetUserWithPassword, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, sqlGetUserByEmail, email)
}

func (r *userRepository) get(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, r.db.Rebind(query), arg); err != nil {
		return nil, dbError(err)
	}
	utcUser(&u)
	return &u, nil
}

// EmailTakenByOther reports whether a user other than excludeID already uses
// email. An empty excludeID checks against every user.
func (r *userRepository) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(sqlEmailTaken), email, excludeID); err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

// Create assigns the id and timestamps and inserts u. A taken email surfaces
// as database.ErrDuplicateKey.
func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	u.ID = models.NewID()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, sqlInsertUser, u); err != nil {
		return dbError(err)
	}
	return nil
}

// Update writes every mutable column of u and refreshes UpdatedAt.
func (r *userRepository) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	if u.UpdatedAt.Before(u.CreatedAt) {
		u.UpdatedAt = u.CreatedAt
	}

	res, err := r.db.NamedExecContext(ctx, sqlUpdateUser, u)
	if err != nil {
		return dbError(err)
	}
	return expectOneRow(res)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(sqlDeleteUser), id)
	if err != nil {
		return dbError(err)
	}
	return expectOneRow(res)
}

func utcUser(u *models.User) {
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
}
