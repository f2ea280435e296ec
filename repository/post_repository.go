package repository

import (
	"context"
	"errors"
	"fmt"

	"blog-service/models"

	"github.com/jmoiron/sqlx"
)

// PostRepository is the persistence contract for posts and their tags.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	ListByTag(ctx context.Context, tag string) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
}

// ErrAuthorMissing is returned by Create when the author does not exist at
// the moment the post is written.
var ErrAuthorMissing = errors.New("author does not exist")

type postRepository struct {
	db         *sqlx.DB
	insertPost string
}

// NewPostRepository returns a PostRepository backed by db.
func NewPostRepository(db *sqlx.DB) PostRepository {
	insert := sqlInsertPostIfAuthor
	if db.DriverName() == "pgx" {
		insert = sqlInsertPostIfAuthorTyped
	}
	return &postRepository{db: db, insertPost: insert}
}

const (
	postColumns = `p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at`

	sqlListPosts = `
		SELECT ` + postColumns + `
		FROM   posts p
		ORDER  BY p.created_at, p.id`

	sqlListPostsByAuthor = `
		SELECT ` + postColumns + `
		FROM   posts p
		WHERE  p.author_id = ?
		ORDER  BY p.created_at, p.id`

	sqlListPostsByTag = `
		SELECT ` + postColumns + `
		FROM   posts p
		WHERE  EXISTS (SELECT 1 FROM post_tags t WHERE t.post_id = p.id AND t.tag = ?)
		ORDER  BY p.created_at, p.id`

	sqlGetPost = `
		SELECT ` + postColumns + `
		FROM   posts p
		WHERE  p.id = ?`

	// inserts nothing when the author row is absent
	sqlInsertPostIfAuthor = `
		INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE  EXISTS (SELECT 1 FROM users WHERE id = ?)`

	// PostgreSQL types bare SELECT-list parameters as text
	sqlInsertPostIfAuthorTyped = `
		INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		SELECT CAST(? AS CHAR(24)), CAST(? AS VARCHAR(100)), CAST(? AS TEXT),
		       CAST(? AS CHAR(24)), CAST(? AS TIMESTAMP), CAST(? AS TIMESTAMP)
		WHERE  EXISTS (SELECT 1 FROM users WHERE id = ?)`

	sqlUpdatePost = `
		UPDATE posts
		SET    title = ?, content = ?, updated_at = ?
		WHERE  id = ?`

	sqlDeletePost = `
		DELETE FROM posts WHERE id = ?`

	sqlInsertTag = `
		INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)`

	sqlDeleteTags = `
		DELETE FROM post_tags WHERE post_id = ?`

	sqlSelectTags = `
		SELECT post_id, tag
		FROM   post_tags
		WHERE  post_id IN (?)
		ORDER  BY post_id, position`
)

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, sqlListPosts)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return r.list(ctx, sqlListPostsByAuthor, authorID)
}

// ListByTag returns the posts carrying tag exactly, in creation order.
func (r *postRepository) ListByTag(ctx context.Context, tag string) ([]models.Post, error) {
	return r.list(ctx, sqlListPostsByTag, tag)
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...); err != nil {
		return nil, dbError(err)
	}
	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.db.GetContext(ctx, &p, r.db.Rebind(sqlGetPost), id); err != nil {
		return nil, dbError(err)
	}
	posts := []models.Post{p}
	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// Create assigns the id and timestamps and writes the post with its tags in
// one transaction. The author check and the insert are a single statement.
func (r *postRepository) Create(ctx context.Context, p *models.Post) error {
	p.ID = models.NewID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbError(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(r.insertPost),
		p.ID, p.Title, p.Content, p.Author, p.CreatedAt, p.UpdatedAt, p.Author)
	if err != nil {
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return ErrAuthorMissing
	}

	if err := insertTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dbError(err)
	}
	return nil
}

// Update writes title and content, refreshes UpdatedAt and replaces the tag
// list with p.Tags.
func (r *postRepository) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = now()
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbError(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(sqlUpdatePost), p.Title, p.Content, p.UpdatedAt, p.ID)
	if err != nil {
		return dbError(err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(sqlDeleteTags), p.ID); err != nil {
		return dbError(err)
	}
	if err := insertTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dbError(err)
	}
	return nil
}

// Delete removes the post and its tags.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(sqlDeleteTags), id); err != nil {
		return dbError(err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(sqlDeletePost), id)
	if err != nil {
		return dbError(err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dbError(err)
	}
	return nil
}

func insertTags(ctx context.Context, tx *sqlx.Tx, postID string, tags []string) error {
	query := tx.Rebind(sqlInsertTag)
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx, query, postID, i, tag); err != nil {
			return dbError(err)
		}
	}
	return nil
}

type tagRow struct {
	PostID string `db:"post_id"`
	Tag    string `db:"tag"`
}

// loadTags fills Tags on every post with one IN query.
func (r *postRepository) loadTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	query, args, err := sqlx.In(sqlSelectTags, ids)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	var rows []tagRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return dbError(err)
	}

	byPost := make(map[string][]string, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.Tag)
	}
	for i := range posts {
		tags := byPost[posts[i].ID]
		if tags == nil {
			tags = []string{}
		}
		posts[i].Tags = tags
		posts[i].CreatedAt = posts[i].CreatedAt.UTC()
		posts[i].UpdatedAt = posts[i].UpdatedAt.UTC()
	}
	return nil
}
