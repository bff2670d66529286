package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/feed-service/internal/domain"
)

// ErrNotOwner is returned by owner-scoped mutations when the post exists
// but belongs to another user.
var ErrNotOwner = errors.New("post owned by another user")

// PostRepository encapsulates post persistence. Mutations are owner-scoped
// in a single statement so that the ownership check and the write cannot be
// interleaved with a concurrent change.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Post, error)
	ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error)
	UpdateIfOwner(ctx context.Context, post *domain.Post, ownerID string) error
	DeleteIfOwner(ctx context.Context, id, ownerID string) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (user_id, description, image_url, image_base64)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		post.UserID,
		post.Description,
		post.ImageURL,
		post.ImageBase64,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	const query = `
        SELECT id, user_id, description, image_url, image_base64, created_at, updated_at
        FROM posts WHERE id=$1`

	var post domain.Post
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Description,
		&post.ImageURL,
		&post.ImageBase64,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	const query = `
        SELECT id, user_id, description, image_url, image_base64, created_at, updated_at
        FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *postRepository) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	const query = `
        SELECT id, user_id, description, image_url, image_base64, created_at, updated_at
        FROM posts WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// UpdateIfOwner updates the post only when ownerID matches, in one
// statement. Zero rows affected is disambiguated with an existence probe:
// pgx.ErrNoRows for an unknown id, ErrNotOwner otherwise.
func (r *postRepository) UpdateIfOwner(ctx context.Context, post *domain.Post, ownerID string) error {
	const query = `
        UPDATE posts SET description=$1, image_url=$2, image_base64=$3, updated_at=NOW()
        WHERE id=$4 AND user_id=$5
        RETURNING user_id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		post.Description,
		post.ImageURL,
		post.ImageBase64,
		post.ID,
		ownerID,
	).Scan(&post.UserID, &post.CreatedAt, &post.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return r.classifyMiss(ctx, post.ID)
}

// DeleteIfOwner removes the post only when ownerID matches.
func (r *postRepository) DeleteIfOwner(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM posts WHERE id=$1 AND user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	return r.classifyMiss(ctx, id)
}

func (r *postRepository) classifyMiss(ctx context.Context, id string) error {
	const query = `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrNotOwner
	}
	return pgx.ErrNoRows
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var result []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Description,
			&post.ImageURL,
			&post.ImageBase64,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
