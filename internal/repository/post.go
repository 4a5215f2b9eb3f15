package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cargram/internal/model"
	"cargram/internal/stream"
)

type postRepository struct {
	db       *sqlx.DB
	notifier *stream.Notifier
}

// NewPostRepository creates a post repository. Every successful mutation
// signals the notifier so live feed streams re-emit.
func NewPostRepository(db *sqlx.DB, notifier *stream.Notifier) PostRepository {
	return &postRepository{db: db, notifier: notifier}
}

const postColumns = `id, user_id, username, user_avatar, image_path, caption, timestamp, likes, comments, shares, liked_by, vehicle_id`

// Upsert inserts the post, replacing any existing row with the same id.
// Like/unlike/share are read-modify-write sequences that end here, so the
// whole row is written in one statement: a failed write leaves the prior
// persisted state untouched.
func (r *postRepository) Upsert(ctx context.Context, post *model.Post) error {
	query := `
		INSERT OR REPLACE INTO posts (` + postColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.Username,
		post.UserAvatar,
		post.ImagePath,
		post.Caption,
		post.Timestamp,
		post.Likes,
		post.Comments,
		post.Shares,
		post.LikedBy,
		post.VehicleID,
	)
	if err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}

	r.notifier.Notify()
	return nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// GetAll returns every post, newest first. This is the feed snapshot.
func (r *postRepository) GetAll(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY timestamp DESC, id DESC`

	posts := []model.Post{}
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("get all posts: %w", err)
	}
	return posts, nil
}

// GetForAuthor returns the author's posts, newest first.
func (r *postRepository) GetForAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = ? ORDER BY timestamp DESC, id DESC`

	posts := []model.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, authorID); err != nil {
		return nil, fmt.Errorf("get posts for author: %w", err)
	}
	return posts, nil
}

// CountForAuthor returns the number of posts the author has published.
func (r *postRepository) CountForAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE user_id = ?`, authorID)
	if err != nil {
		return 0, fmt.Errorf("count posts for author: %w", err)
	}
	return count, nil
}

// SumLikesForAuthor returns the total likes across the author's posts.
func (r *postRepository) SumLikesForAuthor(ctx context.Context, authorID string) (int, error) {
	var sum int
	err := r.db.GetContext(ctx, &sum, `SELECT COALESCE(SUM(likes), 0) FROM posts WHERE user_id = ?`, authorID)
	if err != nil {
		return 0, fmt.Errorf("sum likes for author: %w", err)
	}
	return sum, nil
}
