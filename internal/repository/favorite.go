package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cargram/internal/model"
	"cargram/internal/stream"
)

type favoriteRepository struct {
	db       *sqlx.DB
	notifier *stream.Notifier
}

// NewFavoriteRepository creates a favorite repository. Mutations signal
// the notifier so favorites streams re-emit.
func NewFavoriteRepository(db *sqlx.DB, notifier *stream.Notifier) FavoriteRepository {
	return &favoriteRepository{db: db, notifier: notifier}
}

// Add inserts the (post, user) pair. The table carries a unique index with
// replace-on-conflict, and the explicit pre-check keeps a repeated add
// from burning surrogate ids: the add is idempotent either way.
func (r *favoriteRepository) Add(ctx context.Context, postID, userID string) error {
	exists, err := r.IsFavorite(ctx, postID, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO favorite_posts (post_id, user_id) VALUES (?, ?)`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	r.notifier.Notify()
	return nil
}

// Remove looks up the pair's record and deletes it; absent is a no-op.
func (r *favoriteRepository) Remove(ctx context.Context, postID, userID string) error {
	var fav model.FavoritePost
	err := r.db.GetContext(ctx, &fav,
		`SELECT id, post_id, user_id FROM favorite_posts WHERE post_id = ? AND user_id = ? LIMIT 1`,
		postID, userID,
	)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find favorite: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM favorite_posts WHERE id = ?`, fav.ID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	r.notifier.Notify()
	return nil
}

// IsFavorite reports whether the pair exists.
func (r *favoriteRepository) IsFavorite(ctx context.Context, postID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM favorite_posts WHERE post_id = ? AND user_id = ?)`,
		postID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

// ListForUser returns the user's favorites.
func (r *favoriteRepository) ListForUser(ctx context.Context, userID string) ([]model.FavoritePost, error) {
	favorites := []model.FavoritePost{}
	err := r.db.SelectContext(ctx, &favorites,
		`SELECT id, post_id, user_id FROM favorite_posts WHERE user_id = ? ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// CountForUser returns the user's favorites count (the third profile
// statistic).
func (r *favoriteRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM favorite_posts WHERE user_id = ?`, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}
