package repository

import (
	"context"
	"time"

	"cargram/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateAvatarPath(ctx context.Context, id, path string) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type VehicleRepository interface {
	// SaveForUser replaces the user's current vehicle: whatever record the
	// user had before, even under a different VIN, is superseded.
	SaveForUser(ctx context.Context, vehicle *model.Vehicle, userID string) error
	// GetForUser returns (nil, nil) when the user has no vehicle; absence
	// is not an error.
	GetForUser(ctx context.Context, userID string) (*model.Vehicle, error)
}

type PostRepository interface {
	// Upsert inserts the post, replacing any existing row with the same id.
	Upsert(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID string) (*model.Post, error)
	GetAll(ctx context.Context) ([]model.Post, error)
	GetForAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	CountForAuthor(ctx context.Context, authorID string) (int, error)
	SumLikesForAuthor(ctx context.Context, authorID string) (int, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, postID, userID string) error
	Remove(ctx context.Context, postID, userID string) error
	IsFavorite(ctx context.Context, postID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]model.FavoritePost, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}
