package model

// FavoritePost marks a post bookmarked by a user. At most one row exists
// per (post, user) pair.
type FavoritePost struct {
	ID     int64  `db:"id" json:"id"`
	PostID string `db:"post_id" json:"post_id"`
	UserID string `db:"user_id" json:"user_id"`
}

// FavoriteStatusResponse is the payload for GET /posts/{id}/favorite.
type FavoriteStatusResponse struct {
	Favorite bool `json:"favorite"`
}

// FavoriteListResponse is the snapshot favorites payload.
type FavoriteListResponse struct {
	Favorites []FavoritePost `json:"favorites"`
}
