package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Post is the locally authoritative record backing the feed. The author
// username and avatar are denormalized at creation time and not kept in
// sync with later profile edits.
type Post struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Username   string     `db:"username" json:"username"`
	UserAvatar *string    `db:"user_avatar" json:"user_avatar"`
	ImagePath  string     `db:"image_path" json:"image_path"`
	Caption    string     `db:"caption" json:"caption"`
	Timestamp  time.Time  `db:"timestamp" json:"timestamp"`
	Likes      int        `db:"likes" json:"likes"`
	Comments   int        `db:"comments" json:"comments"`
	Shares     int        `db:"shares" json:"shares"`
	LikedBy    StringList `db:"liked_by" json:"liked_by"`
	VehicleID  *string    `db:"vehicle_id" json:"vehicle_id"`
}

// LikedByContains reports whether userID is in the liker set.
func (p *Post) LikedByContains(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// StringList is a []string persisted as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Without returns a copy of the list with userID removed.
func (l StringList) Without(userID string) StringList {
	out := make(StringList, 0, len(l))
	for _, id := range l {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// FeedResponse is the snapshot feed payload, newest first.
type FeedResponse struct {
	Posts []Post `json:"posts"`
}

// Post constants
const (
	MaxPostCaptionLength = 2200
	MaxPostImageSize     = 10 * 1024 * 1024 // 10MB
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNoImageProvided = errors.New("an image is required")
	ErrCaptionTooLong  = errors.New("caption too long")
)
