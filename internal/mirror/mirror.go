package mirror

import (
	"context"

	"cargram/internal/model"
)

// RemoteMirror keeps a best-effort secondary copy of locally authoritative
// records in a remote document store. The local store never depends on a
// mirror call succeeding; implementations must be safe to skip entirely.
type RemoteMirror interface {
	// SavePost writes the post's metadata document. Image bytes never
	// leave the local store.
	SavePost(ctx context.Context, post *model.Post) error

	// LikePost applies the like inside a remote transaction: the liker is
	// only counted if not already present, so replayed events cannot
	// double count.
	LikePost(ctx context.Context, postID, userID string) error

	// UnlikePost is symmetric to LikePost; the count never goes negative.
	UnlikePost(ctx context.Context, postID, userID string) error

	// SharePost increments the share count unconditionally.
	SharePost(ctx context.Context, postID string) error

	// SaveVehicle appends the vehicle to the remote collection under a
	// generated document id.
	SaveVehicle(ctx context.Context, vehicle *model.Vehicle) error

	// SaveUser writes the profile document keyed by user id.
	SaveUser(ctx context.Context, user *model.User) error
}

// Noop is the mirror used when remote mirroring is disabled.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) SavePost(context.Context, *model.Post) error        { return nil }
func (*Noop) LikePost(context.Context, string, string) error     { return nil }
func (*Noop) UnlikePost(context.Context, string, string) error   { return nil }
func (*Noop) SharePost(context.Context, string) error            { return nil }
func (*Noop) SaveVehicle(context.Context, *model.Vehicle) error  { return nil }
func (*Noop) SaveUser(context.Context, *model.User) error        { return nil }
