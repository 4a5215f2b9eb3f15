package mirror

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"cargram/internal/model"
)

// Collection names in the remote document store.
const (
	postsCollection    = "posts"
	vehiclesCollection = "vehicles"
	usersCollection    = "users"
)

// FirestoreMirror mirrors records into Cloud Firestore. Like/unlike/share
// run as transactions so concurrent mutations from several nodes cannot
// lose updates or double count.
type FirestoreMirror struct {
	client *firestore.Client
}

// NewFirestoreMirror initializes the Firebase app and opens a Firestore
// client. credentialsFile may be empty, in which case application default
// credentials are used.
func NewFirestoreMirror(ctx context.Context, projectID, credentialsFile string) (*FirestoreMirror, error) {
	if projectID == "" {
		return nil, fmt.Errorf("missing firestore project id")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore client: %w", err)
	}

	return &FirestoreMirror{client: client}, nil
}

// Close releases the underlying Firestore client.
func (m *FirestoreMirror) Close() error {
	return m.client.Close()
}

// SavePost writes the post metadata document keyed by post id. The local
// image path is deliberately omitted: it is meaningless off-node.
func (m *FirestoreMirror) SavePost(ctx context.Context, post *model.Post) error {
	data := map[string]interface{}{
		"id":          post.ID,
		"userId":      post.UserID,
		"username":    post.Username,
		"userAvatar":  post.UserAvatar,
		"caption":     post.Caption,
		"timestamp":   post.Timestamp,
		"likes":       post.Likes,
		"comments":    post.Comments,
		"shares":      post.Shares,
		"likedBy":     []string(post.LikedBy),
		"vehicleId":   post.VehicleID,
	}

	_, err := m.client.Collection(postsCollection).Doc(post.ID).Set(ctx, data)
	if err != nil {
		return fmt.Errorf("mirror post %s: %w", post.ID, err)
	}
	return nil
}

// LikePost transactionally adds userID to the post's liker set.
func (m *FirestoreMirror) LikePost(ctx context.Context, postID, userID string) error {
	ref := m.client.Collection(postsCollection).Doc(postID)

	err := m.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		likes, likedBy := likeState(snap)
		for _, id := range likedBy {
			if id == userID {
				return nil // already counted
			}
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "likes", Value: likes + 1},
			{Path: "likedBy", Value: append(likedBy, userID)},
		})
	})
	if err != nil {
		return fmt.Errorf("mirror like post=%s user=%s: %w", postID, userID, err)
	}
	return nil
}

// UnlikePost transactionally removes userID from the post's liker set.
func (m *FirestoreMirror) UnlikePost(ctx context.Context, postID, userID string) error {
	ref := m.client.Collection(postsCollection).Doc(postID)

	err := m.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		likes, likedBy := likeState(snap)
		remaining := make([]string, 0, len(likedBy))
		found := false
		for _, id := range likedBy {
			if id == userID {
				found = true
				continue
			}
			remaining = append(remaining, id)
		}
		if !found {
			return nil
		}

		if likes > 0 {
			likes--
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "likes", Value: likes},
			{Path: "likedBy", Value: remaining},
		})
	})
	if err != nil {
		return fmt.Errorf("mirror unlike post=%s user=%s: %w", postID, userID, err)
	}
	return nil
}

// SharePost transactionally increments the share count.
func (m *FirestoreMirror) SharePost(ctx context.Context, postID string) error {
	ref := m.client.Collection(postsCollection).Doc(postID)

	err := m.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var shares int64
		if v, err := snap.DataAt("shares"); err == nil {
			if n, ok := v.(int64); ok {
				shares = n
			}
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "shares", Value: shares + 1},
		})
	})
	if err != nil {
		return fmt.Errorf("mirror share post=%s: %w", postID, err)
	}
	return nil
}

// SaveVehicle appends the vehicle under a generated document id.
func (m *FirestoreMirror) SaveVehicle(ctx context.Context, vehicle *model.Vehicle) error {
	_, err := m.client.Collection(vehiclesCollection).NewDoc().Set(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("mirror vehicle vin=%s: %w", vehicle.VIN, err)
	}
	return nil
}

// SaveUser writes the profile document keyed by user id. The password
// hash and local avatar path stay on-node.
func (m *FirestoreMirror) SaveUser(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}

	_, err := m.client.Collection(usersCollection).Doc(user.ID).Set(ctx, data)
	if err != nil {
		return fmt.Errorf("mirror user %s: %w", user.ID, err)
	}
	return nil
}

// likeState reads likes and likedBy out of a post snapshot, tolerating
// missing fields on documents written by older clients.
func likeState(snap *firestore.DocumentSnapshot) (int64, []string) {
	var likes int64
	if v, err := snap.DataAt("likes"); err == nil {
		if n, ok := v.(int64); ok {
			likes = n
		}
	}

	var likedBy []string
	if v, err := snap.DataAt("likedBy"); err == nil {
		if items, ok := v.([]interface{}); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					likedBy = append(likedBy, s)
				}
			}
		}
	}
	return likes, likedBy
}
