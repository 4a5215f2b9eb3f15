package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the mirror stream
const (
	EventPostCreated  = "post_created"
	EventPostLiked    = "post_liked"
	EventPostUnliked  = "post_unliked"
	EventPostShared   = "post_shared"
	EventVehicleSaved = "vehicle_saved"
	EventUserSaved    = "user_saved"
)

// Stream names
const (
	StreamMirror = "stream:mirror"
)

// Consumer group name for mirror workers
const (
	ConsumerGroupMirror = "mirror_workers"
)

// MirrorEvent represents a local mutation queued for best-effort remote
// mirroring. Events carry ids only; the worker re-reads current local
// state before mirroring, so a replayed or delayed event converges on
// whatever the local store says now.
type MirrorEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the mutation committed

	// Post events
	PostID string `json:"post_id,omitempty"`

	// Like/unlike events carry the acting user; vehicle/user events carry
	// the owning user.
	UserID string `json:"user_id,omitempty"`
}

// NewPostCreatedEvent queues a freshly created post for mirroring.
func NewPostCreatedEvent(postID string) MirrorEvent {
	return MirrorEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
	}
}

// NewPostLikedEvent queues a like for remote application.
func NewPostLikedEvent(postID, userID string) MirrorEvent {
	return MirrorEvent{
		Type:      EventPostLiked,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		UserID:    userID,
	}
}

// NewPostUnlikedEvent queues an unlike for remote application.
func NewPostUnlikedEvent(postID, userID string) MirrorEvent {
	return MirrorEvent{
		Type:      EventPostUnliked,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		UserID:    userID,
	}
}

// NewPostSharedEvent queues a share increment for remote application.
func NewPostSharedEvent(postID string) MirrorEvent {
	return MirrorEvent{
		Type:      EventPostShared,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
	}
}

// NewVehicleSavedEvent queues the user's current vehicle for mirroring.
func NewVehicleSavedEvent(userID string) MirrorEvent {
	return MirrorEvent{
		Type:      EventVehicleSaved,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
	}
}

// NewUserSavedEvent queues a profile document for mirroring.
func NewUserSavedEvent(userID string) MirrorEvent {
	return MirrorEvent{
		Type:      EventUserSaved,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e MirrorEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMirrorEvent parses a MirrorEvent from Redis stream message values.
func ParseMirrorEvent(values map[string]interface{}) (MirrorEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MirrorEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MirrorEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MirrorEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
