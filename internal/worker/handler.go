package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"cargram/internal/mirror"
	"cargram/internal/model"
	"cargram/internal/queue"
)

// PostProvider defines the interface for fetching posts.
// This abstracts the repository layer so workers don't depend on DB directly.
type PostProvider interface {
	// GetByID returns the current state of a post.
	GetByID(ctx context.Context, postID string) (*model.Post, error)
}

// VehicleProvider defines the interface for fetching a user's saved vehicle.
type VehicleProvider interface {
	// GetForUser returns the user's vehicle, or nil when none is saved.
	GetForUser(ctx context.Context, userID string) (*model.Vehicle, error)
}

// UserProvider defines the interface for fetching accounts.
type UserProvider interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// Handler applies mirror events to the remote mirror.
// Events carry IDs only; the handler re-reads the local state so the mirror
// always converges on the latest local truth, even when events arrive late.
type Handler struct {
	remote   mirror.RemoteMirror
	posts    PostProvider
	vehicles VehicleProvider
	users    UserProvider
}

// NewHandler creates a new event handler.
func NewHandler(remote mirror.RemoteMirror, posts PostProvider, vehicles VehicleProvider, users UserProvider) *Handler {
	return &Handler{
		remote:   remote,
		posts:    posts,
		vehicles: vehicles,
		users:    users,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MirrorEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventPostCreated:
		err = h.handlePostCreated(ctx, event)
	case queue.EventPostLiked:
		err = h.handlePostLiked(ctx, event)
	case queue.EventPostUnliked:
		err = h.handlePostUnliked(ctx, event)
	case queue.EventPostShared:
		err = h.handlePostShared(ctx, event)
	case queue.EventVehicleSaved:
		err = h.handleVehicleSaved(ctx, event)
	case queue.EventUserSaved:
		err = h.handleUserSaved(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handlePostCreated pushes the full post snapshot to the mirror.
func (h *Handler) handlePostCreated(ctx context.Context, event queue.MirrorEvent) error {
	log.Printf("[Worker] PostCreated: post=%s", event.PostID)

	post, err := h.posts.GetByID(ctx, event.PostID)
	if err != nil {
		if err == model.ErrPostNotFound {
			// Deleted locally before the worker got to it. Nothing to mirror.
			log.Printf("[Worker] PostCreated: post=%s no longer exists, skipping", event.PostID)
			return nil
		}
		return fmt.Errorf("load post: %w", err)
	}

	if err := h.remote.SavePost(ctx, post); err != nil {
		return fmt.Errorf("mirror post: %w", err)
	}

	log.Printf("[Worker] PostCreated DONE: post=%s", event.PostID)
	return nil
}

// handlePostLiked replays a like against the mirror's copy.
func (h *Handler) handlePostLiked(ctx context.Context, event queue.MirrorEvent) error {
	log.Printf("[Worker] PostLiked: post=%s user=%s", event.PostID, event.UserID)

	if err := h.remote.LikePost(ctx, event.PostID, event.UserID); err != nil {
		return fmt.Errorf("mirror like: %w", err)
	}
	return nil
}

// handlePostUnliked replays an unlike against the mirror's copy.
func (h *Handler) handlePostUnliked(ctx context.Context, event queue.MirrorEvent) error {
	log.Printf("[Worker] PostUnliked: post=%s user=%s", event.PostID, event.UserID)

	if err := h.remote.UnlikePost(ctx, event.PostID, event.UserID); err != nil {
		return fmt.Errorf("mirror unlike: %w", err)
	}
	return nil
}

// handlePostShared replays a share count increment against the mirror's copy.
func (h *Handler) handlePostShared(ctx context.Context, event queue.MirrorEvent) error {
	log.Printf("[Worker] PostShared: post=%s", event.PostID)

	if err := h.remote.SharePost(ctx, event.PostID); err != nil {
		return fmt.Errorf("mirror share: %w", err)
	}
	return nil
}

// handleVehicleSaved pushes the user's current vehicle to the mirror.
func (h *Handler) handleVehicleSaved(ctx context.Context, event queue.MirrorEvent) error {
	log.Printf("[Worker] VehicleSaved: user=%s", event.UserID)

	vehicle, err := h.vehicles.GetForUser(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("load vehicle: %w", err)
	}
	if vehicle == nil {
		log.Printf("[Worker] VehicleSaved: user=%s has no vehicle, skipping", event.UserID)
		return nil
	}

	if err := h.remote.SaveVehicle(ctx, vehicle); err != nil {
		return fmt.Errorf("mirror vehicle: %w", err)
	}

	log.Printf("[Worker] VehicleSaved DONE: user=%s vin=%s", event.UserID, vehicle.VIN)
	return nil
}

// handleUserSaved pushes the account record to the mirror.
func (h *Handler) handleUserSaved(ctx context.Context, event queue.MirrorEvent) error {
	log.Printf("[Worker] UserSaved: user=%s", event.UserID)

	user, err := h.users.GetByID(ctx, event.UserID)
	if err != nil {
		if err == model.ErrUserNotFound {
			log.Printf("[Worker] UserSaved: user=%s no longer exists, skipping", event.UserID)
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := h.remote.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("mirror user: %w", err)
	}
	return nil
}
