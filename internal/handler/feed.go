package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cargram/internal/httputil"
	"cargram/internal/model"
	"cargram/internal/service"
	"cargram/internal/transport/http/middleware"
)

// FeedHandler serves feed snapshots and their live SSE counterparts.
type FeedHandler struct {
	postService *service.PostService
}

func NewFeedHandler(postService *service.PostService) *FeedHandler {
	return &FeedHandler{postService: postService}
}

// GetFeed handles GET /feed
// Returns every post, newest first.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.postService.GetFeed(r.Context())
	if err != nil {
		log.Printf("[ERROR] GetFeed handler: %v", err)
		httputil.WriteInternalError(w, "Failed to load feed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

// GetUserPosts handles GET /users/{id}/posts
func (h *FeedHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	feed, err := h.postService.GetForAuthor(r.Context(), authorID)
	if err != nil {
		log.Printf("[ERROR] GetUserPosts handler: user=%s err=%v", authorID, err)
		httputil.WriteInternalError(w, "Failed to load posts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

// GetFavorites handles GET /me/favorites
func (h *FeedHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	feed, err := h.postService.GetFavorites(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetFavorites handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load favorites")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feed)
}

// StreamFeed handles GET /feed/stream
// Emits the feed snapshot as an SSE event now and after every change.
func (h *FeedHandler) StreamFeed(w http.ResponseWriter, r *http.Request) {
	h.streamSSE(w, r, h.postService.StreamFeed(r.Context()))
}

// StreamUserPosts handles GET /users/{id}/posts/stream
func (h *FeedHandler) StreamUserPosts(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	h.streamSSE(w, r, h.postService.StreamForAuthor(r.Context(), authorID))
}

// StreamFavorites handles GET /me/favorites/stream
func (h *FeedHandler) StreamFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	h.streamSSE(w, r, h.postService.StreamFavorites(r.Context(), userID))
}

// streamSSE writes each snapshot from the channel as one SSE data event.
// The channel closes when the request context is cancelled.
func (h *FeedHandler) streamSSE(w http.ResponseWriter, r *http.Request, snapshots <-chan []model.Post) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for posts := range snapshots {
		payload, err := json.Marshal(model.FeedResponse{Posts: posts})
		if err != nil {
			log.Printf("[ERROR] SSE marshal: %v", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "event: feed\ndata: %s\n\n", payload); err != nil {
			// Client went away; the context cancellation closes the channel.
			return
		}
		flusher.Flush()
	}
}
