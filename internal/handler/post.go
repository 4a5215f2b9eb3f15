package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cargram/internal/httputil"
	"cargram/internal/media"
	"cargram/internal/model"
	"cargram/internal/service"
	"cargram/internal/transport/http/middleware"
)

type PostHandler struct {
	postService *service.PostService
	images      *media.Store
}

func NewPostHandler(postService *service.PostService, images *media.Store) *PostHandler {
	return &PostHandler{
		postService: postService,
		images:      images,
	}
}

// Create handles POST /posts
// Multipart upload: image (required), caption, username.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxPostImageSize) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 10MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "An image is required")
		return
	}
	defer file.Close()

	req := service.CreatePostRequest{
		Caption:  r.FormValue("caption"),
		Username: r.FormValue("username"),
		File:     file,
		Header:   header,
	}

	post, err := h.postService.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoImageProvided):
			httputil.WriteBadRequest(w, "An image is required")
		case errors.Is(err, model.ErrCaptionTooLong):
			httputil.WriteBadRequest(w, "Caption too long (max 2200 characters)")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 10MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] Create post handler: user=%s err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GetByID handles GET /posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	if postID == "" {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get post handler: post=%s err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Like handles POST /posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.postService.Like)
}

// Unlike handles DELETE /posts/{id}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.postService.Unlike)
}

// Share handles POST /posts/{id}/share
func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")
	post, err := h.postService.Share(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Share handler: post=%s user=%s err=%v", postID, userID, err)
		httputil.WriteInternalError(w, "Failed to share post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Favorite handles POST /posts/{id}/favorite
func (h *PostHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")
	if err := h.postService.Favorite(r.Context(), postID, userID); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Favorite handler: post=%s user=%s err=%v", postID, userID, err)
		httputil.WriteInternalError(w, "Failed to favorite post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.FavoriteStatusResponse{Favorite: true})
}

// Unfavorite handles DELETE /posts/{id}/favorite
func (h *PostHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")
	if err := h.postService.Unfavorite(r.Context(), postID, userID); err != nil {
		log.Printf("[ERROR] Unfavorite handler: post=%s user=%s err=%v", postID, userID, err)
		httputil.WriteInternalError(w, "Failed to unfavorite post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.FavoriteStatusResponse{Favorite: false})
}

// FavoriteStatus handles GET /posts/{id}/favorite
func (h *PostHandler) FavoriteStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")
	favorite, err := h.postService.IsFavorite(r.Context(), postID, userID)
	if err != nil {
		log.Printf("[ERROR] FavoriteStatus handler: post=%s user=%s err=%v", postID, userID, err)
		httputil.WriteInternalError(w, "Failed to check favorite")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.FavoriteStatusResponse{Favorite: favorite})
}

// GetImage handles GET /images/{name}
// Streams a stored post or avatar image.
func (h *PostHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := h.images.Open(name)
	if err != nil {
		httputil.WriteNotFound(w, "Image not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", model.ContentTypeJPEG)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}

// react factors the shared shape of like/unlike.
func (h *PostHandler) react(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, postID, userID string) (*model.Post, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")
	post, err := op(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Reaction handler: post=%s user=%s err=%v", postID, userID, err)
		httputil.WriteInternalError(w, "Failed to update post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}
