package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cargram/internal/media"
	"cargram/internal/model"
	"cargram/internal/queue"
	"cargram/internal/repository"
	"cargram/internal/stream"
)

// postLocks hands out one mutex per post id so concurrent reactions to
// the same post serialize while reactions to different posts proceed in
// parallel. Entries are never evicted; the set of hot posts is small.
type postLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPostLocks() *postLocks {
	return &postLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *postLocks) lock(postID string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[postID]
	if !ok {
		m = &sync.Mutex{}
		p.locks[postID] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m
}

// CreatePostRequest carries the multipart fields of a post upload.
type CreatePostRequest struct {
	Caption  string
	Username string // display name the client posted under
	File     multipart.File
	Header   *multipart.FileHeader
}

// PostService owns the locally authoritative post store, reactions,
// favorites, and the live feed streams.
type PostService struct {
	postRepo     repository.PostRepository
	favoriteRepo repository.FavoriteRepository
	userRepo     repository.UserRepository
	vehicleRepo  repository.VehicleRepository
	images       *media.Store
	publisher    queue.Publisher
	notifier     *stream.Notifier
	locks        *postLocks
}

func NewPostService(
	postRepo repository.PostRepository,
	favoriteRepo repository.FavoriteRepository,
	userRepo repository.UserRepository,
	vehicleRepo repository.VehicleRepository,
	images *media.Store,
	publisher queue.Publisher,
	notifier *stream.Notifier,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		favoriteRepo: favoriteRepo,
		userRepo:     userRepo,
		vehicleRepo:  vehicleRepo,
		images:       images,
		publisher:    publisher,
		notifier:     notifier,
		locks:        newPostLocks(),
	}
}

// Create stores the image, writes the post locally, and queues it for
// mirroring. The author's username and avatar are denormalized onto the
// post at this moment and never updated afterwards.
func (s *PostService) Create(ctx context.Context, userID string, req CreatePostRequest) (*model.Post, error) {
	if req.File == nil || req.Header == nil {
		return nil, model.ErrNoImageProvided
	}
	if len(req.Caption) > model.MaxPostCaptionLength {
		return nil, model.ErrCaptionTooLong
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A directory entry registered before the user picked a name carries
	// an empty username; the first post fills it in.
	username := user.Username
	if username == "" && strings.TrimSpace(req.Username) != "" {
		username = strings.TrimSpace(req.Username)
		if err := s.userRepo.UpdateUsername(ctx, userID, username); err != nil {
			log.Printf("[PostService] Failed to adopt username for user=%s: %v", userID, err)
		}
	}

	imageName, err := s.images.SavePostImage(req.File, req.Header)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:         uuid.NewString(),
		UserID:     userID,
		Username:   username,
		UserAvatar: user.AvatarPath,
		ImagePath:  imageName,
		Caption:    req.Caption,
		Timestamp:  time.Now().UTC(),
		LikedBy:    model.StringList{},
	}

	if vehicle, err := s.vehicleRepo.GetForUser(ctx, userID); err == nil && vehicle != nil {
		vin := vehicle.VIN
		post.VehicleID = &vin
	}

	if err := s.postRepo.Upsert(ctx, post); err != nil {
		_ = s.images.Remove(imageName)
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.publishEvent(ctx, queue.NewPostCreatedEvent(post.ID))
	log.Printf("[PostService] Created post=%s user=%s", post.ID, userID)
	return post, nil
}

// GetByID retrieves a single post.
func (s *PostService) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// GetFeed returns every post, newest first.
func (s *PostService) GetFeed(ctx context.Context) (*model.FeedResponse, error) {
	posts, err := s.postRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return &model.FeedResponse{Posts: posts}, nil
}

// GetForAuthor returns one author's posts, newest first.
func (s *PostService) GetForAuthor(ctx context.Context, authorID string) (*model.FeedResponse, error) {
	posts, err := s.postRepo.GetForAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("get author posts: %w", err)
	}
	return &model.FeedResponse{Posts: posts}, nil
}

// Like records userID's like on a post. Liking a post twice is a no-op:
// the liker set, not the counter, is the source of truth.
func (s *PostService) Like(ctx context.Context, postID, userID string) (*model.Post, error) {
	m := s.locks.lock(postID)
	defer m.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.LikedByContains(userID) {
		return post, nil
	}

	post.LikedBy = append(post.LikedBy, userID)
	post.Likes = len(post.LikedBy)

	if err := s.postRepo.Upsert(ctx, post); err != nil {
		return nil, fmt.Errorf("save like: %w", err)
	}

	s.publishEvent(ctx, queue.NewPostLikedEvent(postID, userID))
	return post, nil
}

// Unlike removes userID's like. Unliking a post that was never liked is a
// no-op and the count never goes below zero.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) (*model.Post, error) {
	m := s.locks.lock(postID)
	defer m.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.LikedByContains(userID) {
		return post, nil
	}

	post.LikedBy = post.LikedBy.Without(userID)
	post.Likes = len(post.LikedBy)

	if err := s.postRepo.Upsert(ctx, post); err != nil {
		return nil, fmt.Errorf("save unlike: %w", err)
	}

	s.publishEvent(ctx, queue.NewPostUnlikedEvent(postID, userID))
	return post, nil
}

// Share increments the share counter. Shares are not deduplicated: every
// share is a distinct event.
func (s *PostService) Share(ctx context.Context, postID string) (*model.Post, error) {
	m := s.locks.lock(postID)
	defer m.Unlock()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Shares++

	if err := s.postRepo.Upsert(ctx, post); err != nil {
		return nil, fmt.Errorf("save share: %w", err)
	}

	s.publishEvent(ctx, queue.NewPostSharedEvent(postID))
	return post, nil
}

// Favorite bookmarks a post for the user. Favoriting twice is a no-op.
func (s *PostService) Favorite(ctx context.Context, postID, userID string) error {
	// Verify post exists first
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.favoriteRepo.Add(ctx, postID, userID)
}

// Unfavorite removes the bookmark. Removing an absent bookmark is a no-op.
func (s *PostService) Unfavorite(ctx context.Context, postID, userID string) error {
	return s.favoriteRepo.Remove(ctx, postID, userID)
}

// IsFavorite reports whether the user bookmarked the post.
func (s *PostService) IsFavorite(ctx context.Context, postID, userID string) (bool, error) {
	return s.favoriteRepo.IsFavorite(ctx, postID, userID)
}

// GetFavorites resolves the user's bookmarks to full posts, most recently
// favorited first. Bookmarks pointing at deleted posts are skipped.
func (s *PostService) GetFavorites(ctx context.Context, userID string) (*model.FeedResponse, error) {
	favorites, err := s.favoriteRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	posts := make([]model.Post, 0, len(favorites))
	for _, fav := range favorites {
		post, err := s.postRepo.GetByID(ctx, fav.PostID)
		if err != nil {
			if err == model.ErrPostNotFound {
				continue
			}
			return nil, fmt.Errorf("load favorite post: %w", err)
		}
		posts = append(posts, *post)
	}

	return &model.FeedResponse{Posts: posts}, nil
}

// StreamFeed emits the full feed snapshot now and again after every
// mutation, until ctx is cancelled. A slow consumer coalesces bursts of
// mutations into one refresh.
func (s *PostService) StreamFeed(ctx context.Context) <-chan []model.Post {
	return s.streamSnapshots(ctx, func(ctx context.Context) ([]model.Post, error) {
		return s.postRepo.GetAll(ctx)
	})
}

// StreamForAuthor is StreamFeed restricted to one author's posts.
func (s *PostService) StreamForAuthor(ctx context.Context, authorID string) <-chan []model.Post {
	return s.streamSnapshots(ctx, func(ctx context.Context) ([]model.Post, error) {
		return s.postRepo.GetForAuthor(ctx, authorID)
	})
}

// StreamFavorites is StreamFeed restricted to the user's bookmarks.
func (s *PostService) StreamFavorites(ctx context.Context, userID string) <-chan []model.Post {
	return s.streamSnapshots(ctx, func(ctx context.Context) ([]model.Post, error) {
		resp, err := s.GetFavorites(ctx, userID)
		if err != nil {
			return nil, err
		}
		return resp.Posts, nil
	})
}

func (s *PostService) streamSnapshots(ctx context.Context, fetch func(context.Context) ([]model.Post, error)) <-chan []model.Post {
	out := make(chan []model.Post, 1)
	signal, cancel := s.notifier.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		for {
			posts, err := fetch(ctx)
			if err != nil {
				log.Printf("[PostService] Stream fetch failed: %v", err)
			} else {
				select {
				case out <- posts:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *PostService) publishEvent(ctx context.Context, event queue.MirrorEvent) {
	if _, err := s.publisher.Publish(ctx, queue.StreamMirror, event); err != nil {
		log.Printf("[PostService] Failed to publish %s event: %v", event.Type, err)
	}
}
