package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"cargram/internal/model"
	"cargram/internal/repository"
)

// newPostService builds a PostService over real sqlite repositories.
func newPostService(t *testing.T) (*PostService, repository.PostRepository, repository.UserRepository, *recordingPublisher) {
	t.Helper()

	db := newTestDB(t)
	notifier := newTestNotifier()
	publisher := &recordingPublisher{}

	postRepo := repository.NewPostRepository(db, notifier)
	favoriteRepo := repository.NewFavoriteRepository(db, notifier)
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	svc := NewPostService(postRepo, favoriteRepo, userRepo, vehicleRepo, newTestImages(t), publisher, notifier)
	return svc, postRepo, userRepo, publisher
}

func seedUser(t *testing.T, userRepo repository.UserRepository, username string) *model.User {
	t.Helper()

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          uuid.NewString() + "@example.com",
		PasswordHashed: "x",
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedPost(t *testing.T, postRepo repository.PostRepository, id, userID string) *model.Post {
	t.Helper()

	post := &model.Post{
		ID:        id,
		UserID:    userID,
		Username:  "driver",
		ImagePath: id + ".jpg",
		Timestamp: time.Now().UTC(),
		LikedBy:   model.StringList{},
	}
	if err := postRepo.Upsert(context.Background(), post); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

// =============================================================================
// CREATE
// =============================================================================

func TestPostService_Create(t *testing.T) {
	svc, _, userRepo, publisher := newPostService(t)
	user := seedUser(t, userRepo, "gearhead")

	file, header := testJPEG(t)
	post, err := svc.Create(context.Background(), user.ID, CreatePostRequest{
		Caption: "first drive",
		File:    file,
		Header:  header,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if post.ID == "" {
		t.Error("post id not assigned")
	}
	if post.Username != "gearhead" {
		t.Errorf("username = %q, want gearhead", post.Username)
	}
	if post.Likes != 0 || post.Shares != 0 || len(post.LikedBy) != 0 {
		t.Errorf("new post counters not zeroed: %+v", post)
	}
	if post.ImagePath == "" || !strings.HasSuffix(post.ImagePath, ".jpg") {
		t.Errorf("image path = %q", post.ImagePath)
	}

	got, err := svc.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID after create: %v", err)
	}
	if got.Caption != "first drive" {
		t.Errorf("persisted caption = %q", got.Caption)
	}

	types := publisher.typesSeen()
	if len(types) != 1 || types[0] != "post_created" {
		t.Errorf("published events = %v, want [post_created]", types)
	}
}

func TestPostService_Create_AdoptsBlankUsername(t *testing.T) {
	svc, _, userRepo, _ := newPostService(t)
	user := seedUser(t, userRepo, "") // registered without picking a name

	file, header := testJPEG(t)
	post, err := svc.Create(context.Background(), user.ID, CreatePostRequest{
		Caption:  "hello",
		Username: "latecomer",
		File:     file,
		Header:   header,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if post.Username != "latecomer" {
		t.Errorf("post username = %q, want adopted name", post.Username)
	}

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Username != "latecomer" {
		t.Errorf("directory username = %q, want adopted name persisted", stored.Username)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc, _, userRepo, _ := newPostService(t)
	user := seedUser(t, userRepo, "gearhead")
	ctx := context.Background()

	if _, err := svc.Create(ctx, user.ID, CreatePostRequest{Caption: "no image"}); !errors.Is(err, model.ErrNoImageProvided) {
		t.Errorf("missing image err = %v, want ErrNoImageProvided", err)
	}

	file, header := testJPEG(t)
	long := strings.Repeat("x", model.MaxPostCaptionLength+1)
	if _, err := svc.Create(ctx, user.ID, CreatePostRequest{Caption: long, File: file, Header: header}); !errors.Is(err, model.ErrCaptionTooLong) {
		t.Errorf("long caption err = %v, want ErrCaptionTooLong", err)
	}
}

// =============================================================================
// REACTIONS
// =============================================================================

func TestPostService_Like_Idempotent(t *testing.T) {
	svc, postRepo, _, publisher := newPostService(t)
	seedPost(t, postRepo, "p1", "author")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Like(ctx, "p1", "fan"); err != nil {
			t.Fatalf("Like #%d: %v", i, err)
		}
	}

	post, err := svc.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if post.Likes != 1 {
		t.Errorf("likes = %d, want 1 after repeated like by the same user", post.Likes)
	}
	if len(post.LikedBy) != 1 || post.LikedBy[0] != "fan" {
		t.Errorf("liked_by = %v", post.LikedBy)
	}

	// Only the first like publishes a mirror event.
	if types := publisher.typesSeen(); len(types) != 1 || types[0] != "post_liked" {
		t.Errorf("published events = %v, want [post_liked]", types)
	}
}

func TestPostService_Unlike_NeverNegative(t *testing.T) {
	svc, postRepo, _, _ := newPostService(t)
	seedPost(t, postRepo, "p1", "author")
	ctx := context.Background()

	// Unlike without a prior like is a no-op.
	post, err := svc.Unlike(ctx, "p1", "fan")
	if err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if post.Likes != 0 {
		t.Errorf("likes = %d after unlike of never-liked post", post.Likes)
	}

	if _, err := svc.Like(ctx, "p1", "fan"); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if _, err := svc.Unlike(ctx, "p1", "fan"); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if _, err := svc.Unlike(ctx, "p1", "fan"); err != nil {
		t.Fatalf("second Unlike: %v", err)
	}

	post, err = svc.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if post.Likes != 0 || len(post.LikedBy) != 0 {
		t.Errorf("likes=%d liked_by=%v, want clean zero", post.Likes, post.LikedBy)
	}
}

func TestPostService_Like_ConcurrentDistinctUsers(t *testing.T) {
	svc, postRepo, _, _ := newPostService(t)
	seedPost(t, postRepo, "p1", "author")
	ctx := context.Background()

	const users = 8
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Like(ctx, "p1", fmt.Sprintf("u%d", n))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Like: %v", err)
		}
	}

	post, err := svc.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if post.Likes != users {
		t.Errorf("likes = %d, want %d (no lost updates)", post.Likes, users)
	}
	if len(post.LikedBy) != users {
		t.Errorf("liked_by size = %d, want %d", len(post.LikedBy), users)
	}
}

func TestPostService_Share_Increments(t *testing.T) {
	svc, postRepo, _, publisher := newPostService(t)
	seedPost(t, postRepo, "p1", "author")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Share(ctx, "p1"); err != nil {
			t.Fatalf("Share #%d: %v", i, err)
		}
	}

	post, err := svc.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if post.Shares != 3 {
		t.Errorf("shares = %d, want 3 (shares are not deduplicated)", post.Shares)
	}
	if types := publisher.typesSeen(); len(types) != 3 {
		t.Errorf("published %d events, want 3", len(types))
	}
}

func TestPostService_Reactions_PostNotFound(t *testing.T) {
	svc, _, _, _ := newPostService(t)
	ctx := context.Background()

	if _, err := svc.Like(ctx, "missing", "fan"); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("Like err = %v, want ErrPostNotFound", err)
	}
	if _, err := svc.Share(ctx, "missing"); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("Share err = %v, want ErrPostNotFound", err)
	}
	if err := svc.Favorite(ctx, "missing", "fan"); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("Favorite err = %v, want ErrPostNotFound", err)
	}
}

// =============================================================================
// FAVORITES
// =============================================================================

func TestPostService_Favorites(t *testing.T) {
	svc, postRepo, _, _ := newPostService(t)
	seedPost(t, postRepo, "p1", "author")
	seedPost(t, postRepo, "p2", "author")
	ctx := context.Background()

	if err := svc.Favorite(ctx, "p1", "fan"); err != nil {
		t.Fatalf("Favorite: %v", err)
	}
	if err := svc.Favorite(ctx, "p2", "fan"); err != nil {
		t.Fatalf("Favorite: %v", err)
	}

	fav, err := svc.IsFavorite(ctx, "p1", "fan")
	if err != nil || !fav {
		t.Errorf("IsFavorite = %v, %v", fav, err)
	}

	feed, err := svc.GetFavorites(ctx, "fan")
	if err != nil {
		t.Fatalf("GetFavorites: %v", err)
	}
	if len(feed.Posts) != 2 {
		t.Fatalf("favorites = %d posts, want 2", len(feed.Posts))
	}
	// Most recently favorited first.
	if feed.Posts[0].ID != "p2" {
		t.Errorf("first favorite = %s, want p2", feed.Posts[0].ID)
	}

	if err := svc.Unfavorite(ctx, "p1", "fan"); err != nil {
		t.Fatalf("Unfavorite: %v", err)
	}
	feed, err = svc.GetFavorites(ctx, "fan")
	if err != nil {
		t.Fatalf("GetFavorites: %v", err)
	}
	if len(feed.Posts) != 1 || feed.Posts[0].ID != "p2" {
		t.Errorf("favorites after remove = %v", feed.Posts)
	}
}

// =============================================================================
// LIVE STREAMS
// =============================================================================

func waitForSnapshot(t *testing.T, ch <-chan []model.Post) []model.Post {
	t.Helper()
	select {
	case posts, ok := <-ch:
		if !ok {
			t.Fatal("stream closed unexpectedly")
		}
		return posts
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream snapshot")
		return nil
	}
}

func TestPostService_StreamFeed_ReemitsOnMutation(t *testing.T) {
	svc, postRepo, _, _ := newPostService(t)
	seedPost(t, postRepo, "p1", "author")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.StreamFeed(ctx)

	first := waitForSnapshot(t, ch)
	if len(first) != 1 {
		t.Fatalf("initial snapshot = %d posts, want 1", len(first))
	}
	if first[0].Likes != 0 {
		t.Fatalf("initial likes = %d", first[0].Likes)
	}

	if _, err := svc.Like(context.Background(), "p1", "fan"); err != nil {
		t.Fatalf("Like: %v", err)
	}

	// The mutation wakes the stream; the next snapshot reflects it.
	// A second mutation may have coalesced with the wakeup, so poll until
	// the like is visible.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case posts := <-ch:
			if len(posts) == 1 && posts[0].Likes == 1 {
				return
			}
		case <-deadline:
			t.Fatal("stream never re-emitted the liked post")
		}
	}
}

func TestPostService_StreamFeed_ClosesOnCancel(t *testing.T) {
	svc, postRepo, _, _ := newPostService(t)
	seedPost(t, postRepo, "p1", "author")

	ctx, cancel := context.WithCancel(context.Background())
	ch := svc.StreamFeed(ctx)
	waitForSnapshot(t, ch)

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// One in-flight snapshot may still arrive; the close follows.
			if _, ok := <-ch; ok {
				t.Error("stream still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("stream did not close after cancel")
	}
}
