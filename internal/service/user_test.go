package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"cargram/internal/model"
	"cargram/internal/repository"
)

func newUserService(t *testing.T) (*UserService, *recordingPublisher) {
	t.Helper()

	db := newTestDB(t)
	notifier := newTestNotifier()
	publisher := &recordingPublisher{}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, notifier)
	favoriteRepo := repository.NewFavoriteRepository(db, notifier)

	svc := NewUserService(userRepo, postRepo, favoriteRepo, newTestImages(t), publisher)
	return svc, publisher
}

func TestUserService_Register(t *testing.T) {
	svc, publisher := newUserService(t)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "Driver@Example.com",
		Password: "securepassword123",
		Username: "driver",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == "" {
		t.Error("user id not assigned")
	}
	if user.Email != "driver@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}

	// Password must be hashed, never stored in plain text.
	if user.PasswordHashed == "securepassword123" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("securepassword123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	if types := publisher.typesSeen(); len(types) != 1 || types[0] != "user_saved" {
		t.Errorf("published events = %v, want [user_saved]", types)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	req := &model.RegisterRequest{Email: "driver@example.com", Password: "pw123456", Username: "driver"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("err = %v, want ErrEmailExists", err)
	}
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "driver@example.com",
		Password: "securepassword123",
		Username: "driver",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Login(ctx, &model.LoginRequest{Email: "driver@example.com", Password: "securepassword123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "driver" {
		t.Errorf("username = %q", user.Username)
	}

	// Wrong password and unknown email fail identically.
	if _, err := svc.Login(ctx, &model.LoginRequest{Email: "driver@example.com", Password: "wrong"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_GetProfile_Stats(t *testing.T) {
	db := newTestDB(t)
	notifier := newTestNotifier()
	publisher := &recordingPublisher{}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, notifier)
	favoriteRepo := repository.NewFavoriteRepository(db, notifier)
	svc := NewUserService(userRepo, postRepo, favoriteRepo, newTestImages(t), publisher)
	ctx := context.Background()

	user, err := svc.Register(ctx, &model.RegisterRequest{Email: "a@b.c", Password: "pw123456", Username: "driver"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Two posts with likes, one favorite.
	p1 := seedPost(t, postRepo, "p1", user.ID)
	p1.Likes = 3
	if err := postRepo.Upsert(ctx, p1); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	seedPost(t, postRepo, "p2", user.ID)
	if err := favoriteRepo.Add(ctx, "p2", user.ID); err != nil {
		t.Fatalf("Add favorite: %v", err)
	}

	profile, err := svc.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.PostCount != 2 {
		t.Errorf("post count = %d, want 2", profile.PostCount)
	}
	if profile.FavoriteCount != 1 {
		t.Errorf("favorite count = %d, want 1", profile.FavoriteCount)
	}
	if profile.LikesReceived != 3 {
		t.Errorf("likes received = %d, want 3", profile.LikesReceived)
	}
}

func TestUserService_UpdateUsername(t *testing.T) {
	svc, publisher := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &model.RegisterRequest{Email: "a@b.c", Password: "pw123456", Username: "old"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := svc.UpdateUsername(ctx, user.ID, "new-name")
	if err != nil {
		t.Fatalf("UpdateUsername: %v", err)
	}
	if updated.Username != "new-name" {
		t.Errorf("username = %q", updated.Username)
	}

	// Register + rename both mirror the directory entry.
	if types := publisher.typesSeen(); len(types) != 2 {
		t.Errorf("published events = %v, want two user_saved", types)
	}
}
