package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cargram/internal/media"
	"cargram/internal/model"
	"cargram/internal/queue"
	"cargram/internal/repository"
)

// UserService handles business logic for account directory operations.
type UserService struct {
	repo         repository.UserRepository
	postRepo     repository.PostRepository
	favoriteRepo repository.FavoriteRepository
	images       *media.Store
	publisher    queue.Publisher
}

func NewUserService(
	repo repository.UserRepository,
	postRepo repository.PostRepository,
	favoriteRepo repository.FavoriteRepository,
	images *media.Store,
	publisher queue.Publisher,
) *UserService {
	return &UserService{
		repo:         repo,
		postRepo:     postRepo,
		favoriteRepo: favoriteRepo,
		images:       images,
		publisher:    publisher,
	}
}

// Register creates a new local account.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       strings.TrimSpace(req.Username),
		Email:          email,
		PasswordHashed: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishUserSaved(ctx, user.ID)
	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Don't reveal whether the email exists or not
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile returns the account plus its aggregate statistics. The stats
// are computed from the local store on every call, so they always reflect
// the posts and favorites as stored right now.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	postCount, err := s.postRepo.CountForAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	favoriteCount, err := s.favoriteRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}

	likesReceived, err := s.postRepo.SumLikesForAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum likes: %w", err)
	}

	return &model.ProfileResponse{
		User:          user,
		PostCount:     postCount,
		FavoriteCount: favoriteCount,
		LikesReceived: likesReceived,
	}, nil
}

// UpdateUsername renames the account and queues the directory entry for
// mirroring. Existing posts keep the username they were created with.
func (s *UserService) UpdateUsername(ctx context.Context, userID, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	if err := s.repo.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}

	s.publishUserSaved(ctx, userID)
	return s.repo.GetByID(ctx, userID)
}

// UpdateAvatar stores the uploaded picture and points the account at it.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	name, err := s.images.SaveAvatar(file, header)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAvatarPath(ctx, userID, name); err != nil {
		// Orphaned file; clean it up since the DB never saw it.
		_ = s.images.Remove(name)
		return nil, err
	}

	if user.AvatarPath != nil && *user.AvatarPath != name {
		if err := s.images.Remove(*user.AvatarPath); err != nil {
			log.Printf("[UserService] Failed to remove old avatar %s: %v", *user.AvatarPath, err)
		}
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) publishUserSaved(ctx context.Context, userID string) {
	event := queue.NewUserSavedEvent(userID)
	if _, err := s.publisher.Publish(ctx, queue.StreamMirror, event); err != nil {
		log.Printf("[UserService] Failed to publish UserSaved event: user=%s err=%v", userID, err)
	}
}
