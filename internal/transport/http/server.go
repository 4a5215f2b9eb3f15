package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargram/internal/config"
	"cargram/internal/database"
	"cargram/internal/fuel"
	"cargram/internal/handler"
	"cargram/internal/media"
	"cargram/internal/mirror"
	"cargram/internal/prefs"
	"cargram/internal/queue"
	redisclient "cargram/internal/redis"
	"cargram/internal/repository"
	"cargram/internal/service"
	"cargram/internal/stream"
	"cargram/internal/vindecoder"
	"cargram/internal/worker"
)

// Run wires the application together and serves until SIGINT/SIGTERM.
func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Local stores: sqlite + image directory
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	images, err := media.NewStore(cfg.ImageDir)
	if err != nil {
		return fmt.Errorf("failed to init image store: %w", err)
	}

	// 3. Redis: preferences plus the mirror event stream
	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// 4. Remote mirror
	var remote mirror.RemoteMirror = mirror.NewNoop()
	var publisher queue.Publisher = queue.NewNoopPublisher()
	if cfg.MirrorEnabled {
		fs, err := mirror.NewFirestoreMirror(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			return fmt.Errorf("failed to init firestore mirror: %w", err)
		}
		defer fs.Close()
		remote = fs
		publisher = queue.NewPublisher(rdb.Client)
	}

	// 5. Repositories and live-feed notifier
	notifier := stream.NewNotifier()
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	postRepo := repository.NewPostRepository(db, notifier)
	favoriteRepo := repository.NewFavoriteRepository(db, notifier)

	// 6. Outbound clients
	decoder := vindecoder.NewClient(vindecoder.ClientConfig{
		BaseURL:   cfg.VinDecoderBaseURL,
		APIKey:    cfg.VinDecoderAPIKey,
		SecretKey: cfg.VinDecoderSecretKey,
	})
	fuelClient := fuel.NewClient(cfg.FuelPricesBaseURL, 0)

	// 7. Services
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, postRepo, favoriteRepo, images, publisher)
	vehicleService := service.NewVehicleService(vehicleRepo, decoder, remote, publisher, cfg.MirrorStrict)
	postService := service.NewPostService(postRepo, favoriteRepo, userRepo, vehicleRepo, images, publisher, notifier)
	prefsStore := prefs.NewStore(rdb.Client)

	// 8. Mirror workers
	if cfg.MirrorEnabled {
		consumer := queue.NewConsumer(rdb.Client)
		workerHandler := worker.NewHandler(remote, postRepo, vehicleRepo, userRepo)
		manager := worker.NewManager(consumer, workerHandler, worker.DefaultManagerConfig())
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start mirror workers: %w", err)
		}
		defer manager.Stop()
	}

	// 9. HTTP surface
	router := NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(userService, authService),
		UserHandler:     handler.NewUserHandler(userService, images),
		VehicleHandler:  handler.NewVehicleHandler(vehicleService),
		PostHandler:     handler.NewPostHandler(postService, images),
		FeedHandler:     handler.NewFeedHandler(postService),
		SettingsHandler: handler.NewSettingsHandler(prefsStore),
		FuelHandler:     handler.NewFuelHandler(fuelClient),
		JWTSecret:       cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[Server] Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("[Server] Stopped")
	return nil
}
