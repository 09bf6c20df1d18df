package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appoutbox "minpaku/internal/app/outbox"
	authsvc "minpaku/internal/app/services/auth"
	bookingsvc "minpaku/internal/app/services/booking"
	catalogsvc "minpaku/internal/app/services/catalog"
	favoritesvc "minpaku/internal/app/services/favorite"
	reviewsvc "minpaku/internal/app/services/review"
	domainfavorite "minpaku/internal/domain/favorite"
	domainhouse "minpaku/internal/domain/house"
	domainreservation "minpaku/internal/domain/reservation"
	domainreview "minpaku/internal/domain/review"
	domainuser "minpaku/internal/domain/user"
	"minpaku/internal/infra/broker/kafka"
	"minpaku/internal/infra/config"
	mongodb "minpaku/internal/infra/db/mongo"
	ginserver "minpaku/internal/infra/http/gin"
	"minpaku/internal/infra/obs"
	infraoutbox "minpaku/internal/infra/outbox"
	"minpaku/internal/infra/payments"
	"minpaku/internal/infra/security"
	"minpaku/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if err := loadHouseFixtures(ctx, app.houses, cfg.FixturesPath, logger); err != nil {
		logger.Warn("house fixtures load failed", "error", err, "path", cfg.FixturesPath)
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if app.producer != nil {
			if err := app.producer.Close(); err != nil {
				logger.Error("kafka producer close failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	houses   domainhouse.Repository
	worker   *infraoutbox.Worker
	producer *kafka.Producer
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		houses       domainhouse.Repository
		reservations domainreservation.Repository
		reviews      domainreview.Repository
		favorites    domainfavorite.Repository
		users        domainuser.Repository
		ready        = func() error { return nil }
	)

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		houseRepo := mongodb.NewHouseRepository(client.DB)
		reservationRepo := mongodb.NewReservationRepository(client.DB)
		reviewRepo := mongodb.NewReviewRepository(client.DB)
		favoriteRepo := mongodb.NewFavoriteRepository(client.DB)
		userRepo := mongodb.NewUserRepository(client.DB)
		if err := reservationRepo.EnsureIndexes(ctx); err != nil {
			return application{}, fmt.Errorf("reservation indexes: %w", err)
		}
		if err := favoriteRepo.EnsureIndexes(ctx); err != nil {
			return application{}, fmt.Errorf("favorite indexes: %w", err)
		}
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return application{}, fmt.Errorf("user indexes: %w", err)
		}
		houses = houseRepo
		reservations = reservationRepo
		reviews = reviewRepo
		favorites = favoriteRepo
		users = userRepo
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("storage: mongodb", "db", cfg.MongoDB)
	} else {
		houses = memory.NewHouseRepository()
		reservations = memory.NewReservationRepository()
		reviews = memory.NewReviewRepository()
		favorites = memory.NewFavoriteRepository()
		users = memory.NewUserRepository()
		logger.Info("storage: in-memory")
	}

	sessions := memory.NewSessionStore()
	verifications := memory.NewVerificationStore()
	drafts := memory.NewDraftStore()
	outboxQueue := memory.NewOutbox()

	var (
		producer *kafka.Producer
		worker   *infraoutbox.Worker
		box      appoutbox.Outbox
	)
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, fmt.Errorf("kafka producer: %w", err)
		}
		producer = p
		worker = &infraoutbox.Worker{
			Queue:       outboxQueue,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Logger:      logger,
		}
		box = outboxQueue
		logger.Info("eventing: kafka", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("eventing: disabled, events are dropped")
	}

	checkout := &payments.CheckoutClient{
		Client:   &http.Client{Timeout: cfg.PaymentTimeout},
		Endpoint: cfg.PaymentEndpoint,
		Logger:   logger,
	}

	authService := &authsvc.Service{
		Users:         users,
		Sessions:      sessions,
		Verifications: verifications,
		Passwords:     security.BcryptHasher{},
		Tokens:        security.RandomTokenGenerator{},
		Outbox:        box,
		SessionTTL:    cfg.SessionTTL,
		BaseURL:       cfg.BaseURL,
		Logger:        logger,
	}
	bookingService := bookingsvc.NewService(bookingsvc.Config{
		Houses:       houses,
		Reservations: reservations,
		Drafts:       drafts,
		Payments:     checkout,
		Outbox:       box,
		SuccessURL:   cfg.PaymentSuccessURL,
		CancelURL:    cfg.PaymentCancelURL,
	})
	catalogService := &catalogsvc.Service{
		Houses:    houses,
		Reviews:   reviews,
		Favorites: favorites,
		Logger:    logger,
	}
	reviewService := &reviewsvc.Service{
		Reviews: reviews,
		Houses:  houses,
		Logger:  logger,
	}
	favoriteService := &favoritesvc.Service{
		Favorites: favorites,
		Houses:    houses,
		Logger:    logger,
	}

	authMiddleware := ginserver.AuthMiddleware{Service: authService, Logger: logger}

	return application{
		handlers: ginserver.Handlers{
			Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
			House:          ginserver.HouseHandler{Service: catalogService, Logger: logger},
			Reservation:    ginserver.ReservationHandler{Service: bookingService, Logger: logger},
			Review:         ginserver.ReviewHandler{Service: reviewService, Users: users, Logger: logger},
			Favorite:       ginserver.FavoriteHandler{Service: favoriteService, Logger: logger},
			AdminHouse:     ginserver.AdminHouseHandler{Service: catalogService, Users: users, Logger: logger},
			AuthMiddleware: authMiddleware.Handle,
		},
		houses:   houses,
		worker:   worker,
		producer: producer,
		ready:    ready,
	}, nil
}

type houseFixture struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Capacity    int    `json:"capacity"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	ImageName   string `json:"image_name"`
}

func loadHouseFixtures(ctx context.Context, houses domainhouse.Repository, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("house fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []houseFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		if _, err := houses.ByID(ctx, domainhouse.HouseID(fx.ID)); err == nil {
			continue
		}
		h, err := domainhouse.New(domainhouse.CreateParams{
			ID:          domainhouse.HouseID(fx.ID),
			Name:        fx.Name,
			Description: fx.Description,
			Price:       fx.Price,
			Capacity:    fx.Capacity,
			PostalCode:  fx.PostalCode,
			Address:     fx.Address,
			PhoneNumber: fx.PhoneNumber,
			ImageName:   fx.ImageName,
			Now:         now,
		})
		if err != nil {
			logger.Error("fixture invalid", "house_id", fx.ID, "error", err)
			continue
		}
		if err := houses.Save(ctx, h); err != nil {
			logger.Error("cannot store fixture house", "house_id", fx.ID, "error", err)
			continue
		}
		logger.Info("house fixture imported", "house_id", h.ID)
	}
	return nil
}
