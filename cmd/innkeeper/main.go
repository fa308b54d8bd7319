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
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"innkeeper/internal/app/commands"
	availabilityapp "innkeeper/internal/app/handlers/availability"
	bookingapp "innkeeper/internal/app/handlers/booking"
	contactapp "innkeeper/internal/app/handlers/contactform"
	meapp "innkeeper/internal/app/handlers/me"
	roomsapp "innkeeper/internal/app/handlers/rooms"
	"innkeeper/internal/app/middleware"
	appoutbox "innkeeper/internal/app/outbox"
	"innkeeper/internal/app/queries"
	authsvc "innkeeper/internal/app/services/auth"
	"innkeeper/internal/app/uow"
	domainauth "innkeeper/internal/domain/auth"
	domainavailability "innkeeper/internal/domain/availability"
	domaincontact "innkeeper/internal/domain/contact"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
	domainuser "innkeeper/internal/domain/user"
	"innkeeper/internal/infra/broker/kafka"
	"innkeeper/internal/infra/config"
	dbmongo "innkeeper/internal/infra/db/mongo"
	ginserver "innkeeper/internal/infra/http/gin"
	"innkeeper/internal/infra/obs"
	infraoutbox "innkeeper/internal/infra/outbox"
	"innkeeper/internal/infra/pricing"
	"innkeeper/internal/infra/security"
	"innkeeper/internal/infra/storage/memory"
	"innkeeper/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := os.Getenv("ROOMS_FIXTURES")
	if fixturesPath == "" {
		fixturesPath = defaultRoomFixturesPath()
	}
	if err := app.loadRoomFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("room fixtures load failed", "error", err, "path", fixturesPath)
	}
	if err := app.seedAdmin(ctx, logger); err != nil {
		logger.Warn("admin seed failed", "error", err)
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
	worker   *infraoutbox.Worker
	ready    func() error

	cfg       config.Config
	rooms     domainroom.Repository
	users     domainuser.Repository
	passwords authsvc.PasswordHasher

	mongoClient   *dbmongo.Client
	kafkaProducer *kafka.Producer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{cfg: cfg, ready: func() error { return nil }}

	var (
		roomRepo        domainroom.Repository
		reservationRepo domainreservation.Repository
		calendarRepo    domainavailability.Repository
		contactRepo     domaincontact.Repository
		userRepo        domainuser.Repository
		sessionStore    domainauth.SessionStore
		uowFactory      uow.UoWFactory
		box             appoutbox.Outbox
	)

	if cfg.MongoURI != "" {
		client, err := dbmongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		app.mongoClient = client
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		roomRepo = dbmongo.NewRoomRepository(client.DB)
		reservationRepo = dbmongo.NewReservationRepository(client.DB)
		calendarRepo = dbmongo.NewCalendarRepository(client.DB)
		contactRepo = dbmongo.NewContactRepository(client.DB)
		userRepo = dbmongo.NewUserRepository(client.DB)
		sessionStore = dbmongo.NewSessionStore(client.DB)
		uowFactory = dbmongo.Factory{
			DB:              client.DB,
			RoomRepo:        roomRepo,
			ReservationRepo: reservationRepo,
			CalendarRepo:    calendarRepo,
			ContactRepo:     contactRepo,
		}

		store := infraoutbox.NewStore(client.DB)
		box = store
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, fmt.Errorf("connect kafka: %w", err)
			}
			app.kafkaProducer = producer
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("kafka brokers not configured, outbox records stay staged")
		}
	} else {
		logger.Warn("mongo not configured, using in-memory storage")
		roomRepo = memory.NewRoomRepository()
		reservationRepo = memory.NewReservationRepository()
		calendarRepo = memory.NewCalendarRepository()
		contactRepo = memory.NewContactRepository()
		userRepo = memory.NewUserRepository()
		sessionStore = memory.NewSessionStore()
		uowFactory = memory.Factory{
			RoomRepo:        roomRepo,
			ReservationRepo: reservationRepo,
			CalendarRepo:    calendarRepo,
			ContactRepo:     contactRepo,
		}
		box = memory.NewOutbox()
	}

	app.rooms = roomRepo
	app.users = userRepo
	app.passwords = security.BcryptHasher{}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateReservationCommand{}.Key(), &bookingapp.CreateReservationHandler{
		UoWFactory:          uowFactory,
		Pricing:             pricing.NightlyPricer{Currency: cfg.Currency},
		Outbox:              box,
		Encoder:             encoder,
		RequireConfirmation: cfg.RequireConfirmation,
	})
	commands.RegisterHandler(commandBus, bookingapp.TransitionReservationCommand{}.Key(), &bookingapp.TransitionReservationHandler{
		Outbox:  box,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, roomsapp.CreateRoomCommand{}.Key(), &roomsapp.CreateRoomHandler{Logger: logger})
	commands.RegisterHandler(commandBus, roomsapp.UpdateRoomCommand{}.Key(), &roomsapp.UpdateRoomHandler{Logger: logger})
	commands.RegisterHandler(commandBus, roomsapp.DeleteRoomCommand{}.Key(), &roomsapp.DeleteRoomHandler{Logger: logger})
	commands.RegisterHandler(commandBus, roomsapp.UploadRoomPhotoCommand{}.Key(), &roomsapp.UploadRoomPhotoHandler{
		Logger:   logger,
		Uploader: buildUploader(cfg, logger),
	})
	commands.RegisterHandler(commandBus, contactapp.SubmitContactCommand{}.Key(), &contactapp.SubmitContactHandler{Logger: logger})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, roomsapp.ListRoomsQuery{}.Key(), &roomsapp.ListRoomsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, roomsapp.GetRoomQuery{}.Key(), &roomsapp.GetRoomHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, roomsapp.FeaturedRoomsQuery{}.Key(), &roomsapp.FeaturedRoomsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.GetRoomCalendarQuery{}.Key(), &availabilityapp.GetRoomCalendarHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.ListReservationsQuery{}.Key(), &bookingapp.ListReservationsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, meapp.ListHolderReservationsQuery{}.Key(), &meapp.ListHolderReservationsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, contactapp.ListContactMessagesQuery{}.Key(), &contactapp.ListContactMessagesHandler{UoWFactory: uowFactory})

	idempotencyStore := memory.NewIdempotencyStore()
	idempotencyStore.TTL = cfg.IdempotencyTTL
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idempotencyStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	authService := &authsvc.Service{
		Users:      userRepo,
		Sessions:   sessionStore,
		Passwords:  app.passwords,
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	app.handlers = ginserver.Handlers{
		Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
		Rooms: ginserver.RoomHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Me:             ginserver.MeHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Contact:        ginserver.ContactHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	return app, nil
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	if cfg.S3Endpoint == "" {
		return s3.NoopUploader{}
	}
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func (a *application) close(logger *slog.Logger) {
	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
}

type roomFixture struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Description      string   `json:"description"`
	Capacity         int      `json:"capacity"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	SizeSqft         int      `json:"size_sqft"`
	Amenities        []string `json:"amenities"`
	Photos           []string `json:"photos"`
	Available        bool     `json:"available"`
}

// loadRoomFixtures pre-populates the catalog on first start. Rooms that
// already exist keep their stored state.
func (a *application) loadRoomFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("room fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures []roomFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	loaded := 0
	for _, fx := range fixtures {
		if _, err := a.rooms.ByID(ctx, domainroom.ID(fx.ID)); err == nil {
			continue
		} else if !errors.Is(err, domainroom.ErrNotFound) {
			return err
		}
		rm, err := domainroom.New(domainroom.CreateParams{
			ID:               domainroom.ID(fx.ID),
			Name:             fx.Name,
			Type:             domainroom.Type(fx.Type),
			Description:      fx.Description,
			Capacity:         fx.Capacity,
			NightlyRateCents: fx.NightlyRateCents,
			SizeSqft:         fx.SizeSqft,
			Amenities:        fx.Amenities,
			Photos:           fx.Photos,
			Available:        fx.Available,
		})
		if err != nil {
			logger.Warn("room fixture invalid, skipping", "id", fx.ID, "error", err)
			continue
		}
		if err := a.rooms.Save(ctx, rm); err != nil {
			return err
		}
		loaded++
	}
	if loaded > 0 {
		logger.Info("room fixtures loaded", "count", loaded)
	}
	return nil
}

// seedAdmin creates the administrator account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no account with that email exists yet.
func (a *application) seedAdmin(ctx context.Context, logger *slog.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	if _, err := a.users.ByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return err
	}
	hash, err := a.passwords.Hash(password)
	if err != nil {
		return err
	}
	account, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Roles:        []domainuser.Role{domainuser.RoleAdmin},
	})
	if err != nil {
		return err
	}
	if err := a.users.Save(ctx, account); err != nil {
		return err
	}
	logger.Info("admin account seeded", "email", email)
	return nil
}

func defaultRoomFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "rooms.json"),
		filepath.Join("..", "data", "rooms.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
