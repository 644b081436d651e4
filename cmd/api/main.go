package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyvewyre/lead-api/internal/config"
	"github.com/hyvewyre/lead-api/internal/events"
	"github.com/hyvewyre/lead-api/internal/infra/cache"
	"github.com/hyvewyre/lead-api/internal/infra/database"
	"github.com/hyvewyre/lead-api/internal/infra/http/handlers"
	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/infra/integration/telnyx"
	"github.com/hyvewyre/lead-api/internal/infra/mail"
	"github.com/hyvewyre/lead-api/internal/infra/notify"
	"github.com/hyvewyre/lead-api/internal/infra/parser"
	"github.com/hyvewyre/lead-api/internal/infra/queue"
	"github.com/hyvewyre/lead-api/internal/infra/storage"
	"github.com/hyvewyre/lead-api/internal/infra/worker"
	"github.com/hyvewyre/lead-api/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	campaignRepo := database.NewCampaignRepository(db)
	tagRepo := database.NewTagRepository(db)
	dncRepo := database.NewDNCRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	followUpRepo := database.NewFollowUpRepository(db)
	pointsRepo := database.NewPointsRepository(db)

	bus := events.NewBus()

	// 2. Optional adapters; each stays a nil interface when disabled.
	var (
		snapshots usecase.SnapshotCache
		redisPing func(context.Context) error
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		snapshots = cache.NewRedisCache(rdb, cfg.Redis.TTL)
		redisPing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Printf("redis cache enabled at %s", cfg.Redis.Address)
	}

	var (
		jobs     usecase.JobPublisher
		rabbitMQ *queue.RabbitMQ
	)
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		jobs = queue.NewProducer(rabbitMQ.Ch)
	}

	var archiver usecase.FileArchiver
	if cfg.S3.Enabled {
		a, err := storage.NewS3Archiver(storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		archiver = a
	}

	var notifier usecase.ImportNotifier
	if cfg.Mail.Enabled {
		notifier = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}

	var numbers usecase.NumberProvider
	if cfg.Telnyx.Enabled {
		numbers = telnyx.NewClient(cfg.Telnyx.APIKey, cfg.Telnyx.BaseURL)
	}

	// 3. Use cases
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, cfg.Import.NameInference)
	leadUC := usecase.NewLeadUseCase(leadRepo, snapshots, bus, jobs)
	bulkUC := usecase.NewBulkActionUseCase(leadRepo, followUpRepo, jobs, snapshots, bus)
	importUC := usecase.NewImportLeadsUseCase(
		leadRepo, campaignRepo, tagRepo, dncRepo, settingsRepo,
		snapshots, bus, notifier, cfg.Import.NameInference,
	)
	parseUC := usecase.NewParseFileUseCase(parser.New(), archiver)
	dncUC := usecase.NewDNCUseCase(dncRepo)
	catalogUC := usecase.NewCatalogUseCase(campaignRepo, tagRepo, snapshots)
	numbersUC := usecase.NewNumbersUseCase(numbers, settingsUC)
	pointsUC := usecase.NewPointsUseCase(pointsRepo, settingsUC, bus)

	// 4. Workers
	if rabbitMQ != nil {
		jobWorker := queue.NewWorker(rabbitMQ.Ch, leadUC, leadUC)
		go func() {
			if err := jobWorker.Start(ctx, queue.QueueName); err != nil {
				log.Printf("job worker stopped: %v", err)
			}
		}()
	}
	go worker.NewFollowUpWorker(followUpRepo, bus, cfg.FollowUps.SweepInterval).Start(ctx)

	importLimit := middleware.NewRateLimiter(cfg.Import.RateLimitPerMinute, time.Minute)
	go importLimit.RunSweeper(ctx, 10*time.Minute)

	hub := notify.NewHub(nil)
	detach := hub.Attach(bus)
	defer detach()

	// 5. Handlers
	health := handlers.NewHealthHandler(db, nil, redisPing).
		WithComponent("s3", cfg.S3.Enabled).
		WithComponent("mail", cfg.Mail.Enabled).
		WithComponent("telnyx", cfg.Telnyx.Enabled)
	if rabbitMQ != nil {
		health.RabbitMQ = rabbitMQ.Conn
	}

	router := handlers.Router{
		Health:      health,
		Leads:       handlers.NewLeadHandler(leadUC, bulkUC),
		Imports:     handlers.NewImportHandler(parseUC, importUC),
		DNC:         handlers.NewDNCHandler(dncUC),
		Settings:    handlers.NewSettingsHandler(settingsUC, numbersUC, pointsUC),
		Catalog:     handlers.NewCatalogHandler(catalogUC),
		Events:      handlers.NewEventsHandler(hub),
		ImportLimit: importLimit,
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HyveWyre lead API listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
