package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "sunami_park/internal/app/http"
	"sunami_park/internal/config"
	"sunami_park/internal/lib/logger/sl"
	"sunami_park/internal/realtime"
	"sunami_park/internal/repository"
	adminservice "sunami_park/internal/services/admin_service"
	editservice "sunami_park/internal/services/edit_service"
	parkservice "sunami_park/internal/services/park_service"
	stateservice "sunami_park/internal/services/state_service"
	filestorage "sunami_park/internal/storage/filestorage"
	"sunami_park/internal/storage/memstore"
	redisstorage "sunami_park/internal/storage/redis"
	httprouters "sunami_park/internal/transport/http"
)

// App owns the whole wiring: storage, services, the realtime feed and the
// HTTP server. Without a DSN the content lives in the in-process store;
// without a redis address the click counters do too and realtime stays
// in-process.
type App struct {
	HTTPServer *httpapp.Server
	State      *stateservice.StateService

	log    *slog.Logger
	cfg    *config.Config
	repo   *repository.Repository
	redis  *redisstorage.Client
	bridge *realtime.Bridge
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	var (
		settingsRepo repository.SettingsRepository
		galleryRepo  repository.GalleryRepository
		repo         *repository.Repository
	)

	if cfg.DSN != "" {
		var err error
		repo, err = repository.NewRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		settingsRepo = repo.Settings
		galleryRepo = repo.Gallery
	} else {
		log.Warn("no DSN configured, park content lives in process memory")
		store := memstore.New()
		settingsRepo = store
		galleryRepo = store
	}

	files, err := filestorage.NewLocalFileStorage(
		cfg.FileStorage.BaseDir,
		cfg.FileStorage.BaseURL,
		cfg.FileStorage.MaxImageSize,
		cfg.FileStorage.MaxVideoSize,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	broker := realtime.NewBroker(log)

	var (
		gateRepo    repository.GateRepository
		redisClient *redisstorage.Client
		bridge      *realtime.Bridge
		feed        parkservice.SettingsFeed = broker
	)

	if cfg.Redis.RedisAddr != "" {
		redisClient = redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := redisClient.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("%s: redis ping: %w", op, err)
		}
		gateRepo = repository.NewRedisGateRepo(redisClient)

		if cfg.Realtime {
			bridge = realtime.NewBridge(log, redisClient, broker)
			feed = bridge
		}
	} else {
		log.Warn("no redis configured, click counters live in process memory")
		gateRepo = repository.NewMemoryGateRepo()
	}

	parkService := parkservice.NewParkService(log, settingsRepo, galleryRepo, files, feed)
	stateService := stateservice.NewStateService(log, parkService, broker, cfg.Realtime)
	editService := editservice.NewEditService(log, stateService)
	adminService := adminservice.NewAdminService(log, gateRepo, adminservice.Credentials{
		Username:         cfg.Admin.Username,
		PasswordHash:     cfg.Admin.PasswordHash,
		PasswordChecksum: cfg.Admin.PasswordChecksum,
	}, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)

	if err := parkService.EnsureSeeded(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	routers := httprouters.NewRouter(log, stateService, adminService, editService, broker)

	server := httpapp.New(log, cfg.Admin.JWTSecret, cfg.Admin.SessionSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)
	server.BuildRouters(cfg.FileStorage.BaseDir)

	return &App{
		HTTPServer: server,
		State:      stateService,
		log:        log,
		cfg:        cfg,
		repo:       repo,
		redis:      redisClient,
		bridge:     bridge,
	}, nil
}

// Run primes the state mirror, starts the background consumers and blocks
// on the HTTP server.
func (a *App) Run(ctx context.Context) error {
	const op = "app.Run"

	if err := a.State.Load(ctx); err != nil {
		// Startup keeps going; the first request retries the load.
		a.log.Error("initial state load failed", sl.Err(err))
	}

	if a.cfg.Realtime {
		go a.State.Run(ctx)
	}

	if a.bridge != nil {
		go func() {
			if err := a.bridge.Run(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("realtime bridge stopped", sl.Err(err))
			}
		}()
	}

	if err := a.HTTPServer.Start(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis client", sl.Err(err))
		}
	}

	if a.repo != nil {
		a.repo.Close()
	}
}
