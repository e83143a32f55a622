package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/config"
	"storefront-quiz-service/internal/debounce"
	"storefront-quiz-service/internal/infra/file"
	"storefront-quiz-service/internal/infra/httpfetch"
	"storefront-quiz-service/internal/infra/memory"
	pgsource "storefront-quiz-service/internal/infra/postgres"
	rediskv "storefront-quiz-service/internal/infra/redis"
	"storefront-quiz-service/internal/logging"
	transport "storefront-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the storefront and quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var kv app.KeyValueStore = memory.NewKVStore()
	if redisClient != nil {
		kv = rediskv.NewKVStore(redisClient, config.Duration(cfg.Redis.TTL, 0))
	}

	datasets := &app.Datasets{
		Catalog:        catalog.NewStore(),
		Questions:      app.NewQuestionBank(),
		ProductSource:  productSource(cfg, pool, redisClient),
		QuestionSource: questionSource(cfg, pool, redisClient),
		Logger:         logger,
	}
	go loadDatasets(ctx, datasets)

	wsHandler := transport.NewWSHandler(transport.Options{
		Catalog:        datasets.Catalog,
		Questions:      datasets.Questions,
		Store:          kv,
		KeyPrefix:      cfg.Storage.Prefix,
		SearchDebounce: config.Duration(cfg.Search.Debounce, debounce.DefaultDelay),
		Logger:         logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws/storefront", wsHandler.ServeStorefront)
	mux.HandleFunc("/ws/quiz", wsHandler.ServeQuiz)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting storefront-quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

wait:
	for {
		select {
		case <-reload:
			// Sources stay behind their cache, so upstream is only refetched
			// once the cached copy has expired.
			logger.Info("reloading datasets")
			go loadDatasets(ctx, datasets)
		case <-stop:
			logger.Info("shutting down server")
			break wait
		case <-ctx.Done():
			logger.Info("context canceled, shutting down server")
			break wait
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadDatasets(ctx context.Context, datasets *app.Datasets) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	datasets.Load(loadCtx)
}

// productSource picks URL, then file, then Postgres, then the built-in sample,
// and puts the Redis or in-memory cache in front.
func productSource(cfg config.Config, pool *pgxpool.Pool, client *redis.Client) app.ProductSource {
	var src app.ProductSource
	switch {
	case cfg.Catalog.URL != "":
		src = httpfetch.NewSource(nil, cfg.Catalog.URL, "")
	case cfg.Catalog.File != "":
		src = file.NewSource(cfg.Catalog.File, "")
	case pool != nil:
		src = pgsource.NewDatasetSource(pool)
	default:
		src = memory.NewStaticSource(sampleProducts(), nil)
	}

	ttl := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	if client != nil {
		return rediskv.NewDatasetCache(client, src, nil, ttl)
	}
	return memory.NewDatasetCache(src, nil, ttl)
}

func questionSource(cfg config.Config, pool *pgxpool.Pool, client *redis.Client) app.QuestionSource {
	var src app.QuestionSource
	switch {
	case cfg.Quiz.URL != "":
		src = httpfetch.NewSource(nil, "", cfg.Quiz.URL)
	case cfg.Quiz.File != "":
		src = file.NewSource("", cfg.Quiz.File)
	case pool != nil:
		src = pgsource.NewDatasetSource(pool)
	default:
		src = memory.NewStaticSource(nil, sampleQuestions())
	}

	ttl := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	if client != nil {
		return rediskv.NewDatasetCache(client, nil, src, ttl)
	}
	return memory.NewDatasetCache(nil, src, ttl)
}
