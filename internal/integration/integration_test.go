package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/domain"
	pgsource "storefront-quiz-service/internal/infra/postgres"
	pgmigrations "storefront-quiz-service/internal/infra/postgres/migrations"
	infraredis "storefront-quiz-service/internal/infra/redis"
)

func TestStorefrontAndQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedDatasets(t, ctx, pgURL, sampleProducts(), sampleQuestions())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	source := pgsource.NewDatasetSource(pool)
	cache := infraredis.NewDatasetCache(redisClient, source, source, 5*time.Minute)
	kv := infraredis.NewKVStore(redisClient, 5*time.Minute)
	logger := zap.NewNop()

	datasets := &app.Datasets{
		Catalog:        catalog.NewStore(),
		Questions:      app.NewQuestionBank(),
		ProductSource:  cache,
		QuestionSource: cache,
		Logger:         logger,
	}
	datasets.Load(ctx)

	if got := datasets.Catalog.Catalog().Len(); got != 3 {
		t.Fatalf("expected 3 products, got %d", got)
	}
	if !datasets.Questions.Ready() {
		t.Fatalf("expected question bank to be ready")
	}

	cartKey := app.CartKey("it:", "client-1")
	cart := app.LoadCart(ctx, kv, cartKey, datasets.Catalog, logger)
	if err := cart.Add(ctx, 2, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cart.ChangeQuantity(ctx, 2, 1); err != nil {
		t.Fatalf("change quantity: %v", err)
	}

	reloaded := app.LoadCart(ctx, kv, cartKey, datasets.Catalog, logger)
	lines := reloaded.Lines()
	if len(lines) != 1 || lines[0].ID != 2 || lines[0].Quantity != 2 {
		t.Fatalf("expected persisted cart with 2x product 2, got %+v", lines)
	}
	totals := reloaded.Totals()
	if totals.Subtotal != 40 || totals.Total != 55 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	board := app.NewLeaderboard(kv, app.LeaderboardKey("it:", "client-1"), logger)
	session := app.NewQuizSession(datasets.Questions, board)
	if err := session.Start(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	for session.State() == domain.QuizActive {
		q, _, _ := session.Current()
		if _, err := session.Answer(q.Answer); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	entries, err := session.SubmitScore(ctx, "Ada")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 2 || entries[0].Total != 2 {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}

	reseedDropsStaleProducts(t, ctx, pgURL, pool)

	stored := app.NewLeaderboard(kv, app.LeaderboardKey("it:", "client-1"), logger).Load(ctx)
	if len(stored) != 1 || stored[0].Name != "Ada" {
		t.Fatalf("expected leaderboard to survive reload, got %+v", stored)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "shop", "POSTGRES_PASSWORD": "shoppass", "POSTGRES_DB": "shopdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://shop:shoppass@%s:%s/shopdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedDatasets(t *testing.T, ctx context.Context, dsn string, products []domain.Product, questions []domain.Question) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := pgsource.Seed(ctx, db, products, questions); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func reseedDropsStaleProducts(t *testing.T, ctx context.Context, dsn string, pool *pgxpool.Pool) {
	t.Helper()
	seedDatasets(t, ctx, dsn, sampleProducts()[:1], nil)

	products, err := pgsource.NewDatasetSource(pool).LoadProducts(ctx)
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(products) != 1 || products[0].ID != 1 {
		t.Fatalf("expected reseed to leave only product 1, got %+v", products)
	}
	questions, err := pgsource.NewDatasetSource(pool).LoadQuestions(ctx)
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(questions) != len(sampleQuestions()) {
		t.Fatalf("expected questions untouched by a products-only seed, got %d", len(questions))
	}
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Desk Lamp", Description: "Warm LED lamp", Price: 35},
		{ID: 2, Name: "Notebook", Description: "Dotted A5", Price: 20},
		{ID: 3, Name: "Pen Set", Description: "Fine liners", Price: 12.5},
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Question: "H2O is?", Choices: []string{"Water", "Salt", "Iron"}, Answer: "Water"},
		{Question: "NaCl is?", Choices: []string{"Water", "Salt", "Iron"}, Answer: "Salt"},
		{Question: "Fe is?", Choices: []string{"Water", "Salt", "Iron"}, Answer: "Iron"},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
