package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/lib/pq"

	"github.com/paradox-app/paradox/internal/adapter/cache"
	pgstore "github.com/paradox-app/paradox/internal/adapter/storage/postgres"
	"github.com/paradox-app/paradox/internal/ports"
	"github.com/paradox-app/paradox/pkg/config"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB                *gorm.DB
	SQL               *sql.DB
	Redis             *redis.Client
	Cache             ports.Cache
	PostgresContainer testcontainers.Container
	RedisContainer    testcontainers.Container
	Logger            *zap.Logger
	ctx               context.Context
}

var testEnv *TestEnv

// SetupTestEnvironment initializes the test environment with containers
func SetupTestEnvironment(t *testing.T) *TestEnv {
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Check if using external services (CI environment)
	if os.Getenv("DATABASE_URL") != "" {
		return setupExternalServices(t, ctx)
	}

	// Use testcontainers for local testing
	return setupContainers(t, ctx)
}

func setupExternalServices(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()

	env := &TestEnv{Logger: logger, ctx: ctx}
	connectDatabases(t, env, os.Getenv("DATABASE_URL"))

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	connectRedis(t, env, redisURL)

	testEnv = env
	return testEnv
}

func setupContainers(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()
	env := &TestEnv{Logger: logger, ctx: ctx}

	// Start Postgres container
	postgresContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("paradox_test"),
		tcpostgres.WithUsername("paradox"),
		tcpostgres.WithPassword("paradox_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	env.PostgresContainer = postgresContainer

	pgConnStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get postgres connection string: %v", err)
	}
	connectDatabases(t, env, pgConnStr)

	// Start Redis container
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	env.RedisContainer = redisContainer

	redisURL, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get redis connection string: %v", err)
	}
	connectRedis(t, env, redisURL)

	testEnv = env
	return testEnv
}

// connectDatabases opens both handles against the same database: a raw
// sql.DB for truncation and liveness checks, and the GORM connection
// the repositories run on. Migrations run once here.
func connectDatabases(t *testing.T, env *TestEnv, connStr string) {
	rawDB, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	var pingErr error
	for i := 0; i < 30; i++ {
		if pingErr = rawDB.Ping(); pingErr == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if pingErr != nil {
		t.Fatalf("Database never became reachable: %v", pingErr)
	}
	env.SQL = rawDB

	gormDB, err := pgstore.NewConnection(config.DatabaseConfig{URL: connStr}, env.Logger)
	if err != nil {
		t.Fatalf("Failed to connect GORM: %v", err)
	}
	if err := pgstore.RunMigrations(gormDB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	env.DB = gormDB
}

func connectRedis(t *testing.T, env *TestEnv, redisURL string) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(env.ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	env.Redis = redisClient

	appCache, err := cache.NewRedisCache(redisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to build cache adapter: %v", err)
	}
	env.Cache = appCache
}

// TeardownTestEnvironment cleans up the test environment
func TeardownTestEnvironment(t *testing.T) {
	if testEnv == nil {
		return
	}

	ctx := context.Background()

	if testEnv.DB != nil {
		pgstore.Close(testEnv.DB)
	}

	if testEnv.SQL != nil {
		testEnv.SQL.Close()
	}

	if testEnv.Cache != nil {
		testEnv.Cache.Close()
	}

	if testEnv.Redis != nil {
		testEnv.Redis.Close()
	}

	if testEnv.PostgresContainer != nil {
		if err := testEnv.PostgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	}

	if testEnv.RedisContainer != nil {
		if err := testEnv.RedisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	}

	testEnv = nil
}

// CleanDatabase truncates all tables except the seeded coupon catalog
func CleanDatabase(t *testing.T, db *sql.DB) {
	tables := []string{
		"share_clicks",
		"share_links",
		"withdrawal_requests",
		"referrals",
		"earnings",
		"user_tasks",
		"tasks",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Failed to truncate %s: %v", table, err)
		}
	}
}

// FlushRedis clears all Redis keys
func FlushRedis(t *testing.T, client *redis.Client) {
	ctx := context.Background()
	if err := client.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
}
