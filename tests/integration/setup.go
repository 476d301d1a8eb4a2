package integration

import (
	"context"
	"os"
	"testing"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

// TestInfra holds the containers shared by a single integration test.
type TestInfra struct {
	RedisClient *redisclient.Client
}

func SetupTestInfra(t *testing.T) *TestInfra {
	t.Helper()

	ctx := context.Background()

	if os.Getenv("TESTCONTAINERS_RYUK_DISABLED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	}

	infra := &TestInfra{}
	setupRedis(t, ctx, infra)
	return infra
}

func setupRedis(t *testing.T, ctx context.Context, infra *TestInfra) {
	container, err := redismodule.Run(ctx, "redis:8.4.0-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get redis uri: %v", err)
	}

	opt, err := redisclient.ParseURL(uri)
	if err != nil {
		t.Fatalf("failed to parse redis URL: %v", err)
	}

	client := redisclient.NewClient(opt)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(ctxWithTimeout).Err(); err != nil {
		client.Close()
		t.Fatalf("failed to ping redis: %v", err)
	}

	infra.RedisClient = client
	t.Cleanup(func() {
		client.Close()
	})
}
