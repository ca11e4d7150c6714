package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bdshop/storefront-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestSetGetDelLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &Client{cmd: newMockCommands()}

	if err := client.Set(ctx, client.BasketKey("p1"), `{"basket":[]}`, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, client.BasketKey("p1"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `{"basket":[]}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := client.Del(ctx, client.BasketKey("p1")); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, client.BasketKey("p1")); !IsNil(err) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXOnlyFirstWins(t *testing.T) {
	ctx := context.Background()
	client := &Client{cmd: newMockCommands()}
	key := client.IdempotencyKey("checkout_success", "cs_test_1")

	first, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil || !first {
		t.Fatalf("expected first SetNX to succeed, got %v %v", first, err)
	}
	second, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil || second {
		t.Fatalf("expected second SetNX to be rejected, got %v %v", second, err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping on empty client to fail")
	}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected get on empty client to fail")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op, got %v", err)
	}
}

func TestKeyspace(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"idempotency", (&Client{}).IdempotencyKey("scope", "id"), "sf:idempotency:scope:id"},
		{"basket", (&Client{keys: NewKeyspace("shop-bd")}).BasketKey("profile-1"), "shop-bd:basket:profile-1"},
		{"blank parts skipped", (&Client{}).IdempotencyKey("scope", " "), "sf:idempotency:scope"},
		{"prefix trimmed", NewKeyspace(" staging: ").Key("basket", "p"), "staging:basket:p"},
		{"empty prefix", NewKeyspace("").Key("basket"), "sf:basket"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %q want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	if _, err := options(config.RedisConfig{}); err == nil {
		t.Fatalf("expected missing url/address to fail")
	}

	opts, err := options(config.RedisConfig{URL: "redis://localhost:6379/3", DB: 1, PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 3 {
		t.Fatalf("expected db from url to win, got %d", opts.DB)
	}
	if opts.PoolSize != 7 || opts.DialTimeout != time.Second {
		t.Fatalf("expected pool settings from config, got %d %v", opts.PoolSize, opts.DialTimeout)
	}

	opts, err = options(config.RedisConfig{Address: "cache:6379", Password: "pw", DB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

type mockCommands struct {
	data map[string]string
}

func newMockCommands() *mockCommands {
	return &mockCommands{data: make(map[string]string)}
}

func (m *mockCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCommands) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCommands) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCommands) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCommands) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
