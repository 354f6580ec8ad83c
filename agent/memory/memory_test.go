package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := New(ctx, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("New() = %T, want *LocalStore", store)
	}

	store, err = New(ctx, Config{Backend: "REMOTE", RemoteURL: "https://memory.example.com", RemoteAPIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := store.(*RemoteStore); !ok {
		t.Fatalf("New() = %T, want *RemoteStore", store)
	}

	srv := miniredis.RunT(t)
	store, err = New(ctx, Config{Backend: "redis", RedisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rs, ok := store.(*RedisStore)
	if !ok {
		t.Fatalf("New() = %T, want *RedisStore", store)
	}
	_ = rs.Close()

	if _, err := New(ctx, Config{Backend: "cassandra"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("New() error = %v, want ErrValidation", err)
	}
}
