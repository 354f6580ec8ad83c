package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestWrapRedisNil(t *testing.T) {
	t.Parallel()

	err := WrapRedis(redis.Nil)
	if StatusOf(err) != http.StatusNotFound {
		t.Fatalf("StatusOf() = %d, want 404", StatusOf(err))
	}
	if !errors.Is(err, redis.Nil) {
		t.Fatalf("expected wrapped redis.Nil, got %v", err)
	}
}

func TestWrapRedisFailure(t *testing.T) {
	t.Parallel()

	err := WrapRedis(errors.New("connection refused"))
	if StatusOf(err) != http.StatusBadGateway {
		t.Fatalf("StatusOf() = %d, want 502", StatusOf(err))
	}
	if MessageOf(err) != RedisErrorMessage {
		t.Fatalf("MessageOf() = %q", MessageOf(err))
	}
	if WrapRedis(nil) != nil {
		t.Fatal("WrapRedis(nil) should be nil")
	}
}

func TestStatusOfNested(t *testing.T) {
	t.Parallel()

	base := New(errors.New("dup"), http.StatusConflict, "client already exists")
	wrapped := fmt.Errorf("add client: %w", base)
	if StatusOf(wrapped) != http.StatusConflict {
		t.Fatalf("StatusOf() = %d, want 409", StatusOf(wrapped))
	}
	if MessageOf(wrapped) != "client already exists" {
		t.Fatalf("MessageOf() = %q", MessageOf(wrapped))
	}
	if StatusOf(errors.New("plain")) != http.StatusInternalServerError {
		t.Fatal("plain errors should map to 500")
	}
}
