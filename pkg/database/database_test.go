package database

import (
	"context"
	"errors"
	"testing"
)

func TestOpenRejectsUnknownScheme(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"", "mysql://localhost/db", "redis://localhost"} {
		if _, err := Open(Config{URL: url}); !errors.Is(err, ErrUnsupportedURL) {
			t.Fatalf("Open(%q) error = %v, want ErrUnsupportedURL", url, err)
		}
	}
}

func TestOpenSQLiteInMemory(t *testing.T) {
	t.Parallel()

	db, err := Open(Config{URL: "sqlite:file::memory:?cache=shared"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRowContext(context.Background(), "SELECT 1").Scan(&one); err != nil {
		t.Fatalf("select error = %v", err)
	}
	if one != 1 {
		t.Fatalf("select = %d, want 1", one)
	}
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()

	if (Config{}).Enabled() {
		t.Fatal("empty config should be disabled")
	}
	if !(Config{URL: "sqlite:file::memory:"}).Enabled() {
		t.Fatal("sqlite config should be enabled")
	}
}
