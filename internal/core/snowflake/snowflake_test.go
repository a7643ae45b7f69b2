package snowflake

import (
	"testing"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
)

func TestRequestID(t *testing.T) {
	if err := Init(&config.SnowflakeConfig{WorkerID: 1}); err != nil {
		t.Fatalf("init: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := RequestID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id %q", id)
		}
		seen[id] = true
	}
	if Generate() <= 0 {
		t.Error("expected a positive id")
	}
}
