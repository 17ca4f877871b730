package logger

import (
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	log := New()
	ctx := context.WithValue(context.Background(), ContextKey, log)
	if FromContext(ctx) != log {
		t.Fatal("expected logger from context")
	}

	// missing logger falls back to a fresh one instead of panicking
	if FromContext(context.Background()) == nil {
		t.Fatal("expected fallback logger")
	}
}
