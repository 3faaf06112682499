package realtime

import (
	"context"
	"testing"
	"time"
)

func TestLocalPresenceRoundTrip(t *testing.T) {
	p := NewLocalPresence()
	ctx := context.Background()

	online, err := p.IsOnline(ctx, 1)
	if err != nil {
		t.Fatalf("IsOnline: %v", err)
	}
	if online {
		t.Error("expected offline before MarkOnline")
	}

	if err := p.MarkOnline(ctx, 1); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	if online, _ = p.IsOnline(ctx, 1); !online {
		t.Error("expected online after MarkOnline")
	}

	if err := p.MarkOffline(ctx, 1); err != nil {
		t.Fatalf("MarkOffline: %v", err)
	}
	if online, _ = p.IsOnline(ctx, 1); online {
		t.Error("expected offline after MarkOffline")
	}
}

func TestLocalPresenceAgesOut(t *testing.T) {
	p := NewLocalPresence()
	ctx := context.Background()

	if err := p.MarkOnline(ctx, 1); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	// Backdate the entry past the TTL
	p.mu.Lock()
	p.seen[1] = time.Now().Add(-presenceTTL - time.Second)
	p.mu.Unlock()

	if online, _ := p.IsOnline(ctx, 1); online {
		t.Error("expected stale entry to read offline")
	}
}
