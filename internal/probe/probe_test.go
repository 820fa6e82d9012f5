package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestProbeRejectsMalformedAddresses(t *testing.T) {
	p := New(time.Second)
	for _, ip := range []string{
		"",
		"example.com",
		"10.0.0",
		"10.0.0.256",
		"::1",
		"8.8.8.8; rm -rf /",
		"8.8.8.8 -c 100",
	} {
		if _, err := p.Probe(context.Background(), ip); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("%q: want ErrInvalidAddress, got %v", ip, err)
		}
	}
}

func TestProbeIsTimeBounded(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns ping")
	}
	p := New(500 * time.Millisecond)
	start := time.Now()
	// TEST-NET-1: reserved, never answers.
	res, err := p.Probe(context.Background(), "192.0.2.1")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if res.Online {
		t.Fatal("reserved address reported online")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("probe not bounded: took %v", elapsed)
	}
}

func TestProbeStopsOnClientDisconnect(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns ping")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p := New(10 * time.Second)
	go func() {
		defer close(done)
		_, _ = p.Probe(ctx, "192.0.2.1")
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("probe kept running after cancellation")
	}
}
