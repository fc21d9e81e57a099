package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/bailgen/internal/vars"
)

func TestFactsHash_Consistency(t *testing.T) {
	a := vars.FromAny(map[string]any{"Nom Preneur": "ACME", "Montant du loyer": 1000})
	b := vars.FromAny(map[string]any{"Montant du loyer": "1 000", "Nom Preneur": "ACME"})
	if FactsHash(a) != FactsHash(b) {
		t.Errorf("expected identical hashes for equal renderings, got %q and %q", FactsHash(a), FactsHash(b))
	}
	c := vars.FromAny(map[string]any{"Nom Preneur": "ACME SAS"})
	if FactsHash(a) == FactsHash(c) {
		t.Error("expected different hashes for different facts")
	}
}

func TestFactsHash_EmptyInput(t *testing.T) {
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := FactsHash(vars.Context{}); got != want {
		t.Errorf("expected hash %q, got %q", want, got)
	}
}

func TestStore_PutGet(t *testing.T) {
	s := NewStore(time.Hour)
	s.Put("gen-1", Result{FactsHash: "abc"})
	g := s.Get("gen-1")
	if g == nil {
		t.Fatal("expected stored generation")
	}
	if g.Result.FactsHash != "abc" {
		t.Errorf("expected hash %q, got %q", "abc", g.Result.FactsHash)
	}
	if s.Get("gen-2") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestStore_Cleanup(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(10 * time.Minute)
	s.now = func() time.Time { return now }

	s.Put("old", Result{})
	now = now.Add(5 * time.Minute)
	s.Put("new", Result{})
	now = now.Add(6 * time.Minute)

	s.Cleanup()
	if s.Get("old") != nil {
		t.Error("expected old generation to be evicted")
	}
	if s.Get("new") == nil {
		t.Error("expected new generation to survive")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 generation, got %d", s.Len())
	}
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	s := NewStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}
