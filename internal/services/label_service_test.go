package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

// fakeGenerator counts calls and can be told to fail.
type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateLabelOverview(_ context.Context, label string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text + " (" + label + ")", nil
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func TestLabelOverviews_GenerateThenCache(t *testing.T) {
	db := newTestDB(t)
	gen := &fakeGenerator{text: "A storied imprint"}
	svc := NewLabelService(db, gen)
	ctx := context.Background()

	out, err := svc.Overviews(ctx, "Warp")
	if err != nil {
		t.Fatalf("overviews: %v", err)
	}
	if len(out) != 1 || out[0].Cached || out[0].Overview == "" || out[0].Error != "" {
		t.Fatalf("first call should generate: %+v", out)
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 generation call, got %d", gen.calls)
	}

	// Second request is served from the cache without another call.
	out, err = svc.Overviews(ctx, "Warp")
	if err != nil {
		t.Fatalf("overviews: %v", err)
	}
	if !out[0].Cached || gen.calls != 1 {
		t.Fatalf("second call should hit the cache: %+v, calls=%d", out, gen.calls)
	}
}

func TestLabelOverviews_GenerationFailureRetries(t *testing.T) {
	db := newTestDB(t)
	gen := &fakeGenerator{err: errors.New("upstream timeout")}
	svc := NewLabelService(db, gen)
	ctx := context.Background()

	out, _ := svc.Overviews(ctx, "Warp")
	if out[0].Error == "" || out[0].Overview != "" {
		t.Fatalf("failure should surface inline: %+v", out)
	}

	// The failed attempt was not cached as valid; a later request retries
	// and succeeds.
	gen.err = nil
	gen.text = "Recovered"
	out, _ = svc.Overviews(ctx, "Warp")
	if out[0].Error != "" || out[0].Overview == "" {
		t.Fatalf("retry after failure should succeed: %+v", out)
	}
	if gen.calls != 2 {
		t.Fatalf("expected a retry, calls=%d", gen.calls)
	}
}

func TestLabelOverviews_DisabledWithoutGenerator(t *testing.T) {
	db := newTestDB(t)
	svc := NewLabelService(db, nil)

	if svc.Enabled() {
		t.Fatal("service without a generator must report disabled")
	}
	out, err := svc.Overviews(context.Background(), "Warp")
	if err != nil {
		t.Fatalf("overviews: %v", err)
	}
	if out[0].Error == "" {
		t.Fatalf("cache miss with no generator should report an error: %+v", out)
	}
}

func TestLabelService_Invalidate(t *testing.T) {
	db := newTestDB(t)
	gen := &fakeGenerator{text: "First take"}
	svc := NewLabelService(db, gen)
	ctx := context.Background()

	if err := svc.Invalidate(ctx, "Warp"); !errors.Is(err, ErrLabelNotFound) {
		t.Fatalf("invalidate before any cache row: %v", err)
	}

	if _, err := svc.Overviews(ctx, "Warp"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.Invalidate(ctx, "Warp"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := repo.GetValidLabelOverview(ctx, db, "Warp"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("cache row should be invalid: %v", err)
	}

	// Next request regenerates.
	gen.text = "Second take"
	out, _ := svc.Overviews(ctx, "Warp")
	if out[0].Cached || gen.calls != 2 {
		t.Fatalf("invalidated label should regenerate: %+v, calls=%d", out, gen.calls)
	}
}

func TestSplitLabels(t *testing.T) {
	got := splitLabels(" Warp, Apollo ,warp,,Ninja Tune ")
	want := []string{"Warp", "Apollo", "Ninja Tune"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitLabels: got %v, want %v", got, want)
	}
	if n := len(splitLabels("  , ,")); n != 0 {
		t.Fatalf("blank input should yield no labels, got %d", n)
	}
}
