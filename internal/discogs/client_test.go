package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("tok", "freakinbeats", "test-agent/1.0",
		WithBaseURL(srv.URL),
		WithPageInterval(rate.Inf),
	)
}

func writePage(w http.ResponseWriter, page, pages int, listings []RawListing) {
	_ = json.NewEncoder(w).Encode(inventoryPage{
		Pagination: pagination{Page: page, Pages: pages, Items: len(listings) * pages},
		Listings:   listings,
	})
}

func TestFetchInventory_FlattensPages(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Discogs token=tok" {
			t.Errorf("auth header: %q", got)
		}
		if got := r.URL.Query().Get("status"); got != "For Sale" {
			t.Errorf("status param: %q", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writePage(w, page, 3, []RawListing{{ID: int64(page)}})
	}))

	out, err := c.FetchInventory(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 listings across 3 pages, got %d", len(out))
	}
	for i, l := range out {
		if l.ID != int64(i+1) {
			t.Fatalf("page order lost: %+v", out)
		}
	}
}

func TestFetchInventory_AuthFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := c.FetchInventory(context.Background()); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestFetchInventory_SellerNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.FetchInventory(context.Background()); !errors.Is(err, ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
}

func TestFetchInventory_MidPaginationFailureFailsWholeFetch(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writePage(w, page, 3, []RawListing{{ID: 1}})
	}))

	out, err := c.FetchInventory(context.Background())
	if err == nil {
		t.Fatal("a failed page must fail the whole fetch")
	}
	if out != nil {
		t.Fatalf("no partial result allowed, got %d listings", len(out))
	}
}

func TestFetchInventory_RateLimitRetryThenSuccess(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writePage(w, 1, 1, []RawListing{{ID: 9}})
	}))

	out, err := c.FetchInventory(context.Background())
	if err != nil {
		t.Fatalf("fetch after 429: %v", err)
	}
	if len(out) != 1 || out[0].ID != 9 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
}

func TestFetchInventory_RateLimitExhaustsRetries(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	if _, err := c.FetchInventory(context.Background()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if calls != rateLimitRetries+1 {
		t.Fatalf("expected %d attempts, got %d", rateLimitRetries+1, calls)
	}
}

func TestFetchInventory_ContextCancelDuringBackoff(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Large Retry-After forces the retry loop into its backoff wait.
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.FetchInventory(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("15"); d != 15*time.Second {
		t.Fatalf("numeric: %v", d)
	}
	if d := parseRetryAfter(""); d != 0 {
		t.Fatalf("empty: %v", d)
	}
	if d := parseRetryAfter("Wed, 21 Oct 2026 07:28:00 GMT"); d != 0 {
		t.Fatalf("http-date falls back to default: %v", d)
	}
}

func TestFetchInventory_StopsOnEmptyPage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 1 {
			// Pagination claims more pages than exist; the empty page ends
			// the walk instead of looping forever.
			writePage(w, page, 10, nil)
			return
		}
		writePage(w, page, 10, []RawListing{{ID: 1}})
	}))

	out, err := c.FetchInventory(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(out))
	}
}

func TestFetchInventory_SellerEscaped(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writePage(w, 1, 1, nil)
	}))
	defer srv.Close()

	c := NewClient("tok", "weird/seller", "test-agent/1.0",
		WithBaseURL(srv.URL),
		WithPageInterval(rate.Inf),
	)
	if _, err := c.FetchInventory(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := fmt.Sprintf("/users/%s/inventory", "weird%2Fseller")
	if gotPath != want {
		t.Fatalf("path: got %q want %q", gotPath, want)
	}
}
