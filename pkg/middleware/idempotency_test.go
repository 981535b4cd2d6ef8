package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newIdempotencyHandler(t *testing.T) (http.Handler, *int) {
	t.Helper()

	store := NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)

	calls := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"caller":%q,"call":%d}`, r.Header.Get("Authorization"), calls)
	})

	return Idempotency(store, "Idempotency-Key")(inner), &calls
}

func idempotentRequest(handler http.Handler, method, token, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/bookings", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysForSameCaller(t *testing.T) {
	handler, calls := newIdempotencyHandler(t)

	first := idempotentRequest(handler, http.MethodPost, "user-a-token", "abc")
	second := idempotentRequest(handler, http.MethodPost, "user-a-token", "abc")

	if *calls != 1 {
		t.Errorf("expected one handler invocation for a retried key, got %d", *calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("expected retry to replay the first response, got %s vs %s", second.Body.String(), first.Body.String())
	}
	if second.Code != http.StatusCreated {
		t.Errorf("expected replayed status 201, got %d", second.Code)
	}
}

func TestIdempotency_KeyIsScopedToCaller(t *testing.T) {
	handler, calls := newIdempotencyHandler(t)

	first := idempotentRequest(handler, http.MethodPost, "user-a-token", "abc")
	second := idempotentRequest(handler, http.MethodPost, "user-b-token", "abc")

	if *calls != 2 {
		t.Fatalf("expected both callers to reach the handler, got %d invocations", *calls)
	}
	if second.Body.String() == first.Body.String() {
		t.Errorf("second caller received the first caller's cached response: %s", second.Body.String())
	}
}

func TestIdempotency_OnlyCachesPosts(t *testing.T) {
	handler, calls := newIdempotencyHandler(t)

	idempotentRequest(handler, http.MethodGet, "user-a-token", "abc")
	idempotentRequest(handler, http.MethodGet, "user-a-token", "abc")

	if *calls != 2 {
		t.Errorf("expected GET requests to bypass the cache, got %d invocations", *calls)
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	handler, calls := newIdempotencyHandler(t)

	idempotentRequest(handler, http.MethodPost, "user-a-token", "")
	idempotentRequest(handler, http.MethodPost, "user-a-token", "")

	if *calls != 2 {
		t.Errorf("expected keyless requests to bypass the cache, got %d invocations", *calls)
	}
}
