package favorites

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeBackend is a controllable favorites backend with call counting.
type fakeBackend struct {
	favorited map[string]bool

	checkCalls int32
	checkErr   error
	writeErr   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{favorited: make(map[string]bool)}
}

func (f *fakeBackend) CheckFavorite(ctx context.Context, token, id string) (bool, error) {
	atomic.AddInt32(&f.checkCalls, 1)
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.favorited[id], nil
}

func (f *fakeBackend) AddFavorite(ctx context.Context, token, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.favorited[id] = true
	return nil
}

func (f *fakeBackend) RemoveFavorite(ctx context.Context, token, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.favorited[id] = false
	return nil
}

func newTestClient(t *testing.T, backend Backend) *Client {
	t.Helper()
	c, err := New(Config{Backend: backend, StatusTTL: time.Minute})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("Expected error for missing backend")
	}
}

func TestStatus_CachesReads(t *testing.T) {
	backend := newFakeBackend()
	backend.favorited["rec-1"] = true
	c := newTestClient(t, backend)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Status(ctx, "tok", "rec-1")
		if err != nil {
			t.Fatalf("Status returned error: %v", err)
		}
		if !got {
			t.Error("Status = false, want true")
		}
	}

	if got := atomic.LoadInt32(&backend.checkCalls); got != 1 {
		t.Errorf("CheckFavorite calls = %d, want 1", got)
	}
}

func TestToggle_FlipsAndInvalidates(t *testing.T) {
	backend := newFakeBackend()
	c := newTestClient(t, backend)
	ctx := context.Background()

	got, err := c.Toggle(ctx, "tok", "rec-1")
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !got {
		t.Error("first Toggle = false, want true")
	}
	if !backend.favorited["rec-1"] {
		t.Error("backend should record the favorite")
	}

	// Status after toggle must observe the mutation, not the old cache.
	status, err := c.Status(ctx, "tok", "rec-1")
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if !status {
		t.Error("Status after toggle = false, want true")
	}

	got, err = c.Toggle(ctx, "tok", "rec-1")
	if err != nil {
		t.Fatalf("second Toggle returned error: %v", err)
	}
	if got {
		t.Error("second Toggle = true, want false")
	}
}

func TestToggle_WriteFailureKeepsStatus(t *testing.T) {
	backend := newFakeBackend()
	c := newTestClient(t, backend)
	ctx := context.Background()

	backend.writeErr = errors.New("backend down")
	if _, err := c.Toggle(ctx, "tok", "rec-1"); err == nil {
		t.Fatal("Expected error from failed toggle")
	}
	if backend.favorited["rec-1"] {
		t.Error("failed toggle must not change backend state")
	}
}

func TestStatus_ErrorPropagates(t *testing.T) {
	backend := newFakeBackend()
	backend.checkErr = errors.New("unauthorized")
	c := newTestClient(t, backend)

	if _, err := c.Status(context.Background(), "tok", "rec-1"); err == nil {
		t.Fatal("Expected error from failed status check")
	}
}
