package async

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAwaitCompleted(t *testing.T) {
	f := NewFuture[string]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Resolve("/tmp/photo.jpg")
	}()

	v, ok := Await(context.Background(), f)
	if !ok {
		t.Fatal("Expected a value from a completed future")
	}
	if v != "/tmp/photo.jpg" {
		t.Errorf("Expected /tmp/photo.jpg, got %q", v)
	}
}

func TestAwaitNilContext(t *testing.T) {
	v, ok := Await(nil, Resolved(7))
	if !ok || v != 7 {
		t.Errorf("Expected (7, true), got (%d, %v)", v, ok)
	}
}

func TestAwaitNilFuture(t *testing.T) {
	var f *Future[string]

	done := make(chan struct{})
	go func() {
		defer close(done)
		if v, ok := Await(context.Background(), f); ok || v != "" {
			t.Errorf("Expected empty result for nil future, got %q, %v", v, ok)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Await blocked on a nil future")
	}
}

func TestAwaitFaulted(t *testing.T) {
	f := NewFuture[string]()
	f.Reject(errors.New("picker crashed"))

	v, ok := Await(context.Background(), f)
	if ok {
		t.Error("Expected no result from a faulted future")
	}
	if v != "" {
		t.Errorf("Expected zero value, got %q", v)
	}
}

func TestAwaitCancelled(t *testing.T) {
	f := NewFuture[int]()
	f.Cancel()

	if _, ok := Await(context.Background(), f); ok {
		t.Error("Expected no result from a cancelled future")
	}
	if _, err := f.Result(); !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}

func TestAwaitContextDone(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok := Await(ctx, f); ok {
		t.Error("Expected no result when the context ends first")
	}
	if f.Status() != Pending {
		t.Errorf("Expected future to stay pending, got %s", f.Status())
	}
}

func TestSettleOnce(t *testing.T) {
	f := NewFuture[int]()
	if !f.Resolve(1) {
		t.Fatal("First Resolve should settle the future")
	}
	if f.Resolve(2) {
		t.Error("Second Resolve should be ignored")
	}
	if f.Reject(errors.New("late")) {
		t.Error("Reject after Resolve should be ignored")
	}
	if f.Cancel() {
		t.Error("Cancel after Resolve should be ignored")
	}

	v, err := f.Result()
	if v != 1 || err != nil {
		t.Errorf("Expected (1, nil), got (%d, %v)", v, err)
	}
	if f.Status() != Completed {
		t.Errorf("Expected completed, got %s", f.Status())
	}
}

func TestGo(t *testing.T) {
	tests := []struct {
		name   string
		fn     func() (int, error)
		status Status
		ok     bool
	}{
		{"value", func() (int, error) { return 7, nil }, Completed, true},
		{"error", func() (int, error) { return 0, errors.New("no device") }, Faulted, false},
		{"panic", func() (int, error) { panic("boom") }, Faulted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Go(tt.fn)
			_, ok := Await(context.Background(), f)
			if ok != tt.ok {
				t.Errorf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if f.Status() != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, f.Status())
			}
		})
	}
}

func TestResolved(t *testing.T) {
	f := Resolved(42)
	select {
	case <-f.Done():
	default:
		t.Fatal("Resolved future should already be done")
	}
	if v, ok := Await(context.Background(), f); !ok || v != 42 {
		t.Errorf("Expected (42, true), got (%d, %v)", v, ok)
	}
}
