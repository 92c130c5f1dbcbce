package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeProvider struct {
	id    string
	text  string
	err   error
	delay time.Duration
}

func (f fakeProvider) ID() string { return f.id }

func (f fakeProvider) Extract(ctx context.Context, in Input) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func TestPoolOneResultPerProvider(t *testing.T) {
	pool := NewPool([]Provider{
		fakeProvider{id: "a", text: "alpha"},
		fakeProvider{id: "b", text: "bravo"},
		fakeProvider{id: "c", err: errors.New("engine offline")},
	}, 0, nil)

	results := pool.Extract(context.Background(), Input{ImagePath: "x.png"})
	if len(results) != 3 {
		t.Fatalf("got %d results, want one per provider", len(results))
	}
	if results["a"].Text != "alpha" || results["a"].Failed() {
		t.Errorf("a = %+v", results["a"])
	}
	if results["b"].Text != "bravo" || results["b"].Failed() {
		t.Errorf("b = %+v", results["b"])
	}
}

func TestPoolFailureIsDataNotError(t *testing.T) {
	pool := NewPool([]Provider{
		fakeProvider{id: "bad", err: errors.New("engine offline")},
	}, 0, nil)

	results := pool.Extract(context.Background(), Input{})
	res := results["bad"]
	if !res.Failed() {
		t.Fatal("expected failed result")
	}
	if !strings.HasPrefix(res.Text, "Error extracting text with bad:") {
		t.Errorf("failure text = %q", res.Text)
	}
	if res.Err == "" {
		t.Error("Err should carry the cause")
	}
}

func TestPoolTimeoutCancelsSlowProvider(t *testing.T) {
	pool := NewPool([]Provider{
		fakeProvider{id: "slow", text: "never", delay: time.Second},
		fakeProvider{id: "fast", text: "quick"},
	}, 20*time.Millisecond, nil)

	results := pool.Extract(context.Background(), Input{})
	if !results["slow"].Failed() {
		t.Error("slow provider should time out")
	}
	if results["fast"].Failed() {
		t.Errorf("fast provider should succeed: %+v", results["fast"])
	}
}

func TestPoolProviders(t *testing.T) {
	pool := NewPool([]Provider{
		fakeProvider{id: "a"},
		fakeProvider{id: "b"},
	}, 0, nil)
	ids := pool.Providers()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Providers() = %v", ids)
	}
}
