package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeInvoker is a scriptable Invoker for tests.
type fakeInvoker struct {
	mu       sync.Mutex
	calls    int
	failures int // fail this many calls before succeeding
	response *Response
}

func (f *fakeInvoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("backend error")
	}
	if f.response != nil {
		return f.response, nil
	}
	return &Response{Content: "ok", TokensUsed: 10}, nil
}

func TestRequestUserContent(t *testing.T) {
	tests := []struct {
		name         string
		req          Request
		wantContains []string
		wantExact    string
	}{
		{
			name:      "no prior context",
			req:       Request{Prompt: "Explain goroutines"},
			wantExact: "Explain goroutines",
		},
		{
			name: "with prior context",
			req:  Request{Prompt: "Continue the design", PriorContext: "The API uses REST"},
			wantContains: []string{
				"The API uses REST",
				"Continue the design",
				"Context from earlier",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.UserContent()
			if tt.wantExact != "" && got != tt.wantExact {
				t.Errorf("UserContent() = %q, want %q", got, tt.wantExact)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("UserContent() missing %q: %q", want, got)
				}
			}
		})
	}
}

func TestRequestUserContent_ContextComesFirst(t *testing.T) {
	req := Request{Prompt: "the ask", PriorContext: "the context"}
	got := req.UserContent()

	if strings.Index(got, "the context") > strings.Index(got, "the ask") {
		t.Errorf("prior context should precede the prompt: %q", got)
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(100, 50)
	tracker.Add(200, 75)

	input, output := tracker.Total()
	if input != 300 || output != 125 {
		t.Errorf("Total() = (%d, %d), want (300, 125)", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}

	tracker.Reset()
	input, output = tracker.Total()
	if input != 0 || output != 0 || tracker.Calls() != 0 {
		t.Errorf("after Reset(): (%d, %d, %d calls)", input, output, tracker.Calls())
	}
}

func TestTokenTracker_Concurrent(t *testing.T) {
	tracker := NewTokenTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Add(10, 5)
		}()
	}
	wg.Wait()

	input, output := tracker.Total()
	if input != 500 || output != 250 {
		t.Errorf("Total() = (%d, %d), want (500, 250)", input, output)
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name   string
		input  int64
		output int64
		want   float64
	}{
		{"zero usage", 0, 0, 0},
		{"input only", 1_000_000, 0, 3.0},
		{"output only", 0, 1_000_000, 15.0},
		{"mixed", 1_000_000, 1_000_000, 18.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateCost(tt.input, tt.output); got != tt.want {
				t.Errorf("EstimateCost(%d, %d) = %v, want %v", tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestTokenTracker_Cost(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(1_000_000, 1_000_000)

	if got := tracker.Cost(); got != 18.0 {
		t.Errorf("Cost() = %v, want 18.0", got)
	}
}

// trackedFake is a fakeInvoker that also exposes a token tracker.
type trackedFake struct {
	fakeInvoker
	tracker *TokenTracker
}

func (f *trackedFake) Tracker() *TokenTracker {
	return f.tracker
}

func TestBreaker_ExposesInnerTracker(t *testing.T) {
	tracker := NewTokenTracker()
	fake := &trackedFake{tracker: tracker}

	breaker := WithBreaker(fake, 3, time.Second)
	if breaker.Tracker() != tracker {
		t.Error("Tracker() should surface the wrapped gateway's tracker")
	}

	plain := WithBreaker(&fakeInvoker{}, 3, time.Second)
	if plain.Tracker() != nil {
		t.Error("Tracker() should be nil when the inner Invoker has none")
	}
}

func TestBreaker_PassesThrough(t *testing.T) {
	fake := &fakeInvoker{}
	breaker := WithBreaker(fake, 3, time.Second)

	resp, err := breaker.Invoke(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q, want ok", resp.Content)
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	fake := &fakeInvoker{failures: 100}
	breaker := WithBreaker(fake, 3, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := breaker.Invoke(ctx, Request{}); err == nil {
			t.Fatalf("call %d should have failed", i+1)
		}
	}

	// Breaker is now open: the backend must not see further calls.
	before := fake.calls
	if _, err := breaker.Invoke(ctx, Request{}); err == nil {
		t.Fatal("Invoke() on open breaker should fail")
	}
	if fake.calls != before {
		t.Errorf("open breaker still reached backend (%d -> %d calls)", before, fake.calls)
	}
}

func TestBreaker_RecoversAfterCooldown(t *testing.T) {
	fake := &fakeInvoker{failures: 2}
	breaker := WithBreaker(fake, 2, 50*time.Millisecond)

	ctx := context.Background()
	breaker.Invoke(ctx, Request{})
	breaker.Invoke(ctx, Request{})

	// Wait out the cooldown; the half-open probe should succeed.
	time.Sleep(80 * time.Millisecond)

	resp, err := breaker.Invoke(ctx, Request{})
	if err != nil {
		t.Fatalf("Invoke() after cooldown error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q, want ok", resp.Content)
	}
}
