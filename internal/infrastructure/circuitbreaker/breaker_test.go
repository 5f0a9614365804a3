package circuitbreaker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestBreaker_TripsAndRecovers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	breaker := New(Config{
		Name:         "flaky-provider",
		TripAfter:    3,
		RecoverAfter: 1,
		CoolDown:     50 * time.Millisecond,
	}, newTestLogger())
	boom := errors.New("provider down")

	// Act: three consecutive failures open the circuit.
	for i := 0; i < 3; i++ {
		_, err := breaker.Call(ctx, func(context.Context) (interface{}, error) {
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("call %d: expected provider error, got %v", i, err)
		}
	}

	// Assert
	if breaker.State() != StateOpen {
		t.Fatalf("expected open state, got %s", breaker.State())
	}

	invoked := false
	_, err := breaker.Call(ctx, func(context.Context) (interface{}, error) {
		invoked = true
		return nil, nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen while open, got %v", err)
	}
	if invoked {
		t.Error("open circuit must not invoke the call")
	}
	if !IsOpen(err) {
		t.Error("expected IsOpen to classify the rejection")
	}

	// After the cool-down a successful probe closes the circuit.
	time.Sleep(60 * time.Millisecond)

	result, err := breaker.Call(ctx, func(context.Context) (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result passthrough, got %v", result)
	}
	if breaker.State() != StateClosed {
		t.Errorf("expected closed state after recovery, got %s", breaker.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	// Arrange
	ctx := context.Background()
	breaker := New(Config{
		Name:      "flaky-provider",
		TripAfter: 1,
		CoolDown:  30 * time.Millisecond,
	}, newTestLogger())
	boom := errors.New("still down")

	breaker.Call(ctx, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	time.Sleep(40 * time.Millisecond)

	// Act: the first probe fails.
	_, err := breaker.Call(ctx, func(context.Context) (interface{}, error) {
		return nil, boom
	})

	// Assert
	if !errors.Is(err, boom) {
		t.Fatalf("expected probe to reach the provider, got %v", err)
	}
	if breaker.State() != StateOpen {
		t.Errorf("expected a failed probe to reopen the circuit, got %s", breaker.State())
	}
}

func TestBreaker_SuccessClearsFailureStreak(t *testing.T) {
	// Arrange
	ctx := context.Background()
	breaker := New(Config{Name: "provider", TripAfter: 3}, newTestLogger())
	boom := errors.New("blip")
	fail := func(context.Context) (interface{}, error) { return nil, boom }
	succeed := func(context.Context) (interface{}, error) { return nil, nil }

	// Act: two failures, a success, two more failures.
	breaker.Call(ctx, fail)
	breaker.Call(ctx, fail)
	breaker.Call(ctx, succeed)
	breaker.Call(ctx, fail)
	breaker.Call(ctx, fail)

	// Assert: the streak never reached three in a row.
	if breaker.State() != StateClosed {
		t.Errorf("expected closed state, got %s", breaker.State())
	}
}

func TestHTTPClient_CountsServerErrorsAgainstBreaker(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Name: "termii", TripAfter: 2}, time.Second, newTestLogger())

	// Act: two 5xx responses trip the breaker. Each still hands the
	// response back so the caller can read the provider's body.
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodPost, server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("call %d: expected the response back, got %v", i, err)
		}
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("call %d: unexpected status %d", i, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Assert
	req, _ := http.NewRequest(http.MethodPost, server.URL, nil)
	_, err := client.Do(req)
	if !IsOpen(err) {
		t.Fatalf("expected the circuit to be open, got %v", err)
	}
}

func TestHTTPClient_PassesThroughSuccess(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Name: "termii"}, 0, newTestLogger())

	// Act
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)

	// Assert
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}
