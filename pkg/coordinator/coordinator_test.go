package coordinator_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/goliatone/go-qrform/pkg/coordinator"
	"github.com/goliatone/go-qrform/pkg/generator"
	"github.com/goliatone/go-qrform/pkg/model"
	"github.com/goliatone/go-qrform/pkg/resource"
)

type stubClient struct {
	mu      sync.Mutex
	calls   int
	result  generator.Result
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubClient) Generate(ctx context.Context, _ model.Payload) (generator.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return generator.Result{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newCoordinator(t *testing.T, client generator.Client, store *resource.Store, options ...coordinator.Option) *coordinator.Coordinator {
	t.Helper()
	c, err := coordinator.New(client, store, options...)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return c
}

func TestSubmitEmptyContentSkipsNetwork(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		client := &stubClient{}
		store := resource.NewStore()
		c := newCoordinator(t, client, store)
		_ = c.UpdateField(model.FieldText, text)

		if err := c.Submit(context.Background()); !errors.Is(err, coordinator.ErrEmptyContent) {
			t.Fatalf("text %q: want ErrEmptyContent, got %v", text, err)
		}
		if client.callCount() != 0 {
			t.Fatalf("text %q: network call was issued", text)
		}
		status := c.Snapshot()
		if status.Err != coordinator.MsgEmptyContent {
			t.Fatalf("text %q: error message %q", text, status.Err)
		}
		if status.Loading {
			t.Fatalf("text %q: must not enter pending", text)
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	client := &stubClient{result: generator.Result{Data: []byte("png"), ContentType: "image/png"}}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	status := c.Snapshot()
	if status.Phase != coordinator.PhaseSucceeded || status.Loading {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.ResultURL == "" {
		t.Fatal("result URL missing after success")
	}
	if status.Err != "" {
		t.Fatalf("error set after success: %q", status.Err)
	}
	if store.Len() != 1 {
		t.Fatalf("store should hold exactly one blob, has %d", store.Len())
	}

	data, contentType, ok := c.Result()
	if !ok || string(data) != "png" || contentType != "image/png" {
		t.Fatalf("result not resolvable: %q %q %v", data, contentType, ok)
	}
}

func TestSubmitFailureStoresErrorOnly(t *testing.T) {
	client := &stubClient{err: &generator.StatusError{Code: http.StatusInternalServerError}}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	err := c.Submit(context.Background())
	var statusErr *generator.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("submit error not surfaced: %v", err)
	}

	status := c.Snapshot()
	if status.Phase != coordinator.PhaseFailed || status.Loading {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Err == "" {
		t.Fatal("error message missing after failure")
	}
	if status.ResultURL != "" {
		t.Fatalf("result URL set after failure: %q", status.ResultURL)
	}
	if store.Len() != 0 {
		t.Fatalf("store should be empty, has %d", store.Len())
	}
}

func TestResubmitReleasesPriorHandle(t *testing.T) {
	client := &stubClient{result: generator.Result{Data: []byte("one"), ContentType: "image/png"}}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	firstURL := c.Snapshot().ResultURL

	client.result = generator.Result{Data: []byte("two"), ContentType: "image/png"}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	status := c.Snapshot()
	if status.ResultURL == firstURL {
		t.Fatal("result URL not replaced")
	}
	if store.Len() != 1 {
		t.Fatalf("prior blob leaked: store has %d entries", store.Len())
	}
	data, _, _ := c.Result()
	if string(data) != "two" {
		t.Fatalf("unexpected bytes %q", data)
	}
}

func TestFailureAfterSuccessClearsResult(t *testing.T) {
	client := &stubClient{result: generator.Result{Data: []byte("one"), ContentType: "image/png"}}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	client.err = &generator.StatusError{Code: http.StatusBadGateway}
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected failure")
	}

	status := c.Snapshot()
	if status.ResultURL != "" || status.Err == "" {
		t.Fatalf("failed attempt must leave error only: %+v", status)
	}
	if store.Len() != 0 {
		t.Fatalf("prior blob leaked: store has %d entries", store.Len())
	}
}

func TestSingleRequestInFlight(t *testing.T) {
	client := &stubClient{
		result:  generator.Result{Data: []byte("png"), ContentType: "image/png"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	done := make(chan error, 1)
	go func() {
		done <- c.Submit(context.Background())
	}()
	<-client.started

	if !c.Snapshot().Loading {
		t.Fatal("snapshot should report loading while pending")
	}
	if err := c.Submit(context.Background()); !errors.Is(err, coordinator.ErrRequestInFlight) {
		t.Fatalf("want ErrRequestInFlight, got %v", err)
	}

	close(client.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if client.callCount() != 1 {
		t.Fatalf("expected one network call, got %d", client.callCount())
	}
}

func TestCloseMidFlightLeavesStateAlone(t *testing.T) {
	client := &stubClient{
		result:  generator.Result{Data: []byte("png"), ContentType: "image/png"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	done := make(chan error, 1)
	go func() {
		done <- c.Submit(context.Background())
	}()
	<-client.started

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	close(client.release)

	if err := <-done; !errors.Is(err, coordinator.ErrClosed) {
		t.Fatalf("want ErrClosed from late completion, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("late response leaked a blob: store has %d entries", store.Len())
	}
	if c.Snapshot().ResultURL != "" {
		t.Fatal("late response mutated torn-down coordinator")
	}
}

func TestCloseReleasesHeldResult(t *testing.T) {
	client := &stubClient{result: generator.Result{Data: []byte("png"), ContentType: "image/png"}}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("close leaked the result: store has %d entries", store.Len())
	}
	// Idempotent teardown.
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := c.UpdateField(model.FieldText, "x"); !errors.Is(err, coordinator.ErrClosed) {
		t.Fatalf("update after close: want ErrClosed, got %v", err)
	}
	if err := c.Submit(context.Background()); !errors.Is(err, coordinator.ErrClosed) {
		t.Fatalf("submit after close: want ErrClosed, got %v", err)
	}
}

func TestNewSubmitClearsPriorError(t *testing.T) {
	client := &stubClient{err: &generator.StatusError{Code: http.StatusInternalServerError}}
	store := resource.NewStore()
	c := newCoordinator(t, client, store)
	_ = c.UpdateField(model.FieldText, "hello")

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	client.err = nil
	client.result = generator.Result{Data: []byte("png"), ContentType: "image/png"}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	status := c.Snapshot()
	if status.Err != "" || status.ResultURL == "" {
		t.Fatalf("prior error not cleared: %+v", status)
	}
}
