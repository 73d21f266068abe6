// Package coordinator owns the form configuration and the lifecycle of the
// single outbound generation request: validate, submit, and hold the returned
// binary result under a strict create → use → release discipline.
package coordinator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-qrform/pkg/generator"
	"github.com/goliatone/go-qrform/pkg/model"
	"github.com/goliatone/go-qrform/pkg/resource"
)

// Phase enumerates the request lifecycle states.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Status is the UI-facing snapshot of the request state. Exactly one of
// ResultURL and Err is populated after a completed attempt.
type Status struct {
	Phase     Phase               `json:"phase"`
	Loading   bool                `json:"loading"`
	ResultURL string              `json:"url,omitempty"`
	Err       string              `json:"error,omitempty"`
	Config    model.Configuration `json:"-"`
}

// Option customises coordinator construction.
type Option func(*Coordinator)

// WithConfiguration seeds the initial form configuration. Defaults to
// model.DefaultConfiguration.
func WithConfiguration(cfg model.Configuration) Option {
	return func(c *Coordinator) {
		c.cfg = cfg
	}
}

// Coordinator mediates between a presentation surface and the generation
// service. All methods are safe for concurrent use; the lock is never held
// across the network call.
type Coordinator struct {
	mu     sync.Mutex
	cfg    model.Configuration
	client generator.Client
	store  *resource.Store

	phase  Phase
	handle *resource.Handle
	errMsg string
	closed bool
}

// New constructs a Coordinator bound to a generation client and a result
// store. Both are required.
func New(client generator.Client, store *resource.Store, options ...Option) (*Coordinator, error) {
	if client == nil {
		return nil, errors.New("coordinator: generation client is required")
	}
	if store == nil {
		return nil, errors.New("coordinator: result store is required")
	}

	c := &Coordinator{
		cfg:    model.DefaultConfiguration(),
		client: client,
		store:  store,
		phase:  PhaseIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// UpdateField applies the model coercion rule for one raw input value.
func (c *Coordinator) UpdateField(name, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	return c.cfg.UpdateField(name, raw)
}

// Configuration returns a copy of the current form values.
func (c *Coordinator) Configuration() model.Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Submit validates the configuration and performs one generation request.
// Empty text fails fast with ErrEmptyContent and never touches the network.
// While a request is outstanding further submits report ErrRequestInFlight.
// The call blocks its own goroutine until the response lands; presentation
// surfaces invoke it off their render path.
func (c *Coordinator) Submit(ctx context.Context) error {
	if ctx == nil {
		return errors.New("coordinator: context is required")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase == PhasePending {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	if strings.TrimSpace(c.cfg.Text) == "" {
		c.errMsg = MsgEmptyContent
		c.mu.Unlock()
		return ErrEmptyContent
	}

	// Entering Pending: the prior outcome is cleared and a previously held
	// result is released before it can be replaced.
	c.errMsg = ""
	c.phase = PhasePending
	if c.handle != nil {
		_ = c.handle.Release()
		c.handle = nil
	}
	payload := c.cfg.Payload()
	c.mu.Unlock()

	result, err := c.client.Generate(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		// The owner was torn down mid-flight. No state mutation, and the
		// response bytes were never turned into a handle, so nothing leaks.
		return ErrClosed
	}

	if err != nil {
		// Server and transport failures collapse into the single message the
		// form displays; callers inspect the returned error to tell them apart.
		c.phase = PhaseFailed
		c.errMsg = MsgGenerationFailed
		return err
	}

	c.handle = c.store.Put(result.Data, result.ContentType)
	c.phase = PhaseSucceeded
	return nil
}

// Snapshot copies the current status for presentation.
func (c *Coordinator) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		Phase:   c.phase,
		Loading: c.phase == PhasePending,
		Err:     c.errMsg,
		Config:  c.cfg,
	}
	if c.handle != nil {
		status.ResultURL = c.handle.URL()
	}
	return status
}

// Result resolves the current result bytes, when a successful attempt holds
// one. Used by surfaces that persist the image (download, file output).
func (c *Coordinator) Result() ([]byte, string, bool) {
	c.mu.Lock()
	handle := c.handle
	c.mu.Unlock()

	if handle == nil {
		return nil, "", false
	}
	data, ok := handle.Bytes()
	if !ok {
		return nil, "", false
	}
	return data, handle.ContentType(), true
}

// Close tears the coordinator down, releasing any held result exactly once.
// Safe to call more than once; later calls are no-ops. A response arriving
// after Close observes the closed flag and leaves state untouched.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.handle != nil {
		err := c.handle.Release()
		c.handle = nil
		return err
	}
	return nil
}
