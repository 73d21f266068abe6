// Package qrform exposes the building blocks of the QR form application:
// field coercion, the request coordinator, the generation client, and the
// presentation surfaces. Most callers only need the thin constructors here.
package qrform

import (
	"github.com/goliatone/go-qrform/pkg/coordinator"
	"github.com/goliatone/go-qrform/pkg/formspec"
	"github.com/goliatone/go-qrform/pkg/generator"
	"github.com/goliatone/go-qrform/pkg/model"
	"github.com/goliatone/go-qrform/pkg/resource"
	"github.com/goliatone/go-qrform/pkg/tui"
	"github.com/goliatone/go-qrform/pkg/webui"
)

// Configuration aliases the form parameter set.
type Configuration = model.Configuration

// Status aliases the coordinator's UI-facing snapshot.
type Status = coordinator.Status

// NewCoordinator constructs a request coordinator over a generation client
// and a result store.
func NewCoordinator(client generator.Client, store *resource.Store, options ...coordinator.Option) (*coordinator.Coordinator, error) {
	return coordinator.New(client, store, options...)
}

// NewGeneratorClient constructs the HTTP client for the generation service.
func NewGeneratorClient(options ...generator.Option) (generator.Client, error) {
	return generator.New(options...)
}

// NewStore constructs an in-memory result store.
func NewStore(options ...resource.Option) *resource.Store {
	return resource.NewStore(options...)
}

// NewWebUI constructs the HTTP presentation surface.
func NewWebUI(coord *coordinator.Coordinator, store *resource.Store, op *formspec.Operation, options ...webui.Option) (*webui.Server, error) {
	return webui.New(coord, store, op, options...)
}

// NewSession constructs the terminal prompt flow.
func NewSession(coord *coordinator.Coordinator, options ...tui.Option) (*tui.Session, error) {
	return tui.NewSession(coord, options...)
}
