// Package tui collects QR parameters through terminal prompts and drives the
// same coordinator the web form uses, writing the resulting image to a file.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-qrform/pkg/coordinator"
	"github.com/goliatone/go-qrform/pkg/model"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// Session runs a prompt flow over the coordinator's field catalog.
type Session struct {
	driver PromptDriver
	coord  *coordinator.Coordinator
}

// NewSession constructs a Session bound to a coordinator. The survey driver is
// used unless an option provides another one.
func NewSession(coord *coordinator.Coordinator, options ...Option) (*Session, error) {
	if coord == nil {
		return nil, errors.New("tui: coordinator is required")
	}

	s := &Session{
		driver: newSurveyDriver(),
		coord:  coord,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Collect prompts for each field in order and applies the responses to the
// coordinator. Integer fields re-prompt on input that is not a whole number;
// required fields re-prompt while empty.
func (s *Session) Collect(ctx context.Context, fields []model.Field) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}

	cfg := s.coord.Configuration()
	for _, field := range fields {
		if err := s.promptField(ctx, field, currentValue(cfg, field)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field model.Field, defaultVal string) error {
	label := field.Label
	if label == "" {
		label = field.Name
	}

	for {
		response, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: defaultVal,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}

		if field.Required && strings.TrimSpace(response) == "" {
			_ = s.driver.Info(ctx, coordinator.MsgEmptyContent)
			continue
		}

		if err := s.coord.UpdateField(field.Name, response); err != nil {
			if errors.Is(err, model.ErrNotAnInteger) {
				_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: enter a whole number", field.Name))
				continue
			}
			return err
		}
		return nil
	}
}

// Generate submits the collected configuration and writes the image to path.
// Coordinator failures are reported through the driver before returning.
func (s *Session) Generate(ctx context.Context, path string) error {
	if err := s.coord.Submit(ctx); err != nil {
		if msg := s.coord.Snapshot().Err; msg != "" {
			_ = s.driver.Info(ctx, msg)
		}
		return err
	}

	data, _, ok := s.coord.Result()
	if !ok {
		return errors.New("tui: no result available after submit")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tui: write %s: %w", path, err)
	}
	return s.driver.Info(ctx, fmt.Sprintf("Saved %s", path))
}

// Run collects every field and generates the image in one pass.
func (s *Session) Run(ctx context.Context, fields []model.Field, path string) error {
	if err := s.Collect(ctx, fields); err != nil {
		return err
	}
	return s.Generate(ctx, path)
}

// currentValue resolves the prompt default for a field: the value already held
// by the configuration, falling back to the catalog default.
func currentValue(cfg model.Configuration, field model.Field) string {
	var current string
	switch field.Name {
	case model.FieldText:
		current = cfg.Text
	case model.FieldSize:
		current = cfg.Size.String()
	case model.FieldColor:
		current = cfg.Color
	case model.FieldBackground:
		current = cfg.Background
	case model.FieldMargin:
		current = cfg.Margin.String()
	}
	if current == "" {
		return field.Default
	}
	return current
}
