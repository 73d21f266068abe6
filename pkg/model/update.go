package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField signals an UpdateField call with a name outside the
	// configuration schema.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrNotAnInteger signals that a numeric field received input that does not
	// parse; the previous value is left untouched. UIs typically swallow this.
	ErrNotAnInteger = errors.New("model: not an integer")
)

// UpdateField applies the per-field coercion rule for a raw input value.
// String fields store the value verbatim. Numeric fields accept an empty
// string (clearing back to the unset sentinel) or a parseable integer;
// anything else keeps the prior value and reports ErrNotAnInteger.
func (c *Configuration) UpdateField(name, raw string) error {
	switch name {
	case FieldText:
		c.Text = raw
	case FieldColor:
		c.Color = raw
	case FieldBackground:
		c.Background = raw
	case FieldSize:
		return coerceInt(&c.Size, raw)
	case FieldMargin:
		return coerceInt(&c.Margin, raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func coerceInt(dst *OptionalInt, raw string) error {
	if strings.TrimSpace(raw) == "" {
		*dst = OptionalInt{}
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNotAnInteger, raw)
	}
	*dst = NewOptionalInt(v)
	return nil
}
