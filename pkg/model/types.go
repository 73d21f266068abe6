package model

import "strconv"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeColor   FieldType = "color"
)

// Canonical field names accepted by Configuration.UpdateField. They double as
// the JSON keys on the wire.
const (
	FieldText       = "text"
	FieldSize       = "size"
	FieldColor      = "color"
	FieldBackground = "background"
	FieldMargin     = "margin"
)

// OptionalInt is an integer input that distinguishes "cleared" from zero. The
// zero value is unset, which lets a user empty the control while typing without
// the value collapsing to 0.
type OptionalInt struct {
	value int
	set   bool
}

// NewOptionalInt returns a set OptionalInt holding v.
func NewOptionalInt(v int) OptionalInt {
	return OptionalInt{value: v, set: true}
}

// Int reports the held value and whether one is present.
func (o OptionalInt) Int() (int, bool) {
	return o.value, o.set
}

// IsSet reports whether the input currently holds a value.
func (o OptionalInt) IsSet() bool {
	return o.set
}

// String renders the value for prefilled form controls; unset renders empty.
func (o OptionalInt) String() string {
	if !o.set {
		return ""
	}
	return strconv.Itoa(o.value)
}

func (o OptionalInt) ptr() *int {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// Configuration is the user-editable set of QR generation parameters. It is
// mutated field-by-field through UpdateField and copied into an immutable
// Payload at submission time.
type Configuration struct {
	Text       string
	Size       OptionalInt
	Color      string
	Background string
	Margin     OptionalInt
}

// DefaultConfiguration seeds the parameters the generation service assumes
// when fields are omitted: black modules on a white background with a four
// module quiet zone.
func DefaultConfiguration() Configuration {
	return Configuration{
		Color:      "#000000",
		Background: "#ffffff",
		Margin:     NewOptionalInt(4),
	}
}

// Payload is the request body for the generation endpoint. Unset numeric
// fields are omitted rather than sent as zero.
type Payload struct {
	Text       string `json:"text"`
	Size       *int   `json:"size,omitempty"`
	Color      string `json:"color"`
	Background string `json:"background"`
	Margin     *int   `json:"margin,omitempty"`
}

// Payload copies the current configuration into the wire representation. The
// copy is taken eagerly so later field edits cannot race an in-flight request.
func (c Configuration) Payload() Payload {
	return Payload{
		Text:       c.Text,
		Size:       c.Size.ptr(),
		Color:      c.Color,
		Background: c.Background,
		Margin:     c.Margin.ptr(),
	}
}
