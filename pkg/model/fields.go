package model

// Field models an individual input inside the rendered form. Struct fields are
// annotated so presentation surfaces can serialise them directly when needed.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Description string    `json:"description,omitempty"`
	Default     string    `json:"default,omitempty"`
}

// Fields returns the ordered catalog of configuration inputs. The order is the
// display order; descriptions can be enriched from an API document by the
// formspec package.
func Fields() []Field {
	defaults := DefaultConfiguration()
	return []Field{
		{
			Name:        FieldText,
			Type:        FieldTypeString,
			Required:    true,
			Label:       "Content",
			Placeholder: "Text or URL to encode",
		},
		{
			Name:        FieldSize,
			Type:        FieldTypeInteger,
			Label:       "Size",
			Placeholder: "px",
		},
		{
			Name:    FieldColor,
			Type:    FieldTypeColor,
			Label:   "Foreground",
			Default: defaults.Color,
		},
		{
			Name:    FieldBackground,
			Type:    FieldTypeColor,
			Label:   "Background",
			Default: defaults.Background,
		},
		{
			Name:    FieldMargin,
			Type:    FieldTypeInteger,
			Label:   "Margin",
			Default: defaults.Margin.String(),
		},
	}
}
