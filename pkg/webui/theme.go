package webui

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// defaultManifest is the built-in page theme. Tokens become CSS custom
// properties on the rendered page; the dark variant overrides a subset.
func defaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: map[string]string{
			"page-bg":    "#f5f5f5",
			"surface":    "#ffffff",
			"text":       "#1f2328",
			"muted":      "#6e7781",
			"accent":     "#0969da",
			"accent-fg":  "#ffffff",
			"danger":     "#cf222e",
			"border":     "#d0d7de",
			"radius":     "6px",
			"font-stack": "system-ui, -apple-system, sans-serif",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"page-bg": "#0d1117",
					"surface": "#161b22",
					"text":    "#e6edf3",
					"muted":   "#8b949e",
					"border":  "#30363d",
				},
			},
		},
	}
}

// defaultSelection registers the built-in manifest and resolves it without a
// variant.
func defaultSelection() (*theme.Selection, error) {
	manifest := defaultManifest()
	provider := theme.NewRegistry()
	if err := provider.Register(manifest); err != nil {
		return nil, fmt.Errorf("webui: register theme: %w", err)
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Manifest: manifest,
	}, nil
}

// themeVars flattens a selection into CSS custom properties. Variant tokens
// overlay the base tokens of the manifest.
func themeVars(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if selection.Variant != "" {
		if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
			for key, value := range variant.Tokens {
				tokens[key] = value
			}
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return vars
}

// cssVarsStyle renders the variable block injected into the page <style>.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
