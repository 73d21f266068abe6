package formspec_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-qrform/pkg/formspec"
	"github.com/goliatone/go-qrform/pkg/model"
)

func TestLoadDescribesGenerationOperation(t *testing.T) {
	op, err := formspec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if op.Method != "POST" {
		t.Fatalf("expected POST operation, got %q", op.Method)
	}
	if op.Path != "/api/qrcode" {
		t.Fatalf("unexpected path %q", op.Path)
	}
	if op.ID != "generate-qrcode" {
		t.Fatalf("unexpected operation id %q", op.ID)
	}
	if op.Summary == "" {
		t.Fatal("expected operation summary")
	}
}

func TestLoadMergesFieldMetadata(t *testing.T) {
	op, err := formspec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	fields := make(map[string]model.Field, len(op.Fields))
	order := make([]string, 0, len(op.Fields))
	for _, field := range op.Fields {
		fields[field.Name] = field
		order = append(order, field.Name)
	}

	wantOrder := []string{
		model.FieldText,
		model.FieldSize,
		model.FieldColor,
		model.FieldBackground,
		model.FieldMargin,
	}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	text := fields[model.FieldText]
	if !text.Required {
		t.Fatal("text field should be required")
	}
	if text.Description == "" {
		t.Fatal("text field should carry the document description")
	}

	if got := fields[model.FieldColor].Type; got != model.FieldTypeColor {
		t.Fatalf("color field type = %q, want %q", got, model.FieldTypeColor)
	}
	if got := fields[model.FieldMargin].Default; got != "4" {
		t.Fatalf("margin default = %q, want %q", got, "4")
	}
	if got := fields[model.FieldSize].Type; got != model.FieldTypeInteger {
		t.Fatalf("size field type = %q, want %q", got, model.FieldTypeInteger)
	}
}

func TestLoadHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := formspec.Load(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
