package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wire     string
	}{
		{"model-weights", ModelWeights, "Stable-Diffusion"},
		{"Stable-Diffusion", ModelWeights, "Stable-Diffusion"},
		{"checkpoint", ModelWeights, "Stable-Diffusion"},
		{"adapter", Adapter, "LoRA"},
		{"LoRA", Adapter, "LoRA"},
		{"embedding", Embedding, "Embedding"},
		{" Embedding ", Embedding, "Embedding"},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.expected)
		}
		if got.WireType() != tt.wire {
			t.Errorf("WireType(%q) = %q, want %q", got, got.WireType(), tt.wire)
		}
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	_, err := ParseCategory("vae")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
assets:
  - id: "128713"
    category: model-weights
    name: dreamshaper_8.safetensors
  - id: "87153"
    category: LoRA
    name: add_detail.safetensors
  - id: "9208"
    category: embedding
    name: easynegative.safetensors
`)

	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(c) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(c))
	}
	if c[0].ID != "128713" || c[0].Category != ModelWeights || c[0].Name != "dreamshaper_8.safetensors" {
		t.Errorf("unexpected first asset: %+v", c[0])
	}
	if c[1].Category != Adapter {
		t.Errorf("expected adapter, got %q", c[1].Category)
	}
	if c[2].Category.WireType() != "Embedding" {
		t.Errorf("expected Embedding wire type, got %q", c[2].Category.WireType())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr error
	}{
		{
			name:    "empty",
			catalog: Catalog{},
			wantErr: ErrEmpty,
		},
		{
			name: "duplicate id",
			catalog: Catalog{
				{ID: "1", Category: ModelWeights, Name: "a.safetensors"},
				{ID: "1", Category: Adapter, Name: "b.safetensors"},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "unknown category",
			catalog: Catalog{
				{ID: "1", Category: Category("vae"), Name: "a.safetensors"},
			},
			wantErr: ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingFields(t *testing.T) {
	for _, c := range []Catalog{
		{{Category: ModelWeights, Name: "a.safetensors"}},
		{{ID: "1", Category: ModelWeights}},
		{{ID: "1", Name: "a.safetensors"}},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for %+v", c[0])
		}
	}
}

func TestParseUnknownCategory(t *testing.T) {
	_, err := Parse([]byte("assets:\n  - id: \"1\"\n    category: vae\n    name: x\n"))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "assets:\n  - id: \"42\"\n    category: adapter\n    name: detail.safetensors\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(c) != 1 || c[0].ID != "42" {
		t.Errorf("unexpected catalog: %+v", c)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := LoadFile("/nonexistent/catalog.yaml"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
