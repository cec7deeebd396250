package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty is returned when a catalog contains no assets.
	ErrEmpty = errors.New("catalog: no assets")

	// ErrDuplicateID is returned when two assets share an id.
	ErrDuplicateID = errors.New("catalog: duplicate asset id")

	// ErrUnknownCategory is returned for category names that do not map to a
	// download service type.
	ErrUnknownCategory = errors.New("catalog: unknown category")
)

// Category classifies an asset for the download service.
type Category string

const (
	// ModelWeights is a full checkpoint.
	ModelWeights Category = "model-weights"
	// Adapter is a LoRA-style adapter applied on top of a checkpoint.
	Adapter Category = "adapter"
	// Embedding is a textual inversion embedding.
	Embedding Category = "embedding"
)

// WireType returns the type name the download service expects.
func (c Category) WireType() string {
	switch c {
	case ModelWeights:
		return "Stable-Diffusion"
	case Adapter:
		return "LoRA"
	case Embedding:
		return "Embedding"
	default:
		return ""
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.WireType() != ""
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts canonical names, wire names and a few aliases.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "model-weights", "stable-diffusion", "checkpoint", "model":
		return ModelWeights, nil
	case "adapter", "lora":
		return Adapter, nil
	case "embedding", "textual-inversion":
		return Embedding, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// UnmarshalYAML parses a category through ParseCategory.
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Asset describes one downloadable artifact.
type Asset struct {
	ID       string   `yaml:"id" validate:"required"`
	Category Category `yaml:"category" validate:"required"`
	Name     string   `yaml:"name" validate:"required"`
}

func (a Asset) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.ID, a.Category, a.Name)
}

// Catalog is an ordered list of assets.
type Catalog []Asset

type catalogFile struct {
	Assets []Asset `yaml:"assets"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := Catalog(f.Assets)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the catalog is non-empty, every asset is complete and
// ids are unique.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmpty
	}

	seen := make(map[string]int, len(c))
	for i, a := range c {
		if err := validate.Struct(a); err != nil {
			return fmt.Errorf("catalog: asset %d: %w", i, err)
		}
		if !a.Category.Valid() {
			return fmt.Errorf("asset %d: %w: %q", i, ErrUnknownCategory, a.Category)
		}
		if j, ok := seen[a.ID]; ok {
			return fmt.Errorf("%w: %s (entries %d and %d)", ErrDuplicateID, a.ID, j, i)
		}
		seen[a.ID] = i
	}
	return nil
}
